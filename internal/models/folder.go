package models

// Folder is a grouping node in a forest structure. Tracks can be
// assigned to any number of folders (many-to-many).
type Folder struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ParentID   *string  `json:"parentId,omitempty"` // nil for root folders
	SubFolders []Folder `json:"subFolders,omitempty"`
	TrackIDs   []string `json:"trackIds,omitempty"`
}

// IsRoot reports whether the folder sits at the top of the forest.
func (f Folder) IsRoot() bool {
	return f.ParentID == nil
}
