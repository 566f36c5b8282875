package storage

import (
	"context"

	"github.com/cliftbar/mapviewer/internal/models"
)

// TrackStorage defines the interface for durable track persistence.
// Tracks are stored flattened: one scalar row per track and one row per
// point carrying its segment index; implementations must preserve point
// order within a segment and segment order within a track.
type TrackStorage interface {
	// GetAllTracks returns every stored track with segments rebuilt in
	// ascending segment-index order. Returns an empty slice when no
	// tracks are stored.
	GetAllTracks(ctx context.Context) ([]models.Track, error)

	// GetVisibleTracks returns only tracks whose visible flag is set.
	GetVisibleTracks(ctx context.Context) ([]models.Track, error)

	// GetTrack returns a single track by id.
	// Returns ErrTrackNotFound when no row exists.
	GetTrack(ctx context.Context, id string) (models.Track, error)

	// SaveTrack upserts a track. An empty id mints a new one; the
	// returned id is always non-empty. The point set is replaced
	// wholesale in one transaction, so re-saving is idempotent and
	// never duplicates points.
	SaveTrack(ctx context.Context, track models.Track) (string, error)

	// UpdateTrackVisibility flips the visible flag without touching
	// points. Unknown ids are a no-op.
	UpdateTrackVisibility(ctx context.Context, id string, visible bool) error

	// UpdateTrackStyle updates color and line style without touching
	// points. Unknown ids are a no-op.
	UpdateTrackStyle(ctx context.Context, id, color string, style models.LineStyle) error

	// DeleteTrack removes the track row, its points and its folder
	// memberships atomically. Unknown ids are a no-op.
	DeleteTrack(ctx context.Context, id string) error
}

// FolderStorage defines the interface for the folder forest and
// track-to-folder membership.
type FolderStorage interface {
	// CreateFolder inserts a folder and returns its minted id.
	// parentID nil creates a root folder.
	CreateFolder(ctx context.Context, name string, parentID *string) (string, error)

	// DeleteFolder removes a folder and its membership rows. Direct
	// subfolders are reparented to the deleted folder's parent rather
	// than orphaned or cascaded.
	DeleteFolder(ctx context.Context, id string) error

	// UpdateFolderName renames a folder.
	UpdateFolderName(ctx context.Context, id, name string) error

	// UpdateFolderParent moves a folder. Returns ErrFolderCycle when
	// the new parent is the folder itself or one of its descendants.
	UpdateFolderParent(ctx context.Context, id string, parentID *string) error

	// AddTracksToFolder adds membership edges as one atomic batch.
	// Existing edges are kept as-is.
	AddTracksToFolder(ctx context.Context, trackIDs []string, folderID string) error

	// RemoveTracksFromFolder removes membership edges as one atomic
	// batch.
	RemoveTracksFromFolder(ctx context.Context, trackIDs []string, folderID string) error

	// GetFolderHierarchy returns the root folders with SubFolders
	// nested recursively and TrackIDs populated from the join table.
	GetFolderHierarchy(ctx context.Context) ([]models.Folder, error)

	// GetFoldersForTrack returns the folders a track belongs to, flat,
	// without subfolder nesting.
	GetFoldersForTrack(ctx context.Context, trackID string) ([]models.Folder, error)
}

// ConfigStorage defines the interface for profile-keyed config blobs.
type ConfigStorage interface {
	// LoadProfile returns the raw serialized config stored under name.
	// Returns ErrProfileNotFound when the profile does not exist.
	LoadProfile(ctx context.Context, name string) ([]byte, error)

	// SaveProfile upserts the serialized config under name.
	SaveProfile(ctx context.Context, name string, data []byte) error

	// ListProfiles returns all distinct stored profile names.
	ListProfiles(ctx context.Context) ([]string, error)

	// DeleteProfile removes a stored profile. Returns
	// ErrProfileProtected for the active "config" profile.
	DeleteProfile(ctx context.Context, name string) error
}
