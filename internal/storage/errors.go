package storage

import "errors"

// Common storage errors
var (
	// ErrTrackNotFound indicates that no track row exists for the id
	ErrTrackNotFound = errors.New("track not found")

	// ErrFolderNotFound indicates that no folder row exists for the id
	ErrFolderNotFound = errors.New("folder not found")

	// ErrFolderCycle indicates a reparent that would make a folder its
	// own ancestor
	ErrFolderCycle = errors.New("folder reparent would create a cycle")

	// ErrProfileNotFound indicates that no config profile is stored
	// under the name
	ErrProfileNotFound = errors.New("config profile not found")

	// ErrProfileProtected indicates an attempt to delete the active
	// "config" profile
	ErrProfileProtected = errors.New("config profile cannot be deleted")
)
