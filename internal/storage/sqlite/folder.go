package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cliftbar/mapviewer/internal/models"
	"github.com/cliftbar/mapviewer/internal/storage"
)

// maxFolderDepth caps hierarchy reconstruction and ancestry walks so
// hidden cycles in row data terminate instead of hanging.
const maxFolderDepth = 64

// CreateFolder inserts a folder and returns its minted id.
func (s *Storage) CreateFolder(ctx context.Context, name string, parentID *string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO folders (id, name, parent_id) VALUES (?, ?, ?)`, id, name, parentID)
	if err != nil {
		return "", fmt.Errorf("failed to insert folder: %w", err)
	}
	return id, nil
}

// DeleteFolder removes a folder and its membership rows. Direct
// subfolders are reparented to the deleted folder's parent (or become
// roots when the folder was a root); tracks are never deleted, only the
// membership edges. Unknown ids are a no-op.
func (s *Storage) DeleteFolder(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var parentID *string
	err = tx.QueryRowContext(ctx, `SELECT parent_id FROM folders WHERE id = ?`, id).Scan(&parentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to load folder: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE folders SET parent_id = ? WHERE parent_id = ?`, parentID, id); err != nil {
		return fmt.Errorf("failed to reparent subfolders: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM track_folders WHERE folder_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete folder memberships: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit folder delete: %w", err)
	}
	return nil
}

// UpdateFolderName renames a folder. Unknown ids are a no-op.
func (s *Storage) UpdateFolderName(ctx context.Context, id, name string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE folders SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename folder: %w", err)
	}
	return nil
}

// UpdateFolderParent moves a folder. Returns ErrFolderCycle when the
// new parent is the folder itself or one of its descendants, and
// ErrFolderNotFound when the new parent does not exist.
func (s *Storage) UpdateFolderParent(ctx context.Context, id string, parentID *string) error {
	if parentID != nil {
		if *parentID == id {
			return storage.ErrFolderCycle
		}

		// Walk up from the proposed parent; finding the folder on the
		// ancestor chain means the move would create a cycle.
		cursor := *parentID
		for depth := 0; depth < maxFolderDepth; depth++ {
			var next *string
			err := s.db.QueryRowContext(ctx,
				`SELECT parent_id FROM folders WHERE id = ?`, cursor).Scan(&next)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					if cursor == *parentID {
						return storage.ErrFolderNotFound
					}
					break
				}
				return fmt.Errorf("failed to walk folder ancestry: %w", err)
			}
			if next == nil {
				break
			}
			if *next == id {
				return storage.ErrFolderCycle
			}
			cursor = *next
		}
	}

	_, err := s.db.ExecContext(ctx, `UPDATE folders SET parent_id = ? WHERE id = ?`, parentID, id)
	if err != nil {
		return fmt.Errorf("failed to reparent folder: %w", err)
	}
	return nil
}

// AddTracksToFolder adds membership edges as one atomic batch.
// Edges that already exist are left alone.
func (s *Storage) AddTracksToFolder(ctx context.Context, trackIDs []string, folderID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, trackID := range trackIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO track_folders (track_id, folder_id) VALUES (?, ?)`,
			trackID, folderID); err != nil {
			return fmt.Errorf("failed to add track to folder: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit membership add: %w", err)
	}
	return nil
}

// RemoveTracksFromFolder removes membership edges as one atomic batch.
func (s *Storage) RemoveTracksFromFolder(ctx context.Context, trackIDs []string, folderID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, trackID := range trackIDs {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM track_folders WHERE track_id = ? AND folder_id = ?`,
			trackID, folderID); err != nil {
			return fmt.Errorf("failed to remove track from folder: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit membership remove: %w", err)
	}
	return nil
}

// folderRow is one flat folders-table row before tree assembly.
type folderRow struct {
	id       string
	name     string
	parentID *string
}

// GetFolderHierarchy returns the folder forest: root folders with
// SubFolders nested recursively and TrackIDs from the join table.
// Recursion is depth-capped, so malformed row data with hidden cycles
// still terminates.
func (s *Storage) GetFolderHierarchy(ctx context.Context) ([]models.Folder, error) {
	folders, err := s.loadFolderRows(ctx)
	if err != nil {
		return nil, err
	}

	memberships, err := s.loadMemberships(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[string][]folderRow)
	var roots []folderRow
	for _, row := range folders {
		if row.parentID == nil {
			roots = append(roots, row)
			continue
		}
		children[*row.parentID] = append(children[*row.parentID], row)
	}

	var build func(row folderRow, depth int) models.Folder
	build = func(row folderRow, depth int) models.Folder {
		folder := models.Folder{
			ID:       row.id,
			Name:     row.name,
			ParentID: row.parentID,
			TrackIDs: memberships[row.id],
		}
		if depth >= maxFolderDepth {
			return folder
		}
		for _, child := range children[row.id] {
			folder.SubFolders = append(folder.SubFolders, build(child, depth+1))
		}
		return folder
	}

	result := []models.Folder{}
	for _, root := range roots {
		result = append(result, build(root, 0))
	}
	return result, nil
}

// GetFoldersForTrack returns the folders a track belongs to, flat.
func (s *Storage) GetFoldersForTrack(ctx context.Context, trackID string) ([]models.Folder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.name, f.parent_id
		FROM folders f
		JOIN track_folders tf ON tf.folder_id = f.id
		WHERE tf.track_id = ?
		ORDER BY f.rowid
	`, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders for track: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	folders := []models.Folder{}
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.ParentID); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return folders, nil
}

func (s *Storage) loadFolderRows(ctx context.Context) ([]folderRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, parent_id FROM folders ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	var folders []folderRow
	for rows.Next() {
		var row folderRow
		if err := rows.Scan(&row.id, &row.name, &row.parentID); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return folders, nil
}

func (s *Storage) loadMemberships(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT folder_id, track_id FROM track_folders ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	memberships := make(map[string][]string)
	for rows.Next() {
		var folderID, trackID string
		if err := rows.Scan(&folderID, &trackID); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships[folderID] = append(memberships[folderID], trackID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return memberships, nil
}
