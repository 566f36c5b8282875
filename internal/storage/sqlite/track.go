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

// GetAllTracks returns every stored track with segments rebuilt.
// Tracks come back in insertion order; points within a segment keep
// their original order via the seq column.
func (s *Storage) GetAllTracks(ctx context.Context) ([]models.Track, error) {
	return s.queryTracks(ctx, `
		SELECT id, name, color, line_style, visible
		FROM tracks
		ORDER BY rowid
	`)
}

// GetVisibleTracks returns only tracks whose visible flag is set.
func (s *Storage) GetVisibleTracks(ctx context.Context) ([]models.Track, error) {
	return s.queryTracks(ctx, `
		SELECT id, name, color, line_style, visible
		FROM tracks
		WHERE visible = 1
		ORDER BY rowid
	`)
}

// GetTrack returns a single track by id.
// Returns ErrTrackNotFound when no row exists.
func (s *Storage) GetTrack(ctx context.Context, id string) (models.Track, error) {
	query := `
		SELECT id, name, color, line_style, visible
		FROM tracks
		WHERE id = ?
	`

	var (
		track   models.Track
		style   string
		visible int
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&track.ID, &track.Name, &track.Color, &style, &visible,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Track{}, storage.ErrTrackNotFound
		}
		return models.Track{}, fmt.Errorf("failed to get track: %w", err)
	}

	track.Style = models.ParseLineStyle(style)
	track.Visible = intToBool(visible)
	track.Segments, err = s.loadSegments(ctx, track.ID)
	if err != nil {
		return models.Track{}, err
	}
	return track, nil
}

// SaveTrack upserts a track in one transaction: the scalar row is
// upserted and the point rows are replaced wholesale, so re-saving the
// same id never duplicates points. An empty id mints a new one.
func (s *Storage) SaveTrack(ctx context.Context, track models.Track) (string, error) {
	if err := track.Validate(); err != nil {
		return "", fmt.Errorf("invalid track: %w", err)
	}

	id := track.ID
	if id == "" {
		id = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tracks (id, name, color, line_style, visible)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			line_style = excluded.line_style,
			visible = excluded.visible
	`, id, track.Name, track.Color, track.Style.String(), boolToInt(track.Visible))
	if err != nil {
		return "", fmt.Errorf("failed to upsert track: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM track_points WHERE track_id = ?`, id); err != nil {
		return "", fmt.Errorf("failed to clear points: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO track_points (track_id, segment_index, seq, latitude, longitude, elevation, time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer insert.Close()

	for segIdx, seg := range track.Segments {
		for seq, p := range seg.Points {
			if _, err := insert.ExecContext(ctx, id, segIdx, seq,
				p.Latitude, p.Longitude, p.Elevation, p.Time); err != nil {
				return "", fmt.Errorf("failed to insert point: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit track save: %w", err)
	}
	return id, nil
}

// UpdateTrackVisibility flips the visible flag. Unknown ids are a
// no-op.
func (s *Storage) UpdateTrackVisibility(ctx context.Context, id string, visible bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tracks SET visible = ? WHERE id = ?`, boolToInt(visible), id)
	if err != nil {
		return fmt.Errorf("failed to update visibility: %w", err)
	}
	return nil
}

// UpdateTrackStyle updates color and line style. Unknown ids are a
// no-op.
func (s *Storage) UpdateTrackStyle(ctx context.Context, id, color string, style models.LineStyle) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tracks SET color = ?, line_style = ? WHERE id = ?`, color, style.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update style: %w", err)
	}
	return nil
}

// DeleteTrack removes the track row, its points and its folder
// memberships in one transaction.
func (s *Storage) DeleteTrack(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM track_points WHERE track_id = ?`,
		`DELETE FROM track_folders WHERE track_id = ?`,
		`DELETE FROM tracks WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete track: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit track delete: %w", err)
	}
	return nil
}

// queryTracks runs a scalar-row query and hydrates segments for each
// returned track.
func (s *Storage) queryTracks(ctx context.Context, query string) ([]models.Track, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	tracks := []models.Track{}
	for rows.Next() {
		var (
			track   models.Track
			style   string
			visible int
		)
		if err := rows.Scan(&track.ID, &track.Name, &track.Color, &style, &visible); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		track.Style = models.ParseLineStyle(style)
		track.Visible = intToBool(visible)
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	for i := range tracks {
		segments, err := s.loadSegments(ctx, tracks[i].ID)
		if err != nil {
			return nil, err
		}
		tracks[i].Segments = segments
	}
	return tracks, nil
}

// loadSegments fetches a track's point rows ordered by segment index
// then insertion sequence, and groups them into one segment per
// distinct index value in ascending order.
func (s *Storage) loadSegments(ctx context.Context, trackID string) ([]models.TrackSegment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT segment_index, latitude, longitude, elevation, time
		FROM track_points
		WHERE track_id = ?
		ORDER BY segment_index ASC, seq ASC
	`, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	var (
		segments []models.TrackSegment
		current  models.TrackSegment
		curIdx   int64 = -1
	)
	for rows.Next() {
		var (
			segIdx int64
			point  models.TrackPoint
		)
		if err := rows.Scan(&segIdx, &point.Latitude, &point.Longitude, &point.Elevation, &point.Time); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		if segIdx != curIdx {
			if len(current.Points) > 0 {
				segments = append(segments, current)
			}
			current = models.TrackSegment{}
			curIdx = segIdx
		}
		current.Points = append(current.Points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	if len(current.Points) > 0 {
		segments = append(segments, current)
	}
	return segments, nil
}
