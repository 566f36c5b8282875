package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliftbar/mapviewer/internal/models"
	"github.com/cliftbar/mapviewer/internal/storage"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	return s, func() {
		require.NoError(t, s.Close())
	}
}

func float64Ptr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64       { return &v }

func sampleTrack() models.Track {
	return models.Track{
		Name: "Forest Loop",
		Segments: []models.TrackSegment{
			{Points: []models.TrackPoint{
				{Latitude: 45.1, Longitude: -122.1, Elevation: float64Ptr(100.5), Time: int64Ptr(1709287200000)},
				{Latitude: 45.2, Longitude: -122.2},
			}},
			{Points: []models.TrackPoint{
				{Latitude: 45.3, Longitude: -122.3},
			}},
		},
		Color:   "#FF0000",
		Style:   models.LineStyleDashed,
		Visible: true,
	}
}

func TestTrackStorage_SaveAndLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	track := sampleTrack()
	id, err := s.SaveTrack(ctx, track)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, err := s.GetTrack(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, loaded.ID)
	assert.Equal(t, track.Name, loaded.Name)
	assert.Equal(t, track.Color, loaded.Color)
	assert.Equal(t, track.Style, loaded.Style)
	assert.Equal(t, track.Visible, loaded.Visible)
	// Segment boundaries and point order survive the flat row store.
	assert.Equal(t, track.Segments, loaded.Segments)
}

func TestTrackStorage_SaveTrack_KeepsExistingID(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	id, err := s.SaveTrack(ctx, sampleTrack())
	require.NoError(t, err)

	renamed := sampleTrack()
	renamed.ID = id
	renamed.Name = "Renamed"
	id2, err := s.SaveTrack(ctx, renamed)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	loaded, err := s.GetTrack(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", loaded.Name)

	all, err := s.GetAllTracks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTrackStorage_SaveTrack_IdempotentResave(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	id, err := s.SaveTrack(ctx, sampleTrack())
	require.NoError(t, err)

	// Re-save with a different, smaller point set: exactly the second
	// set must remain, with no leftovers from the first save.
	second := models.Track{
		ID:   id,
		Name: "Forest Loop",
		Segments: []models.TrackSegment{
			{Points: []models.TrackPoint{
				{Latitude: 50.0, Longitude: 8.0},
			}},
		},
		Color:   "#00FF00",
		Style:   models.LineStyleSolid,
		Visible: true,
	}
	_, err = s.SaveTrack(ctx, second)
	require.NoError(t, err)

	loaded, err := s.GetTrack(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, second.Segments, loaded.Segments)
	assert.Equal(t, 1, loaded.PointCount())

	var pointRows int
	require.NoError(t, s.DB().QueryRow(
		`SELECT COUNT(*) FROM track_points WHERE track_id = ?`, id).Scan(&pointRows))
	assert.Equal(t, 1, pointRows)
}

func TestTrackStorage_GetVisibleTracks(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	shown := sampleTrack()
	shownID, err := s.SaveTrack(ctx, shown)
	require.NoError(t, err)

	hidden := sampleTrack()
	hidden.Name = "Hidden"
	hidden.Visible = false
	_, err = s.SaveTrack(ctx, hidden)
	require.NoError(t, err)

	visible, err := s.GetVisibleTracks(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, shownID, visible[0].ID)

	all, err := s.GetAllTracks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTrackStorage_UpdateScalarFields(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	id, err := s.SaveTrack(ctx, sampleTrack())
	require.NoError(t, err)

	require.NoError(t, s.UpdateTrackVisibility(ctx, id, false))
	require.NoError(t, s.UpdateTrackStyle(ctx, id, "#123456", models.LineStyleDotted))

	loaded, err := s.GetTrack(ctx, id)
	require.NoError(t, err)
	assert.False(t, loaded.Visible)
	assert.Equal(t, "#123456", loaded.Color)
	assert.Equal(t, models.LineStyleDotted, loaded.Style)
	// Points untouched.
	assert.Equal(t, 3, loaded.PointCount())

	// Unknown ids are a no-op, not an error.
	assert.NoError(t, s.UpdateTrackVisibility(ctx, "missing", true))
	assert.NoError(t, s.UpdateTrackStyle(ctx, "missing", "#000000", models.LineStyleSolid))
}

func TestTrackStorage_DeleteTrack(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	id, err := s.SaveTrack(ctx, sampleTrack())
	require.NoError(t, err)

	folderID, err := s.CreateFolder(ctx, "Rides", nil)
	require.NoError(t, err)
	require.NoError(t, s.AddTracksToFolder(ctx, []string{id}, folderID))

	require.NoError(t, s.DeleteTrack(ctx, id))

	_, err = s.GetTrack(ctx, id)
	assert.ErrorIs(t, err, storage.ErrTrackNotFound)

	var pointRows, memberRows int
	require.NoError(t, s.DB().QueryRow(
		`SELECT COUNT(*) FROM track_points WHERE track_id = ?`, id).Scan(&pointRows))
	require.NoError(t, s.DB().QueryRow(
		`SELECT COUNT(*) FROM track_folders WHERE track_id = ?`, id).Scan(&memberRows))
	assert.Zero(t, pointRows)
	assert.Zero(t, memberRows)

	// Deleting again is a no-op.
	assert.NoError(t, s.DeleteTrack(ctx, id))
}

func TestTrackStorage_SaveTrack_RejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	bad := sampleTrack()
	bad.Color = "red"
	_, err := s.SaveTrack(ctx, bad)
	assert.Error(t, err)
}

func TestStorage_SchemaSelfCheck(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	// Simulate a migration whose version was recorded without the DDL
	// running: drop a marker table behind goose's back.
	_, err := s.DB().Exec(`DROP TABLE track_folders`)
	require.NoError(t, err)

	require.NoError(t, s.verifySchema(ctx))

	exists, err := s.tableExists(ctx, "track_folders")
	require.NoError(t, err)
	assert.True(t, exists)
}
