// Package tracks is the import/export façade: it wires the format
// codecs to track storage. Parse failures degrade to "nothing
// imported"; storage failures always propagate, since a failed save
// must never be reported as success.
package tracks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cliftbar/mapviewer/internal/codec"
	"github.com/cliftbar/mapviewer/internal/models"
	"github.com/cliftbar/mapviewer/internal/storage"
	"github.com/cliftbar/mapviewer/internal/worker"
)

// Service coordinates codecs and the track store.
type Service struct {
	logger *slog.Logger
	store  storage.TrackStorage
	pool   *worker.Pool
}

// NewService creates the façade.
func NewService(logger *slog.Logger, store storage.TrackStorage, pool *worker.Pool) *Service {
	return &Service{
		logger: logger,
		store:  store,
		pool:   pool,
	}
}

// Import decodes content in the given format and persists every track
// that parsed, returning them with their assigned ids in document
// order. Unparsable content yields an empty slice and a nil error; a
// storage failure aborts the import and returns the tracks saved before
// it alongside the error.
//
// The whole operation runs as one pooled task, keeping decode and
// storage work off the caller's interactive path.
func (s *Service) Import(ctx context.Context, content string, format codec.Format) ([]models.Track, error) {
	saved := []models.Track{}

	err := s.pool.Submit(ctx, func(ctx context.Context) error {
		decoded, diag := codec.ForFormat(format).Decode(content)
		if diag.Err != nil {
			s.logger.Warn("import: content did not parse", "format", format, "error", diag.Err)
			return nil
		}
		for _, note := range diag.Dropped {
			s.logger.Debug("import: dropped item", "format", format, "detail", note)
		}

		for _, track := range decoded {
			id, err := s.store.SaveTrack(ctx, track)
			if err != nil {
				return fmt.Errorf("failed to save imported track %q: %w", track.Name, err)
			}
			track.ID = id
			saved = append(saved, track)
		}
		return nil
	})
	if err != nil {
		return saved, err
	}

	s.logger.Info("import finished", "format", format, "tracks", len(saved))
	return saved, nil
}

// Export serializes a track value in the given format. Encoding cannot
// fail for a well-formed Track; format validity is established by
// codec.ParseFormat at the API boundary.
func (s *Service) Export(track models.Track, format codec.Format) string {
	return codec.ForFormat(format).Encode(track)
}

// ExportByID loads a stored track and serializes it.
// Returns storage.ErrTrackNotFound for unknown ids.
func (s *Service) ExportByID(ctx context.Context, id string, format codec.Format) (string, error) {
	var out string
	err := s.pool.Submit(ctx, func(ctx context.Context) error {
		track, err := s.store.GetTrack(ctx, id)
		if err != nil {
			return err
		}
		out = codec.ForFormat(format).Encode(track)
		return nil
	})
	return out, err
}
