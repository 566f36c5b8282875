// Package config manages map-view profiles: named Config blobs in a
// ConfigStorage backend, one of which ("config") is the active profile
// driving the running application.
//
// The active config is an observable value with single-writer
// semantics: only SaveConfig on the active profile and SwitchProfile
// replace it; everything else reads via Active or Subscribe.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cliftbar/mapviewer/internal/models"
	"github.com/cliftbar/mapviewer/internal/storage"
)

// OverlaySource provides an optional environment-supplied override for
// the active profile. A nil config with nil error means no overlay is
// present.
type OverlaySource interface {
	ReadOverlay() (*models.Config, error)
}

// Service owns profile persistence and the active-config signal.
type Service struct {
	logger  *slog.Logger
	store   storage.ConfigStorage
	overlay OverlaySource // nil when no overlay is configured

	mu     sync.RWMutex
	active models.Config
	subs   map[int]chan models.Config
	nextID int
}

// NewService builds a Service and primes the active config from
// storage (plus overlay, when present).
func NewService(ctx context.Context, logger *slog.Logger, store storage.ConfigStorage, overlay OverlaySource) *Service {
	s := &Service{
		logger:  logger,
		store:   store,
		overlay: overlay,
		subs:    make(map[int]chan models.Config),
	}
	s.active = s.LoadConfig(ctx, models.ActiveProfile)
	return s
}

// LoadConfig returns the config stored under name. A missing or corrupt
// blob yields defaults, never an error. For the active profile only,
// an overlay read from the environment replaces the stored value
// wholesale (last writer wins, no field merge).
func (s *Service) LoadConfig(ctx context.Context, name string) models.Config {
	cfg := models.DefaultConfig()

	data, err := s.store.LoadProfile(ctx, name)
	switch {
	case errors.Is(err, storage.ErrProfileNotFound):
		// First run for this profile; defaults apply.
	case err != nil:
		s.logger.Error("failed to load profile, using defaults", "profile", name, "error", err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			s.logger.Warn("corrupt config blob, using defaults", "profile", name, "error", err)
			cfg = models.DefaultConfig()
		}
	}

	if name == models.ActiveProfile && s.overlay != nil {
		over, err := s.overlay.ReadOverlay()
		if err != nil {
			s.logger.Warn("failed to read config overlay", "error", err)
		} else if over != nil {
			cfg = *over
		}
	}

	return cfg
}

// SaveConfig serializes and upserts the config under name. Saving the
// active profile also publishes the new value to subscribers.
func (s *Service) SaveConfig(ctx context.Context, cfg models.Config, name string) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := s.store.SaveProfile(ctx, name, data); err != nil {
		return err
	}
	if name == models.ActiveProfile {
		s.setActive(cfg)
	}
	return nil
}

// SwitchProfile loads the named profile's stored value and re-saves it
// as the active profile. The source profile is left untouched.
func (s *Service) SwitchProfile(ctx context.Context, name string) error {
	cfg := s.LoadConfig(ctx, name)
	return s.SaveConfig(ctx, cfg, models.ActiveProfile)
}

// GetAllProfiles returns all stored profile names.
func (s *Service) GetAllProfiles(ctx context.Context) ([]string, error) {
	return s.store.ListProfiles(ctx)
}

// DeleteProfile removes a stored profile. Deleting the active profile
// is rejected by the storage layer with ErrProfileProtected.
func (s *Service) DeleteProfile(ctx context.Context, name string) error {
	return s.store.DeleteProfile(ctx, name)
}

// Active returns the current active config.
func (s *Service) Active() models.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Subscribe registers for active-config updates. The returned channel
// receives the new value after every change; the cancel function
// unregisters and closes it. Slow consumers miss intermediate values
// rather than blocking the writer.
func (s *Service) Subscribe() (<-chan models.Config, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan models.Config, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// ReloadActive re-derives the active config from storage and overlay
// and publishes it. Used by the overlay watcher.
func (s *Service) ReloadActive(ctx context.Context) {
	s.setActive(s.LoadConfig(ctx, models.ActiveProfile))
}

func (s *Service) setActive(cfg models.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = cfg
	for _, ch := range s.subs {
		// Drop the stale value if the subscriber has not drained it.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- cfg:
		default:
		}
	}
}
