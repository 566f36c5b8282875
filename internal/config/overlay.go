package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/cliftbar/mapviewer/internal/models"
)

// FileOverlay reads the active-profile override from a YAML document on
// disk (config.yaml by convention). A missing file means no overlay.
type FileOverlay struct {
	Path string
}

// ReadOverlay parses the overlay file. Unknown fields are ignored;
// fields absent from the document keep their defaults.
func (f FileOverlay) ReadOverlay() (*models.Config, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read overlay file: %w", err)
	}

	cfg := models.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse overlay file: %w", err)
	}
	return &cfg, nil
}

// WatchOverlay re-applies the overlay whenever the file changes, until
// ctx is cancelled. The watch is on the containing directory so that
// editors that replace the file (rename-over-write) are still seen.
func (s *Service) WatchOverlay(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create overlay watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				s.logger.Info("config overlay changed, reloading", "path", target, "op", event.Op.String())
				s.ReloadActive(ctx)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("overlay watcher error", slog.Any("error", err))
			}
		}
	}()

	return nil
}
