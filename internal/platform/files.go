// Package platform holds the collaborator interfaces the core consumes
// but does not implement: file access is provided by the surrounding
// platform (a picker dialog, a CLI argument), never opened by the core
// itself.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileAccess is the file-picking collaborator. Pick returns ok=false
// when the user cancelled or the file was unreadable; Save writes
// content under the given name.
type FileAccess interface {
	Pick(extensions []string) (content string, ok bool, err error)
	Save(filename, content string) error
}

// LocalFile adapts a caller-supplied path (a CLI argument) to the
// FileAccess contract.
type LocalFile struct {
	Path string
}

// Pick reads the configured path if its extension is in the accepted
// set. A missing file reads as a cancelled pick rather than an error.
func (f LocalFile) Pick(extensions []string) (string, bool, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Path)), ".")
	accepted := len(extensions) == 0
	for _, e := range extensions {
		if ext == strings.ToLower(strings.TrimPrefix(e, ".")) {
			accepted = true
			break
		}
	}
	if !accepted {
		return "", false, fmt.Errorf("file %s does not match extensions %v", f.Path, extensions)
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return string(data), true, nil
}

// Save writes content to filename, creating parent directories.
func (f LocalFile) Save(filename, content string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
