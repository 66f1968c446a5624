// Package storage persists synthesized audio to the local filesystem, where
// it is served back under the static audio route.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File and directory permissions.
const (
	filePermissions = 0o600
	dirPermissions  = 0o750
)

const audioFileExt = ".mp3"

// Static errors.
var (
	// ErrEmptyID indicates the artifact identifier is empty.
	ErrEmptyID = errors.New("artifact id cannot be empty")
	// ErrInvalidID indicates the artifact identifier would escape the store directory.
	ErrInvalidID = errors.New("artifact id contains path separators")
	// ErrEmptyData indicates there are no audio bytes to persist.
	ErrEmptyData = errors.New("audio data cannot be empty")
)

// FileStore writes audio bytes under a single directory, one file per
// artifact. Artifact identifiers are generated randomly per request, so
// concurrent saves never collide.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating the directory if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	err := os.MkdirAll(dir, dirPermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio directory '%s': %w", dir, err)
	}

	return &FileStore{dir: dir}, nil
}

// Save writes data to <dir>/<id>.mp3 and returns the written path.
func (s *FileStore) Save(id string, data []byte) (string, error) {
	if id == "" {
		return "", ErrEmptyID
	}

	if strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidID, id)
	}

	if len(data) == 0 {
		return "", ErrEmptyData
	}

	path := filepath.Join(s.dir, id+audioFileExt)

	err := os.WriteFile(path, data, filePermissions)
	if err != nil {
		return "", fmt.Errorf("failed to write audio file '%s': %w", path, err)
	}

	return path, nil
}
