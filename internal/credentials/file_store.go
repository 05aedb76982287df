package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps the pair in a JSON file readable only by the current user.
type FileStore struct {
	filePath string
	mu       sync.Mutex
}

type fileCredentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	SavedAt      time.Time `json:"saved_at"`
}

// NewFileStore creates a file-backed store at path. The file is created on first Save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: empty path")
	}
	return &FileStore{filePath: path}, nil
}

// Load reads the pair from disk. A missing file means no credentials.
func (f *FileStore) Load(_ context.Context) (Pair, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return Pair{}, false, nil
	}
	if err != nil {
		return Pair{}, false, fmt.Errorf("load credentials: read file: %w", err)
	}

	var payload fileCredentials
	if err := json.Unmarshal(data, &payload); err != nil {
		return Pair{}, false, fmt.Errorf("load credentials: decode json: %w", err)
	}
	if payload.AccessToken == "" && payload.RefreshToken == "" {
		return Pair{}, false, nil
	}

	return Pair{AccessToken: payload.AccessToken, RefreshToken: payload.RefreshToken}, true, nil
}

// Save writes both tokens through a temp file and rename, so readers never see half a pair.
func (f *FileStore) Save(_ context.Context, accessToken, refreshToken string) error {
	if err := validatePair(accessToken, refreshToken); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("save credentials: create dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(fileCredentials{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SavedAt:      time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("save credentials: encode json: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.json")
	if err != nil {
		return fmt.Errorf("save credentials: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save credentials: write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("save credentials: chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save credentials: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.filePath); err != nil {
		return fmt.Errorf("save credentials: rename to %s: %w", f.filePath, err)
	}
	return nil
}

// Clear removes the credentials file. Clearing an absent file is not an error.
func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Name returns the store name including the file path
func (f *FileStore) Name() string {
	return fmt.Sprintf("FileStore(%s)", f.filePath)
}
