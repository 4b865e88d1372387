package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one file per snapshot key under a state directory. This is
// the durable tier: it plays the part browser localStorage plays for the web
// client. With a non-empty secret every blob is sealed at rest, so a bearer
// token in the session snapshot never lands on disk in the clear.
type FileStore struct {
	dir    string
	secret string
}

// NewFileStore creates the state directory if needed.
func NewFileStore(dir, secret string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("snapshot dir required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{dir: dir, secret: secret}, nil
}

func (s *FileStore) path(key string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, key)
	return filepath.Join(s.dir, clean+".snap")
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if s.secret != "" {
		plain, err := open(s.secret, data)
		if err != nil {
			// unreadable at rest is a miss, not a failure
			return nil, false, nil
		}
		return plain, true, nil
	}
	return data, true, nil
}

func (s *FileStore) Set(_ context.Context, key string, data []byte) error {
	if s.secret != "" {
		sealed, err := seal(s.secret, data)
		if err != nil {
			return err
		}
		data = sealed
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
