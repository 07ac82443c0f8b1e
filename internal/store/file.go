package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FileStore keeps one JSON document per key under a directory. It is the
// serverless backend for installs that want cache files they can inspect
// and ship around.
type FileStore struct {
	dir string
}

// NewFile creates the directory if needed and returns the store.
func NewFile(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "file store: create dir")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, nil
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		zap.L().Warn("file store: corrupt entry treated as miss",
			zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	if e.Expired(time.Now().UTC()) {
		os.Remove(s.path(key))
		return nil, nil
	}
	return &e, nil
}

func (s *FileStore) Set(ctx context.Context, e Entry) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return eris.Wrap(err, "file store: marshal entry")
	}
	tmp := s.path(e.Key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrap(err, "file store: write entry")
	}
	if err := os.Rename(tmp, s.path(e.Key)); err != nil {
		return eris.Wrap(err, "file store: replace entry")
	}
	return nil
}

func (s *FileStore) DeleteExpired(ctx context.Context) (int, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return 0, eris.Wrap(err, "file store: list entries")
	}

	now := time.Now().UTC()
	removed := 0
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			zap.L().Warn("file store: skipping corrupt entry in sweep",
				zap.String("path", p), zap.Error(err))
			continue
		}
		if e.Expired(now) {
			if err := os.Remove(p); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func (s *FileStore) Clear(ctx context.Context) (int, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return 0, eris.Wrap(err, "file store: list entries")
	}
	removed := 0
	for _, p := range paths {
		if err := os.Remove(p); err == nil {
			removed++
		}
	}
	return removed, nil
}

func (s *FileStore) Migrate(ctx context.Context) error {
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
