package repository

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const snapshotFileExt = ".json"

// FileSnapshotStore stores one file per key in a directory.
type FileSnapshotStore struct {
	dir string
}

func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

// DefaultSnapshotDir returns ~/.config/timemanager.
func DefaultSnapshotDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "timemanager"), nil
}

func (s *FileSnapshotStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+snapshotFileExt)
}

func (s *FileSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("get %q: %w", key, ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("read snapshot %q: %w", key, err)
	}
	return payload, nil
}

// Put writes to a temp file in the same directory and renames it over the
// previous snapshot, so readers never see a partial write.
func (s *FileSnapshotStore) Put(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write snapshot %q: %w", key, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync snapshot %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close snapshot %q: %w", key, err)
	}
	if err := os.Chmod(tmp, 0600); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("chmod snapshot %q: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace snapshot %q: %w", key, err)
	}
	return nil
}

// UpdatedAt returns the modification time of the key's file.
func (s *FileSnapshotStore) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	info, err := os.Stat(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, fmt.Errorf("get %q: %w", key, ErrSnapshotNotFound)
		}
		return time.Time{}, fmt.Errorf("stat snapshot %q: %w", key, err)
	}
	return info.ModTime(), nil
}

func (s *FileSnapshotStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot %q: %w", key, err)
	}
	return nil
}
