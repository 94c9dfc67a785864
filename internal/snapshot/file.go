package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// Store persists market snapshots.
type Store interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, snap *model.Snapshot) error
}

// FileStore stores one snapshot in a local JSON file.
type FileStore struct {
	Path string
}

// Load reads, decodes and validates the snapshot file.
func (s *FileStore) Load(ctx context.Context) (*model.Snapshot, error) {
	if s == nil || s.Path == "" {
		return nil, fmt.Errorf("snapshot path is empty")
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Save writes the snapshot atomically via a temp file rename.
func (s *FileStore) Save(ctx context.Context, snap *model.Snapshot) error {
	if s == nil || s.Path == "" {
		return fmt.Errorf("snapshot path is empty")
	}
	dir := filepath.Dir(s.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot tmp: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
