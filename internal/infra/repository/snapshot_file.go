package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gnbaba/TindaWise/internal/domain/model"
)

// 元アプリのlocalStorage相当。1ファイルにスナップショット全体をJSONで置く。
type SnapshotFileRepository struct {
	mu   sync.Mutex
	path string
}

func NewSnapshotFileRepository(path string) *SnapshotFileRepository {
	return &SnapshotFileRepository{path: path}
}

// Loadはファイルが無ければ空スナップショットを返す（初回起動）
func (r *SnapshotFileRepository) Load(ctx context.Context) (model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return model.Snapshot{Products: []model.Product{}, Sales: []model.Sale{}}, nil
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Saveは一時ファイルに書いてからrenameする。書きかけで壊さない。
func (r *SnapshotFileRepository) Save(ctx context.Context, snap model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
