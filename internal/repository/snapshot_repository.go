package repository

import (
	"context"

	"github.com/gnbaba/TindaWise/internal/domain/model"
)

// 永続化境界。coreは保存先がDBかファイルかを知らない。
// Loadは初回起動で空のスナップショットを返してよい。
type SnapshotRepository interface {
	Load(ctx context.Context) (model.Snapshot, error)
	Save(ctx context.Context, snap model.Snapshot) error
}
