package repository

import (
	"context"
	"errors"

	"github.com/gnbaba/TindaWise/internal/domain/model"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// ユーザーの永続化（保存・取得）だけを約束。
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u model.User) error
}
