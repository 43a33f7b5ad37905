package store

import (
	"errors"
	"fmt"
)

// 参照されたIDが存在しない
var ErrNotFound = errors.New("not found")

// 入力不正（負の数量・不明カテゴリ・空カートなど）
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// 在庫不足。どの商品が何個足りないかを持つ。
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (id=%d): requested %d, available %d",
		e.Name, e.ProductID, e.Requested, e.Available)
}

// 不足個数
func (e *InsufficientStockError) Shortfall() int64 {
	return e.Requested - e.Available
}
