package store

import (
	"sync"
	"time"

	"github.com/gnbaba/TindaWise/internal/domain/model"
)

// UUID等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// Ledgerは確定済み売上の追記専用リスト。
// 過去のエントリは変更も削除もしない。
type Ledger struct {
	mu    sync.Mutex
	sales []model.Sale
	idGen IDGenerator
}

// NewLedgerはスナップショットから復元する。空でよい。
func NewLedger(sales []model.Sale, idGen IDGenerator) *Ledger {
	l := &Ledger{
		sales: make([]model.Sale, 0, len(sales)),
		idGen: idGen,
	}
	for _, s := range sales {
		s.Items = append([]model.SaleItem(nil), s.Items...)
		l.sales = append(l.sales, s)
	}
	return l
}

// Recordは新しいIDとタイムスタンプで売上を1件追記する。
// 失敗するのは入力不正（空の明細・負の合計）のときだけ。
func (l *Ledger) Record(items []model.SaleItem, total float64, now time.Time) (model.Sale, error) {
	if len(items) == 0 {
		return model.Sale{}, NewValidationError("items", "must not be empty")
	}
	if total < 0 {
		return model.Sale{}, NewValidationError("total", "must be >= 0")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s := model.Sale{
		ID:        l.idGen.NewID(),
		Timestamp: now,
		Items:     append([]model.SaleItem(nil), items...),
		Total:     total,
	}
	l.sales = append(l.sales, s)

	return s, nil
}

// Allは古い順の全件コピーを返す。呼び出し側から変更されない。
func (l *Ledger) All() []model.Sale {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.Sale, 0, len(l.sales))
	for _, s := range l.sales {
		s.Items = append([]model.SaleItem(nil), s.Items...)
		out = append(out, s)
	}
	return out
}

// Lenは現在の件数
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sales)
}
