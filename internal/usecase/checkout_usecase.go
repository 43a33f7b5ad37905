package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/gnbaba/TindaWise/internal/domain/model"
	"github.com/gnbaba/TindaWise/internal/repository"
	"github.com/gnbaba/TindaWise/internal/store"

	"github.com/gnbaba/TindaWise/pkg/logger"
)

// 会計が必要とするのは在庫遷移の能力だけ。カタログ全体には依存しない。
type StockMutator interface {
	ApplySale(lines []store.SaleLine, now time.Time) ([]model.SaleItem, error)
}

// 台帳への追記だけを約束
type SaleRecorder interface {
	Record(items []model.SaleItem, total float64, now time.Time) (model.Sale, error)
}

// CheckoutUsecaseはカートを「在庫減算＋台帳1行」に変換する。
// ここがシステム唯一のトランザクション境界。
type CheckoutUsecase struct {
	stock     StockMutator
	sales     SaleRecorder
	persister *snapshotPersister
	clock     Clock
}

// DI
func NewCheckoutUsecase(
	catalog *store.Catalog,
	ledger *store.Ledger,
	snapshots repository.SnapshotRepository,
	clock Clock,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		stock:     catalog,
		sales:     ledger,
		persister: &snapshotPersister{catalog: catalog, ledger: ledger, snapshots: snapshots},
		clock:     clock,
	}
}

type CheckoutLine struct {
	ProductID int64
	Quantity  int64
}

type CheckoutInput struct {
	Lines []CheckoutLine
}

// Checkoutは全行検証→適用→記帳の順で進める。
// どの行かが失敗したら在庫も台帳も一切変わらない。
func (u *CheckoutUsecase) Checkout(ctx context.Context, in CheckoutInput) (model.Sale, error) {
	if len(in.Lines) == 0 {
		return model.Sale{}, NewHTTPError(http.StatusBadRequest, "cart must not be empty")
	}

	lines := make([]store.SaleLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, store.SaleLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	now := u.clock.Now()

	// 在庫チェックと減算は1つのクリティカルセクションで行われる。
	// 返る明細は減算前の売価スナップショット。
	items, err := u.stock.ApplySale(lines, now)
	if err != nil {
		return model.Sale{}, mapStoreError(err)
	}

	var total float64
	for _, it := range items {
		total += it.UnitPriceSnapshot * float64(it.Quantity)
	}

	// 在庫減算が起きた場合、台帳エントリは必ず作られる。
	// ここで失敗しうるのは入力不正だけで、itemsは非空・totalは非負なので起きない。
	sale, err := u.sales.Record(items, total, now)
	if err != nil {
		return model.Sale{}, mapStoreError(err)
	}

	u.persister.persist(ctx)
	logger.Info().Str("sale_id", sale.ID).Float64("total", sale.Total).Int("items", len(sale.Items)).Msg("checkout completed")

	return sale, nil
}
