package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gnbaba/TindaWise/internal/domain/model"
	"github.com/gnbaba/TindaWise/internal/repository"
	"github.com/gnbaba/TindaWise/internal/store"

	"github.com/gnbaba/TindaWise/pkg/logger"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// storeのエラーをHTTPエラーへ変換する
func mapStoreError(err error) error {
	var ve *store.ValidationError
	var ise *store.InsufficientStockError

	switch {
	case errors.Is(err, store.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not found")
	case errors.As(err, &ve):
		return NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.As(err, &ise):
		return NewHTTPError(http.StatusConflict, ise.Error())
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}

// 変更のたびにスナップショット全体を保存する。
// 保存失敗はログに残すだけで操作自体は成功扱い（耐久性は保証外）。
type snapshotPersister struct {
	catalog   *store.Catalog
	ledger    *store.Ledger
	snapshots repository.SnapshotRepository
}

func (p *snapshotPersister) persist(ctx context.Context) {
	snap := model.Snapshot{
		Products: p.catalog.List(),
		Sales:    p.ledger.All(),
	}
	if err := p.snapshots.Save(ctx, snap); err != nil {
		logger.Error().Err(err).Msg("snapshot save failed")
	}
}

// CatalogUsecaseは在庫管理画面の操作をまとめる。
type CatalogUsecase struct {
	catalog   *store.Catalog
	persister *snapshotPersister
	clock     Clock
}

// DI
func NewCatalogUsecase(
	catalog *store.Catalog,
	ledger *store.Ledger,
	snapshots repository.SnapshotRepository,
	clock Clock,
) *CatalogUsecase {
	return &CatalogUsecase{
		catalog:   catalog,
		persister: &snapshotPersister{catalog: catalog, ledger: ledger, snapshots: snapshots},
		clock:     clock,
	}
}

type AddProductInput struct {
	Name         string
	Category     string
	BuyingPrice  float64
	SellingPrice float64
	Quantity     int64
	Threshold    *int64
}

func (u *CatalogUsecase) AddProduct(ctx context.Context, in AddProductInput) (model.Product, error) {
	p, err := u.catalog.Add(store.AddInput{
		Name:         strings.TrimSpace(in.Name),
		Category:     model.Category(in.Category),
		BuyingPrice:  in.BuyingPrice,
		SellingPrice: in.SellingPrice,
		Quantity:     in.Quantity,
		Threshold:    in.Threshold,
	}, u.clock.Now())
	if err != nil {
		return model.Product{}, mapStoreError(err)
	}

	u.persister.persist(ctx)
	logger.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("product added")

	return p, nil
}

type UpdateProductInput struct {
	Name         *string
	Category     *string
	BuyingPrice  *float64
	SellingPrice *float64
	Quantity     *int64
	Threshold    *int64
}

func (u *CatalogUsecase) UpdateProduct(ctx context.Context, productID int64, in UpdateProductInput) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	patch := store.UpdatePatch{
		Name:         in.Name,
		BuyingPrice:  in.BuyingPrice,
		SellingPrice: in.SellingPrice,
		Quantity:     in.Quantity,
		Threshold:    in.Threshold,
	}
	if in.Category != nil {
		cat := model.Category(*in.Category)
		patch.Category = &cat
	}

	p, err := u.catalog.Update(productID, patch, u.clock.Now())
	if err != nil {
		return model.Product{}, mapStoreError(err)
	}

	u.persister.persist(ctx)

	return p, nil
}

// まとめて削除。存在しないIDは無視する（冪等）。
func (u *CatalogUsecase) DeleteProducts(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "ids required")
	}

	removed := u.catalog.Delete(ids)
	u.persister.persist(ctx)
	logger.Info().Int("removed", removed).Msg("products deleted")

	return removed, nil
}

type RestockInput struct {
	Qty          int64
	BuyingPrice  float64
	SellingPrice float64
}

func (u *CatalogUsecase) Restock(ctx context.Context, productID int64, in RestockInput) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.catalog.Restock(productID, in.Qty, in.BuyingPrice, in.SellingPrice, u.clock.Now())
	if err != nil {
		return model.Product{}, mapStoreError(err)
	}

	u.persister.persist(ctx)
	logger.Info().Int64("product_id", p.ID).Int64("qty", in.Qty).Msg("product restocked")

	return p, nil
}

// カテゴリで絞った一覧。categoryが空なら全件。
func (u *CatalogUsecase) ListProducts(ctx context.Context, category string) ([]model.Product, error) {
	if category == "" {
		return u.catalog.List(), nil
	}
	if !model.Category(category).Valid() {
		return nil, NewHTTPError(http.StatusBadRequest, "unknown category")
	}

	all := u.catalog.List()
	out := make([]model.Product, 0, len(all))
	for _, p := range all {
		if p.Category == model.Category(category) {
			out = append(out, p)
		}
	}
	return out, nil
}

// 入荷履歴（商品単位）
func (u *CatalogUsecase) GetRestockHistory(ctx context.Context, productID int64) ([]model.RestockEvent, error) {
	if productID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.catalog.Find(productID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return p.History, nil
}
