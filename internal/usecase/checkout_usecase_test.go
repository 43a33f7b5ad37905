package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gnbaba/TindaWise/internal/store"
	"github.com/gnbaba/TindaWise/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckoutUsecase_Checkout_Success(t *testing.T) {
	ctx := context.Background()
	catalog, p := seedCatalog(t)
	ledger := store.NewLedger(nil, &seqIDGen{})
	snapshots := newSnapshotRepoMock()

	uc := usecase.NewCheckoutUsecase(catalog, ledger, snapshots, &fixedClock{t: testNow})

	sale, err := uc.Checkout(ctx, usecase.CheckoutInput{
		Lines: []usecase.CheckoutLine{{ProductID: p.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	// 台帳：1件追記、合計はスナップショット価格×数量
	assert.Equal(t, 50.0, sale.Total)
	assert.Equal(t, testNow, sale.Timestamp)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 10.0, sale.Items[0].UnitPriceSnapshot)
	assert.Equal(t, 1, ledger.Len())

	// 在庫：5個減って、累計販売数が5増える
	got, err := catalog.Find(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)
	assert.Equal(t, int64(5), got.SoldQuantity)
	assert.True(t, got.LowStock()) // 0 < 3

	snapshots.AssertCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_Checkout_InsufficientStockIsAtomic(t *testing.T) {
	ctx := context.Background()
	catalog, p := seedCatalog(t)
	ledger := store.NewLedger(nil, &seqIDGen{})
	snapshots := newSnapshotRepoMock()

	uc := usecase.NewCheckoutUsecase(catalog, ledger, snapshots, &fixedClock{t: testNow})

	_, err := uc.Checkout(ctx, usecase.CheckoutInput{
		Lines: []usecase.CheckoutLine{{ProductID: p.ID, Quantity: 6}},
	})
	assertHTTPStatus(t, err, http.StatusConflict)

	// 在庫も台帳も一切変わらない
	got, findErr := catalog.Find(p.ID)
	require.NoError(t, findErr)
	assert.Equal(t, int64(5), got.Quantity)
	assert.Equal(t, int64(0), got.SoldQuantity)
	assert.Equal(t, 0, ledger.Len())

	snapshots.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_Checkout_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	catalog, p := seedCatalog(t)
	ledger := store.NewLedger(nil, &seqIDGen{})

	uc := usecase.NewCheckoutUsecase(catalog, ledger, newSnapshotRepoMock(), &fixedClock{t: testNow})

	_, err := uc.Checkout(ctx, usecase.CheckoutInput{
		Lines: []usecase.CheckoutLine{
			{ProductID: p.ID, Quantity: 1},
			{ProductID: 999, Quantity: 1},
		},
	})
	assertHTTPStatus(t, err, http.StatusNotFound)

	got, findErr := catalog.Find(p.ID)
	require.NoError(t, findErr)
	assert.Equal(t, int64(5), got.Quantity)
	assert.Equal(t, 0, ledger.Len())
}

func TestCheckoutUsecase_Checkout_EmptyCart(t *testing.T) {
	catalog, _ := seedCatalog(t)
	ledger := store.NewLedger(nil, &seqIDGen{})

	uc := usecase.NewCheckoutUsecase(catalog, ledger, newSnapshotRepoMock(), &fixedClock{t: testNow})

	_, err := uc.Checkout(context.Background(), usecase.CheckoutInput{})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCheckoutUsecase_Checkout_TotalKeepsHistoricalPrice(t *testing.T) {
	ctx := context.Background()
	catalog, p := seedCatalog(t)
	ledger := store.NewLedger(nil, &seqIDGen{})

	uc := usecase.NewCheckoutUsecase(catalog, ledger, newSnapshotRepoMock(), &fixedClock{t: testNow})

	sale, err := uc.Checkout(ctx, usecase.CheckoutInput{
		Lines: []usecase.CheckoutLine{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	// 会計後に売価を変えても過去の売上は動かない
	newPrice := 99.0
	_, err = catalog.Update(p.ID, store.UpdatePatch{SellingPrice: &newPrice}, testNow)
	require.NoError(t, err)

	all := ledger.All()
	require.Len(t, all, 1)
	assert.Equal(t, sale.Total, all[0].Total)
	assert.Equal(t, 20.0, all[0].Total)
	assert.Equal(t, 10.0, all[0].Items[0].UnitPriceSnapshot)
}
