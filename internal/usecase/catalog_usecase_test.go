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

func newCatalogUsecase(t *testing.T) (*usecase.CatalogUsecase, *store.Catalog, *SnapshotRepoMock) {
	t.Helper()

	catalog := store.NewCatalog(nil)
	ledger := store.NewLedger(nil, &seqIDGen{})
	snapshots := newSnapshotRepoMock()
	uc := usecase.NewCatalogUsecase(catalog, ledger, snapshots, &fixedClock{t: testNow})
	return uc, catalog, snapshots
}

func TestCatalogUsecase_AddProduct_PersistsSnapshot(t *testing.T) {
	uc, _, snapshots := newCatalogUsecase(t)

	p, err := uc.AddProduct(context.Background(), usecase.AddProductInput{
		Name:         "  Instant Noodles  ",
		Category:     "Snacks",
		BuyingPrice:  6,
		SellingPrice: 10,
		Quantity:     5,
	})
	require.NoError(t, err)

	assert.Equal(t, "Instant Noodles", p.Name) // 前後の空白は落とす
	assert.Equal(t, int64(10), p.Threshold)
	snapshots.AssertNumberOfCalls(t, "Save", 1)
}

func TestCatalogUsecase_AddProduct_ValidationMapsTo400(t *testing.T) {
	uc, _, snapshots := newCatalogUsecase(t)

	_, err := uc.AddProduct(context.Background(), usecase.AddProductInput{
		Name:        "X",
		Category:    "Electronics",
		BuyingPrice: 1,
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	snapshots.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCatalogUsecase_Restock_NotFoundMapsTo404(t *testing.T) {
	uc, _, _ := newCatalogUsecase(t)

	_, err := uc.Restock(context.Background(), 42, usecase.RestockInput{Qty: 1, BuyingPrice: 6, SellingPrice: 10})
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestCatalogUsecase_Restock_Success(t *testing.T) {
	uc, _, snapshots := newCatalogUsecase(t)

	p, err := uc.AddProduct(context.Background(), usecase.AddProductInput{
		Name: "Noodles", Category: "Snacks", BuyingPrice: 6, SellingPrice: 10, Quantity: 5,
	})
	require.NoError(t, err)

	got, err := uc.Restock(context.Background(), p.ID, usecase.RestockInput{Qty: 7, BuyingPrice: 6.5, SellingPrice: 11})
	require.NoError(t, err)

	assert.Equal(t, int64(12), got.Quantity)
	assert.Len(t, got.History, 1)
	snapshots.AssertNumberOfCalls(t, "Save", 2)
}

func TestCatalogUsecase_DeleteProducts_Idempotent(t *testing.T) {
	uc, catalog, _ := newCatalogUsecase(t)

	p, err := uc.AddProduct(context.Background(), usecase.AddProductInput{
		Name: "Noodles", Category: "Snacks", BuyingPrice: 6, SellingPrice: 10,
	})
	require.NoError(t, err)

	removed, err := uc.DeleteProducts(context.Background(), []int64{p.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = uc.DeleteProducts(context.Background(), []int64{p.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	assert.Empty(t, catalog.List())
}

func TestCatalogUsecase_DeleteProducts_EmptyIDs(t *testing.T) {
	uc, _, _ := newCatalogUsecase(t)

	_, err := uc.DeleteProducts(context.Background(), nil)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCatalogUsecase_ListProducts_FilterByCategory(t *testing.T) {
	uc, _, _ := newCatalogUsecase(t)

	_, err := uc.AddProduct(context.Background(), usecase.AddProductInput{Name: "Noodles", Category: "Snacks", BuyingPrice: 6, SellingPrice: 10})
	require.NoError(t, err)
	_, err = uc.AddProduct(context.Background(), usecase.AddProductInput{Name: "Rice", Category: "Rice", BuyingPrice: 250, SellingPrice: 300})
	require.NoError(t, err)

	all, err := uc.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	snacks, err := uc.ListProducts(context.Background(), "Snacks")
	require.NoError(t, err)
	require.Len(t, snacks, 1)
	assert.Equal(t, "Noodles", snacks[0].Name)

	_, err = uc.ListProducts(context.Background(), "Electronics")
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCatalogUsecase_GetRestockHistory(t *testing.T) {
	uc, _, _ := newCatalogUsecase(t)

	p, err := uc.AddProduct(context.Background(), usecase.AddProductInput{Name: "Noodles", Category: "Snacks", BuyingPrice: 6, SellingPrice: 10})
	require.NoError(t, err)

	_, err = uc.Restock(context.Background(), p.ID, usecase.RestockInput{Qty: 0, BuyingPrice: 6, SellingPrice: 10})
	require.NoError(t, err)

	events, err := uc.GetRestockHistory(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, events, 1) // qty=0でも履歴は残る
	assert.Equal(t, int64(0), events[0].Qty)

	_, err = uc.GetRestockHistory(context.Background(), 999)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestCatalogUsecase_UpdateProduct_Merges(t *testing.T) {
	uc, _, _ := newCatalogUsecase(t)

	p, err := uc.AddProduct(context.Background(), usecase.AddProductInput{Name: "Noodles", Category: "Snacks", BuyingPrice: 6, SellingPrice: 10, Quantity: 5})
	require.NoError(t, err)

	newName := "Noodles XL"
	got, err := uc.UpdateProduct(context.Background(), p.ID, usecase.UpdateProductInput{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Noodles XL", got.Name)
	assert.Equal(t, p.Quantity, got.Quantity)

	_, err = uc.UpdateProduct(context.Background(), 999, usecase.UpdateProductInput{Name: &newName})
	assertHTTPStatus(t, err, http.StatusNotFound)
}
