package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gnbaba/TindaWise/internal/domain/model"
	"github.com/gnbaba/TindaWise/internal/store"
	"github.com/gnbaba/TindaWise/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// 共有のfake/mock
// =====================

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type SnapshotRepoMock struct{ mock.Mock }

func (m *SnapshotRepoMock) Load(ctx context.Context) (model.Snapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(model.Snapshot)
	return snap, args.Error(1)
}

func (m *SnapshotRepoMock) Save(ctx context.Context, snap model.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func newSnapshotRepoMock() *SnapshotRepoMock {
	m := new(SnapshotRepoMock)
	m.On("Save", mock.Anything, mock.Anything).Return(nil)
	return m
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type fakeIssuer struct{}

func (i *fakeIssuer) Issue(userID string, email string, now time.Time) (string, time.Time, error) {
	return "token-" + userID, now.Add(time.Hour), nil
}

var testNow = time.Date(2026, 9, 1, 14, 30, 0, 0, time.Local)

// カタログに商品Aを1つ入れた状態を作る
// A: quantity=5, threshold=3, sellingPrice=10, buyingPrice=6
func seedCatalog(t *testing.T) (*store.Catalog, model.Product) {
	t.Helper()

	threshold := int64(3)
	catalog := store.NewCatalog(nil)
	p, err := catalog.Add(store.AddInput{
		Name:         "Instant Noodles",
		Category:     model.CategorySnacks,
		BuyingPrice:  6,
		SellingPrice: 10,
		Quantity:     5,
		Threshold:    &threshold,
	}, testNow)
	require.NoError(t, err)
	return catalog, p
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
}
