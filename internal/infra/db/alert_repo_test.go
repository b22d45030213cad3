package db

import (
	"context"
	"testing"
	"time"

	"github.com/pipone-one/p2pminiapp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: newGormLogger(zap.NewNop())})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func sampleAlert(id, owner string) domain.Alert {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.Alert{
		ID:          id,
		OwnerID:     owner,
		Exchange:    domain.ExchangeBinance,
		Side:        domain.SideBuy,
		Asset:       "USDT",
		Fiat:        "UAH",
		TargetPrice: decimal.RequireFromString("41.25"),
		Active:      true,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestAlertRepositoryRoundTrip(t *testing.T) {
	repo := NewAlertRepository(openTestDB(t))
	ctx := context.Background()

	empty, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	minAmount := decimal.NewFromInt(5000)
	triggered := sampleAlert("b", "200")
	triggered.Side = domain.SideSell
	triggered.MinAmount = &minAmount
	triggered.PaymentMethod = "Monobank"
	triggered.Trigger(time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC), decimal.RequireFromString("42.1"))

	require.NoError(t, repo.SaveAll(ctx, []domain.Alert{sampleAlert("z", "100"), triggered}))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "z", loaded[0].ID)
	assert.True(t, loaded[0].Active)
	assert.Nil(t, loaded[0].MinAmount)
	assert.Nil(t, loaded[0].MatchedPrice)

	got := loaded[1]
	assert.Equal(t, "b", got.ID)
	assert.Equal(t, domain.SideSell, got.Side)
	assert.False(t, got.Active)
	assert.Equal(t, "Monobank", got.PaymentMethod)
	require.NotNil(t, got.MinAmount)
	assert.True(t, minAmount.Equal(*got.MinAmount))
	require.NotNil(t, got.MatchedPrice)
	assert.True(t, decimal.RequireFromString("42.1").Equal(*got.MatchedPrice))
	require.NotNil(t, got.LastTriggeredAt)
	assert.True(t, got.LastTriggeredAt.Equal(time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC)))
}

func TestAlertRepositorySaveAllReplaces(t *testing.T) {
	repo := NewAlertRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, []domain.Alert{sampleAlert("a", "1"), sampleAlert("b", "1")}))
	require.NoError(t, repo.SaveAll(ctx, []domain.Alert{sampleAlert("c", "2")}))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "c", loaded[0].ID)

	require.NoError(t, repo.SaveAll(ctx, nil))
	loaded, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestAlertRepositorySaveAllIsAtomic(t *testing.T) {
	repo := NewAlertRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, []domain.Alert{sampleAlert("a", "1")}))

	// duplicate primary key fails the insert and must roll back the delete
	err := repo.SaveAll(ctx, []domain.Alert{sampleAlert("x", "1"), sampleAlert("x", "1")})
	require.Error(t, err)

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "a", loaded[0].ID)
}
