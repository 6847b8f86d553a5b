package intents

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jmfarina/payments-backend/pkg/db/models"
	"github.com/jmfarina/payments-backend/pkg/enums"
)

const testSchema = `
CREATE TABLE payment_intents (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL,
	amount DECIMAL(18,2) NOT NULL,
	currency TEXT NOT NULL,
	description TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	confirmed_at DATETIME,
	expires_at DATETIME,
	captured_at DATETIME,
	reversed_at DATETIME,
	expired_at DATETIME
);`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(testSchema).Error)
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func testIntent(id string, status enums.IntentStatus, createdAt time.Time) *models.PaymentIntent {
	return &models.PaymentIntent{
		ID:        id,
		Status:    status,
		Amount:    decimal.RequireFromString("99.90"),
		Currency:  enums.CurrencyUSD,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestRepositoryInsertAndFindByID(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	createdAt := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	desc := "coffee beans"
	intent := testIntent("pi_round_trip", enums.IntentStatusCreated, createdAt)
	intent.Description = &desc
	require.NoError(t, repo.Insert(ctx, intent))

	found, err := repo.FindByID(ctx, "pi_round_trip")
	require.NoError(t, err)
	assert.Equal(t, intent.ID, found.ID)
	assert.Equal(t, enums.IntentStatusCreated, found.Status)
	assert.True(t, found.Amount.Equal(decimal.RequireFromString("99.90")),
		"expected amount 99.90, got %s", found.Amount)
	assert.Equal(t, enums.CurrencyUSD, found.Currency)
	require.NotNil(t, found.Description)
	assert.Equal(t, desc, *found.Description)
	assert.True(t, found.CreatedAt.Equal(createdAt))
	assert.Nil(t, found.ExpiresAt)
	assert.Positive(t, found.Seq, "seq should be assigned by the database")
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), "pi_nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListOrderingAndFilter(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, testIntent("pi_old", enums.IntentStatusCreated, base)))
	require.NoError(t, repo.Insert(ctx, testIntent("pi_new", enums.IntentStatusCaptured, base.Add(time.Hour))))
	// Same created_at as pi_old; seq breaks the tie in insertion order.
	require.NoError(t, repo.Insert(ctx, testIntent("pi_old_sibling", enums.IntentStatusCreated, base)))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "pi_new", all[0].ID)
	assert.Equal(t, "pi_old", all[1].ID)
	assert.Equal(t, "pi_old_sibling", all[2].ID)

	status := enums.IntentStatusCaptured
	captured, err := repo.List(ctx, &status)
	require.NoError(t, err)
	require.Len(t, captured, 1)
	assert.Equal(t, "pi_new", captured[0].ID)
}

func TestRepositoryFindExpirable(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	insertPending := func(id string, expiresAt time.Time) {
		intent := testIntent(id, enums.IntentStatusPendingConfirmation, now.Add(-time.Hour))
		confirmedAt := expiresAt.Add(-2 * time.Minute)
		intent.ConfirmedAt = &confirmedAt
		intent.ExpiresAt = &expiresAt
		require.NoError(t, repo.Insert(ctx, intent))
	}

	insertPending("pi_overdue", now.Add(-time.Minute))
	insertPending("pi_boundary", now)
	insertPending("pi_future", now.Add(time.Minute))
	require.NoError(t, repo.Insert(ctx, testIntent("pi_created", enums.IntentStatusCreated, now)))

	expirable, err := repo.FindExpirable(ctx, now)
	require.NoError(t, err)
	require.Len(t, expirable, 2)
	assert.Equal(t, "pi_overdue", expirable[0].ID)
	assert.Equal(t, "pi_boundary", expirable[1].ID)
}

func TestRepositoryUpdateIfStatus(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, testIntent("pi_cas", enums.IntentStatusCreated, now)))

	updates := map[string]any{
		"status":       enums.IntentStatusPendingConfirmation,
		"updated_at":   now.Add(time.Second),
		"confirmed_at": now.Add(time.Second),
		"expires_at":   now.Add(2 * time.Minute),
	}
	ok, err := repo.UpdateIfStatus(ctx, "pi_cas", enums.IntentStatusCreated, updates)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.FindByID(ctx, "pi_cas")
	require.NoError(t, err)
	assert.Equal(t, enums.IntentStatusPendingConfirmation, found.Status)
	require.NotNil(t, found.ExpiresAt)
	assert.True(t, found.ExpiresAt.Equal(now.Add(2*time.Minute)))

	// Stale expectation: no row matches, nothing written.
	ok, err = repo.UpdateIfStatus(ctx, "pi_cas", enums.IntentStatusCreated, map[string]any{
		"status":     enums.IntentStatusReversed,
		"updated_at": now.Add(time.Minute),
	})
	require.NoError(t, err)
	assert.False(t, ok)

	unchanged, err := repo.FindByID(ctx, "pi_cas")
	require.NoError(t, err)
	assert.Equal(t, enums.IntentStatusPendingConfirmation, unchanged.Status)
}

func TestRepositoryUpdateIfStatusClearsExpiry(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	intent := testIntent("pi_clear", enums.IntentStatusPendingConfirmation, now)
	expiresAt := now.Add(2 * time.Minute)
	intent.ExpiresAt = &expiresAt
	require.NoError(t, repo.Insert(ctx, intent))

	ok, err := repo.UpdateIfStatus(ctx, "pi_clear", enums.IntentStatusPendingConfirmation, map[string]any{
		"status":      enums.IntentStatusCaptured,
		"updated_at":  now.Add(time.Second),
		"captured_at": now.Add(time.Second),
		"expires_at":  nil,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.FindByID(ctx, "pi_clear")
	require.NoError(t, err)
	assert.Equal(t, enums.IntentStatusCaptured, found.Status)
	assert.Nil(t, found.ExpiresAt)
	require.NotNil(t, found.CapturedAt)
}
