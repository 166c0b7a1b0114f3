//go:build integration

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/mebel-api/initializers"
	"github.com/Kariqs/mebel-api/models"
	"github.com/Kariqs/mebel-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("mebel"),
		postgres.WithUsername("mebel"),
		postgres.WithPassword("mebel"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := initializers.ConnectToDB(initializers.DBConfig{Driver: "postgres", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, initializers.SyncDatabase(db))
	return db
}

func TestPostgresConcurrentOrdersNeverOversell(t *testing.T) {
	db := setupPostgres(t)
	orders := NewOrderService(db, nil)
	chair := seedProduct(t, db, "chair", "49.90", 5)

	const buyers = 20
	userIDs := make([]uint, buyers)
	for i := range userIDs {
		userIDs[i] = seedUser(t, db, fmt.Sprintf("buyer%d@x.io", i), models.RoleUser).ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, id := range userIDs {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := orders.PlaceOrder(context.Background(), userID, orderFor("Main st 1", models.OrderLine{ProductID: chair.ID, Quantity: 1}))
			var stockErr *utils.InsufficientStockError
			if err != nil && !errors.As(err, &stockErr) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Zero(t, stockOf(t, db, chair.ID))
	assert.EqualValues(t, 5, countRows(t, db, &models.Order{}))
	assert.EqualValues(t, 5, countRows(t, db, &models.OrderItem{}))
}

func TestPostgresFailedOrderRollsBack(t *testing.T) {
	db := setupPostgres(t)
	orders := NewOrderService(db, nil)
	alice := seedUser(t, db, "a@x.io", models.RoleUser)
	chair := seedProduct(t, db, "chair", "49.90", 5)
	table := seedProduct(t, db, "table", "120.00", 1)

	_, err := orders.PlaceOrder(ctx, alice.ID, orderFor("Main st 1",
		models.OrderLine{ProductID: chair.ID, Quantity: 3},
		models.OrderLine{ProductID: table.ID, Quantity: 2},
	))
	var stockErr *utils.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	assert.Equal(t, 5, stockOf(t, db, chair.ID))
	assert.Zero(t, countRows(t, db, &models.Order{}))
}
