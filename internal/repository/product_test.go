package repository

import (
	"context"
	"testing"

	"github.com/laka02/quickcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProductRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	p := &domain.Product{Name: "Basmati Rice", Price: 120, Stock: 40, Category: "Grains"}
	require.NoError(t, repo.Add(ctx, p))
	require.NotEmpty(t, p.ID)
	require.False(t, p.CreatedAt.IsZero())

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Basmati Rice", got.Name)

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("Update preserves creation time", func(t *testing.T) {
		updated := &domain.Product{ID: p.ID, Name: "Basmati Rice 5kg", Price: 560, Stock: 12}
		require.NoError(t, repo.Update(ctx, updated))

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Basmati Rice 5kg", got.Name)
		assert.Equal(t, p.CreatedAt, got.CreatedAt)
	})

	t.Run("Update unknown product", func(t *testing.T) {
		err := repo.Update(ctx, &domain.Product{ID: "missing", Name: "X"})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, p.ID))

		_, err := repo.GetByID(ctx, p.ID)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)

		err = repo.Delete(ctx, p.ID)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestMemoryProductRepositoryAggregate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	t.Run("Empty store aggregates to zeros", func(t *testing.T) {
		summary, err := repo.AggregateInventory(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.InventorySummary{}, summary)
	})

	require.NoError(t, repo.Add(ctx, &domain.Product{Name: "A", Price: 10, Stock: 2, Category: "Grains"}))
	require.NoError(t, repo.Add(ctx, &domain.Product{Name: "B", Price: 20, Stock: 3, Category: ""}))

	summary, err := repo.AggregateInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalProducts)
	assert.Equal(t, 5, summary.TotalStock)
	assert.Equal(t, 15.0, summary.AveragePrice)
	assert.Equal(t, 80.0, summary.TotalValue)
	assert.Equal(t, 2, summary.CategoryCount)
}

func TestMemoryUserRepositoryEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &domain.User{Email: "shop@quickcart.example", Role: "admin"}
	require.NoError(t, repo.Add(ctx, user))
	require.NotEmpty(t, user.ID)

	dup := &domain.User{Email: "Shop@QuickCart.example"}
	err := repo.Add(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, "SHOP@quickcart.example")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@quickcart.example")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMemoryUserRepositoryUpdatePassword(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &domain.User{Email: "shop@quickcart.example", PasswordHash: []byte("old")}
	require.NoError(t, repo.Add(ctx, user))

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, []byte("new")))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got.PasswordHash)

	err = repo.UpdatePassword(ctx, "missing", []byte("new"))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
