package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solune/storefront/internal/domain"
)

func setupTestRedis(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewCartRepository(client, 24*time.Hour)
	return repo, mr
}

func sampleCart() *domain.Cart {
	return &domain.Cart{
		UserID: "user-001",
		Items: []domain.CartItem{
			{ProductID: "prod-1", Name: "Linen Shirt", Price: 49.99, Quantity: 2},
			{ProductID: "prod-2", Name: "Chinos", Price: 79.90, Quantity: 1},
		},
	}
}

func TestCartRepository_SaveAndGet(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleCart()))

	got, err := repo.Get(ctx, "user-001")
	require.NoError(t, err)
	assert.Equal(t, "user-001", got.UserID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "prod-1", got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, 49.99, got.Items[0].Price)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestCartRepository_GetMissingReturnsEmptyCart(t *testing.T) {
	repo, _ := setupTestRedis(t)

	got, err := repo.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", got.UserID)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestCartRepository_SaveSetsTTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, repo.Save(context.Background(), sampleCart()))

	ttl := mr.TTL("cart:user-001")
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestCartRepository_Delete(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleCart()))
	require.NoError(t, repo.Delete(ctx, "user-001"))

	assert.False(t, mr.Exists("cart:user-001"))

	got, err := repo.Get(ctx, "user-001")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestCartRepository_DeleteMissingIsNoop(t *testing.T) {
	repo, _ := setupTestRedis(t)
	assert.NoError(t, repo.Delete(context.Background(), "nobody"))
}

func TestCartRepository_GetCorruptPayload(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, mr.Set("cart:user-001", "{not json"))

	got, err := repo.Get(context.Background(), "user-001")
	assert.Nil(t, got)
	assert.Error(t, err)
}

func TestCartRepository_NilItemsNormalized(t *testing.T) {
	repo, mr := setupTestRedis(t)

	raw, err := json.Marshal(domain.Cart{UserID: "user-001"})
	require.NoError(t, err)
	require.NoError(t, mr.Set("cart:user-001", string(raw)))

	got, err := repo.Get(context.Background(), "user-001")
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}
