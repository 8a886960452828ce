package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"pdfquiz/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := "pdfquiz:session:snapshot:01HZX3J9Q6W8R2T4Y6V8K0P2A4"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectGet(key).SetVal(`{"id":"x"}`)
		val, err := cache.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, `{"id":"x"}`, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CacheMiss", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(redis.Nil)
		val, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection refused")
		mock.ExpectGet(key).SetErr(redisErr)
		val, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectSet("k", "v", 24*time.Hour).SetVal("OK")
	assert.NoError(t, cache.Set(ctx, "k", "v", 24*time.Hour))

	redisErr := errors.New("read only replica")
	mock.ExpectSet("k", "v", time.Hour).SetErr(redisErr)
	assert.ErrorIs(t, cache.Set(ctx, "k", "v", time.Hour), redisErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectDel("k").SetVal(0)
	assert.NoError(t, cache.Delete(ctx, "k"))

	mock.ExpectDel("k").SetErr(errors.New("boom"))
	assert.Error(t, cache.Delete(ctx, "k"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, cache.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
