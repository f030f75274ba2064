package redis_decorator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/redisx"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db/dbtest"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// 攔截指令, GET 回傳固定內容, 其他指令直接成功
type stubCacheHook struct {
	cached string
}

func (h stubCacheHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h stubCacheHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if c, ok := cmd.(*redis.StringCmd); ok && cmd.Name() == "get" {
			c.SetVal(h.cached)
		}
		return nil
	}
}

func (h stubCacheHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newStubbedClient(t *testing.T, cached string) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	client.AddHook(stubCacheHook{cached: cached})
	t.Cleanup(func() { client.Close() })
	return client
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

// redis 無法連線時, 讀寫都應退回 db
func TestCacheAsideMenuRepoFallsBackWithoutRedis(t *testing.T) {
	ctx := context.Background()
	dao := dbtest.NewDao(t)
	client := redisx.GetRedisClient("127.0.0.1:1",
		redisx.WithDialTimeout(50*time.Millisecond),
		redisx.WithMaxRetries(-1),
	)
	repo := NewCacheAsideMenuRepo(db.NewMenuRepo(dao), client, time.Minute)

	item := &model.MenuItem{Name: "Tea", Price: decimal.RequireFromString("20")}
	require.NoError(t, repo.CreateMenuItem(ctx, item))
	require.NotZero(t, item.ID)

	items, err := repo.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Tea", items[0].Name)

	// 未覆寫的方法直接走 db
	byIDs, err := repo.GetMenuItemsByIDs(ctx, []uint{item.ID})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
}

func TestGetRedisClientReusesInstance(t *testing.T) {
	a := redisx.GetRedisClient("127.0.0.1:2")
	b := redisx.GetRedisClient("127.0.0.1:2")
	require.Same(t, a, b)
}

func TestCacheAsideMenuRepoServesCachedList(t *testing.T) {
	ctx := context.Background()
	dao := dbtest.NewDao(t)
	client := newStubbedClient(t, `[{"id":3,"name":"Coffee","price":"45"}]`)
	repo := NewCacheAsideMenuRepo(db.NewMenuRepo(dao), client, time.Minute)

	items, err := repo.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Coffee", items[0].Name)
	require.True(t, decimal.NewFromInt(45).Equal(items[0].Price))
}

// 快取內容損毀時退回 db, 並記錄解析錯誤
func TestCacheAsideMenuRepoCorruptedCache(t *testing.T) {
	ctx := context.Background()
	dao := dbtest.NewDao(t)
	require.NoError(t, db.NewMenuRepo(dao).CreateMenuItem(ctx, &model.MenuItem{Name: "Tea", Price: decimal.RequireFromString("20")}))

	buf := captureLog(t)
	client := newStubbedClient(t, "not-json")
	repo := NewCacheAsideMenuRepo(db.NewMenuRepo(dao), client, time.Minute)

	items, err := repo.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Tea", items[0].Name)

	require.Contains(t, buf.String(), "corrupted menu cache")
	require.Contains(t, buf.String(), `"error":"invalid character`)
}
