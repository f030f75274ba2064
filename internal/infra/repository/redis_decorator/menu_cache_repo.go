package redis_decorator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const menuItemsKey = "restaurant:menu:items"

/*
cache aside: 只快取完整菜單清單
新增品項後刪除 key, 價格查詢(下單)一律走 db
redis 出錯時退回 db, 不影響請求
*/
type CacheAsideMenuRepo struct {
	db.IMenuRepository
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheAsideMenuRepo(repo db.IMenuRepository, redis *redis.Client, ttl time.Duration) db.IMenuRepository {
	return &CacheAsideMenuRepo{IMenuRepository: repo, redis: redis, ttl: ttl}
}

func (m *CacheAsideMenuRepo) CreateMenuItem(ctx context.Context, item *model.MenuItem) error {
	err := m.IMenuRepository.CreateMenuItem(ctx, item)
	if err != nil {
		return err
	}
	if err := m.redis.Del(ctx, menuItemsKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate menu cache")
	}
	return nil
}

func (m *CacheAsideMenuRepo) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	cached, err := m.redis.Get(ctx, menuItemsKey).Bytes()
	if err == nil {
		var items []model.MenuItem
		decodeErr := json.Unmarshal(cached, &items)
		if decodeErr == nil {
			return items, nil
		}
		log.Warn().Err(decodeErr).Msg("corrupted menu cache, reload from db")
	} else if err != redis.Nil {
		log.Warn().Err(err).Msg("menu cache unavailable")
	}

	items, err := m.IMenuRepository.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(items)
	if err != nil {
		return items, nil
	}
	if err := m.redis.Set(ctx, menuItemsKey, data, m.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to fill menu cache")
	}
	return items, nil
}
