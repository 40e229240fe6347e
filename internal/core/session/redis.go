package session

import (
	"context"
	"encoding/json"
	"fmt"

	"cocktail-advisor/internal/core/match"
	"cocktail-advisor/internal/infrastructure/config"
	"cocktail-advisor/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// RedisCache redis 版結果快取
// 與記憶體版共用同一介面，多實例部署時可共享點選狀態
type RedisCache struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewRedisCache 創建 redis 快取
func NewRedisCache(cfg *config.CacheConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		config: cfg,
	}, nil
}

func (c *RedisCache) matchKey(userID int64) string {
	return fmt.Sprintf("session:matches:%d", userID)
}

func (c *RedisCache) nameKey(userID int64) string {
	return fmt.Sprintf("session:name:%d", userID)
}

// Matches 取得使用者最近的配對結果
func (c *RedisCache) Matches(ctx context.Context, userID int64) ([]match.Result, bool) {
	data, err := c.client.Get(ctx, c.matchKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("redis 快取讀取失敗")
		}
		common.LogCacheMiss("matches", userID)
		return nil, false
	}

	var results []match.Result
	if err := json.Unmarshal(data, &results); err != nil {
		common.LogCacheMiss("matches", userID)
		return nil, false
	}
	common.LogCacheHit("matches", userID)
	return results, true
}

// SetMatches 寫入使用者最近的配對結果
func (c *RedisCache) SetMatches(ctx context.Context, userID int64, results []match.Result) {
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.matchKey(userID), data, c.config.TTL).Err(); err != nil {
		common.LogWarn("redis 快取寫入失敗")
	}
}

// NameResults 取得使用者最近的名稱搜尋結果
func (c *RedisCache) NameResults(ctx context.Context, userID int64) ([]*common.Recipe, bool) {
	data, err := c.client.Get(ctx, c.nameKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("redis 快取讀取失敗")
		}
		common.LogCacheMiss("name_results", userID)
		return nil, false
	}

	var recipes []*common.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		common.LogCacheMiss("name_results", userID)
		return nil, false
	}
	common.LogCacheHit("name_results", userID)
	return recipes, true
}

// SetNameResults 寫入使用者最近的名稱搜尋結果
func (c *RedisCache) SetNameResults(ctx context.Context, userID int64, recipes []*common.Recipe) {
	data, err := json.Marshal(recipes)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.nameKey(userID), data, c.config.TTL).Err(); err != nil {
		common.LogWarn("redis 快取寫入失敗")
	}
}

// Stats 取得快取統計
func (c *RedisCache) Stats() map[string]interface{} {
	return map[string]interface{}{
		"backend": "redis",
		"addr":    c.config.RedisAddr,
	}
}

// Close 關閉 redis 連線
func (c *RedisCache) Close() error {
	return c.client.Close()
}
