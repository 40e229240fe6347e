package session

import (
	"context"
	"sync"
	"time"

	"cocktail-advisor/internal/core/match"
	"cocktail-advisor/internal/infrastructure/config"
	"cocktail-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

// Cache 使用者搜尋結果快取
// 保存最近一次配對與名稱搜尋結果，僅供點選時回查，非持久資料
type Cache interface {
	Matches(ctx context.Context, userID int64) ([]match.Result, bool)
	SetMatches(ctx context.Context, userID int64, results []match.Result)
	NameResults(ctx context.Context, userID int64) ([]*common.Recipe, bool)
	SetNameResults(ctx context.Context, userID int64, recipes []*common.Recipe)
	Stats() map[string]interface{}
	Close() error
}

// entry 單一使用者的快取條目
type entry struct {
	matches     []match.Result
	nameResults []*common.Recipe
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 快取統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// Manager 記憶體版快取管理器
// 有界：超過容量先清過期，再做 LRU 淘汰，避免無上限成長
type Manager struct {
	config *config.CacheConfig
	mu     sync.Mutex
	store  map[int64]*entry
	stats  cacheStats
	done   chan struct{}
}

// NewManager 創建快取管理器，快取停用時回傳 nil
func NewManager(cfg *config.CacheConfig) *Manager {
	if !cfg.Enabled {
		common.LogInfo("結果快取已停用")
		return nil
	}

	m := &Manager{
		config: cfg,
		store:  make(map[int64]*entry),
		done:   make(chan struct{}),
	}

	// 啟動清理過期條目的協程
	go m.startCleanup()

	common.LogInfo("結果快取已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return m
}

// Matches 取得使用者最近的配對結果
func (m *Manager) Matches(ctx context.Context, userID int64) ([]match.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.getLocked(userID)
	if e == nil || e.matches == nil {
		m.stats.misses++
		common.LogCacheMiss("matches", userID)
		return nil, false
	}
	m.stats.hits++
	common.LogCacheHit("matches", userID)
	return e.matches, true
}

// SetMatches 寫入使用者最近的配對結果
func (m *Manager) SetMatches(ctx context.Context, userID int64, results []match.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.ensureLocked(userID)
	e.matches = results
}

// NameResults 取得使用者最近的名稱搜尋結果
func (m *Manager) NameResults(ctx context.Context, userID int64) ([]*common.Recipe, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.getLocked(userID)
	if e == nil || e.nameResults == nil {
		m.stats.misses++
		common.LogCacheMiss("name_results", userID)
		return nil, false
	}
	m.stats.hits++
	common.LogCacheHit("name_results", userID)
	return e.nameResults, true
}

// SetNameResults 寫入使用者最近的名稱搜尋結果
func (m *Manager) SetNameResults(ctx context.Context, userID int64, recipes []*common.Recipe) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.ensureLocked(userID)
	e.nameResults = recipes
}

// getLocked 取得未過期的條目並更新存取統計，呼叫端須持有鎖
func (m *Manager) getLocked(userID int64) *entry {
	e, ok := m.store[userID]
	if !ok {
		return nil
	}
	if time.Now().After(e.expiresAt) {
		delete(m.store, userID)
		m.stats.evictions++
		return nil
	}
	e.lastAccess = time.Now()
	e.accessCount++
	return e
}

// ensureLocked 取得或建立條目並刷新有效期，必要時先騰出空間
func (m *Manager) ensureLocked(userID int64) *entry {
	e, ok := m.store[userID]
	if !ok {
		if len(m.store) >= m.config.MaxSize {
			m.cleanupLocked()
			if len(m.store) >= m.config.MaxSize {
				m.evictLRULocked()
			}
		}
		e = &entry{}
		m.store[userID] = e
	}
	nowTime := time.Now()
	e.expiresAt = nowTime.Add(m.config.TTL)
	e.lastAccess = nowTime
	return e
}

// startCleanup 定期清理過期條目
func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			m.cleanupLocked()
			m.mu.Unlock()
		}
	}
}

// cleanupLocked 清理過期條目，呼叫端須持有鎖
func (m *Manager) cleanupLocked() {
	nowTime := time.Now()
	for userID, e := range m.store {
		if nowTime.After(e.expiresAt) {
			delete(m.store, userID)
			m.stats.evictions++
		}
	}
}

// evictLRULocked 淘汰最少使用的條目，呼叫端須持有鎖
func (m *Manager) evictLRULocked() {
	var oldestKey int64
	var oldestAccess time.Time
	var lowestAccessCount int
	found := false

	for userID, e := range m.store {
		if !found ||
			e.accessCount < lowestAccessCount ||
			(e.accessCount == lowestAccessCount && e.lastAccess.Before(oldestAccess)) {
			oldestKey = userID
			oldestAccess = e.lastAccess
			lowestAccessCount = e.accessCount
			found = true
		}
	}

	if found {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogInfo("快取已淘汰(LRU)", zap.Int64("user_id", oldestKey))
	}
}

// Stats 取得快取統計
func (m *Manager) Stats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.stats.hits + m.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"backend":   "memory",
		"size":      len(m.store),
		"max_size":  m.config.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": hitRatio,
	}
}

// Close 關閉快取管理器
func (m *Manager) Close() error {
	close(m.done)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[int64]*entry)

	common.LogInfo("結果快取已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("淘汰次數", m.stats.evictions),
	)
	return nil
}
