package session

import (
	"context"
	"testing"
	"time"

	"cocktail-advisor/internal/core/match"
	"cocktail-advisor/internal/infrastructure/config"
	"cocktail-advisor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, maxSize int, ttl time.Duration) *Manager {
	t.Helper()
	m := NewManager(&config.CacheConfig{
		Enabled:         true,
		Backend:         "memory",
		MaxSize:         maxSize,
		TTL:             ttl,
		CleanupInterval: time.Minute,
	})
	require.NotNil(t, m)
	t.Cleanup(func() { m.Close() })
	return m
}

func sampleResults(names ...string) []match.Result {
	results := make([]match.Result, 0, len(names))
	for i, name := range names {
		results = append(results, match.Result{
			Recipe:     &common.Recipe{ID: i + 1, Name: name},
			MatchCount: 1,
		})
	}
	return results
}

func TestManager_DisabledReturnsNil(t *testing.T) {
	m := NewManager(&config.CacheConfig{Enabled: false})
	assert.Nil(t, m)
}

func TestManager_MatchesRoundTrip(t *testing.T) {
	m := newTestManager(t, 10, time.Minute)
	ctx := context.Background()

	_, ok := m.Matches(ctx, 1)
	assert.False(t, ok)

	m.SetMatches(ctx, 1, sampleResults("Mojito", "Daiquiri"))

	results, ok := m.Matches(ctx, 1)
	require.True(t, ok)
	require.Len(t, results, 2)
	assert.Equal(t, "Mojito", results[0].Recipe.Name)
}

func TestManager_NameResultsIndependentOfMatches(t *testing.T) {
	m := newTestManager(t, 10, time.Minute)
	ctx := context.Background()

	m.SetMatches(ctx, 1, sampleResults("Mojito"))

	// 同一使用者的名稱搜尋結果是另一個欄位，未寫入前仍是 miss
	_, ok := m.NameResults(ctx, 1)
	assert.False(t, ok)

	m.SetNameResults(ctx, 1, []*common.Recipe{{ID: 9, Name: "Negroni"}})

	recipes, ok := m.NameResults(ctx, 1)
	require.True(t, ok)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Negroni", recipes[0].Name)

	_, ok = m.Matches(ctx, 1)
	assert.True(t, ok)
}

func TestManager_TTLExpiry(t *testing.T) {
	m := newTestManager(t, 10, 30*time.Millisecond)
	ctx := context.Background()

	m.SetMatches(ctx, 1, sampleResults("Mojito"))

	_, ok := m.Matches(ctx, 1)
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)

	_, ok = m.Matches(ctx, 1)
	assert.False(t, ok)
}

func TestManager_LRUEvictionAtCapacity(t *testing.T) {
	m := newTestManager(t, 2, time.Minute)
	ctx := context.Background()

	m.SetMatches(ctx, 1, sampleResults("A"))
	m.SetMatches(ctx, 2, sampleResults("B"))

	// 存取使用者 1，讓使用者 2 成為淘汰對象
	_, ok := m.Matches(ctx, 1)
	require.True(t, ok)

	m.SetMatches(ctx, 3, sampleResults("C"))

	_, ok = m.Matches(ctx, 1)
	assert.True(t, ok)
	_, ok = m.Matches(ctx, 2)
	assert.False(t, ok)
	_, ok = m.Matches(ctx, 3)
	assert.True(t, ok)
}

func TestManager_Stats(t *testing.T) {
	m := newTestManager(t, 10, time.Minute)
	ctx := context.Background()

	m.SetMatches(ctx, 1, sampleResults("A"))
	m.Matches(ctx, 1)
	m.Matches(ctx, 2)

	stats := m.Stats()
	assert.Equal(t, "memory", stats["backend"])
	assert.Equal(t, 1, stats["size"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.InDelta(t, 0.5, stats["hit_ratio"].(float64), 0.001)
}
