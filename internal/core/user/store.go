package user

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"cocktail-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 使用者食材儲存
// 全部記錄常駐記憶體，每次變更後同步將完整快照寫回 JSON 檔。
// 寫檔失敗時記憶體狀態仍為準，下一次成功寫入會補齊
type Store struct {
	mu             sync.RWMutex
	path           string
	maxIngredients int
	users          map[int64]*common.UserRecord
}

// Stats 使用者儲存統計（儀表板用）
type Stats struct {
	TotalUsers      int            `json:"total_users"`
	ActiveDay       int            `json:"active_day"`
	ActiveWeek      int            `json:"active_week"`
	ActiveMonth     int            `json:"active_month"`
	Churned         int            `json:"churned"`
	Dead            int            `json:"dead"`
	TotalSearches   int            `json:"total_searches"`
	AvgIngredients  float64        `json:"avg_ingredients"`
	ZeroIngredients int            `json:"zero_ingredients"`
	TopIngredients  []IngredientUse `json:"top_ingredients"`
}

// IngredientUse 食材使用統計
type IngredientUse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewStore 載入使用者儲存
// 檔案不存在時建立空儲存並寫出初始快照；格式錯誤時以空儲存啟動
func NewStore(path string, maxIngredients int) *Store {
	s := &Store{
		path:           path,
		maxIngredients: maxIngredients,
		users:          make(map[int64]*common.UserRecord),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		common.LogError("無法建立資料目錄", zap.String("path", path), zap.Error(err))
		return s
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.persist()
			return s
		}
		common.LogError("使用者資料讀取失敗，以空儲存啟動", zap.String("path", path), zap.Error(err))
		return s
	}

	var records []*common.UserRecord
	if err := common.ParseJSONBytes(data, &records); err != nil {
		common.LogError("使用者資料格式錯誤，以空儲存啟動", zap.String("path", path), zap.Error(err))
		return s
	}

	for _, record := range records {
		s.users[record.UserID] = record
	}

	common.LogInfo("使用者資料已載入",
		zap.String("path", path),
		zap.Int("count", len(s.users)),
	)

	return s
}

// persist 將全部使用者快照寫回檔案，呼叫端須持有寫鎖
// 依 userId 排序輸出，讓檔案內容穩定
func (s *Store) persist() {
	records := make([]*common.UserRecord, 0, len(s.users))
	for _, record := range s.users {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].UserID < records[j].UserID
	})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		common.LogError("使用者資料序列化失敗", zap.Error(err))
		return
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		// 寫入失敗只記錄，記憶體狀態仍為準
		common.LogError("使用者資料寫入失敗",
			zap.String("path", s.path),
			zap.Error(err),
		)
	}
}

// now 統一時間戳格式
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Get 取得使用者記錄的副本，不存在時回傳 nil
func (s *Store) Get(userID int64) *common.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecord(s.users[userID])
}

// Create 建立新的空記錄（已存在時直接回傳現有記錄）
func (s *Store) Create(userID int64, username string) *common.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecord(s.createLocked(userID, username))
}

func (s *Store) createLocked(userID int64, username string) *common.UserRecord {
	if record, ok := s.users[userID]; ok {
		return record
	}
	record := &common.UserRecord{
		UserID:       userID,
		Username:     username,
		Ingredients:  []string{},
		LastActivity: now(),
		CreatedAt:    now(),
	}
	s.users[userID] = record
	s.persist()
	return record
}

// Add 加入食材
// 不分大小寫去重（已存在為 no-op）；達上限回傳 ErrIngredientLimit；
// 使用者不存在時自動建立記錄
func (s *Store) Add(userID int64, ingredient string) error {
	trimmed := strings.TrimSpace(ingredient)
	if trimmed == "" {
		return common.NewValidationError("ingredient name is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.createLocked(userID, "")

	normalized := common.NormalizeIngredient(trimmed)
	for _, existing := range record.Ingredients {
		if common.NormalizeIngredient(existing) == normalized {
			// 已存在，不重複加入
			record.LastActivity = now()
			s.persist()
			return nil
		}
	}

	if len(record.Ingredients) >= s.maxIngredients {
		common.LogWarn("食材數量已達上限",
			zap.Int64("user_id", userID),
			zap.Int("limit", s.maxIngredients),
		)
		return common.ErrIngredientLimit
	}

	record.Ingredients = append(record.Ingredients, trimmed)
	record.LastActivity = now()
	s.persist()

	common.LogInfo("食材已加入",
		zap.Int64("user_id", userID),
		zap.Int("count", len(record.Ingredients)),
	)
	return nil
}

// Remove 移除食材（不分大小寫比對）
// 食材不存在為 no-op；使用者不存在回傳 ErrUserNotFound
func (s *Store) Remove(userID int64, ingredient string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.users[userID]
	if !ok {
		return common.ErrUserNotFound
	}

	normalized := common.NormalizeIngredient(ingredient)
	kept := record.Ingredients[:0]
	for _, existing := range record.Ingredients {
		if common.NormalizeIngredient(existing) != normalized {
			kept = append(kept, existing)
		}
	}
	record.Ingredients = kept
	record.LastActivity = now()
	s.persist()
	return nil
}

// Clear 清空食材；使用者不存在回傳 ErrUserNotFound
func (s *Store) Clear(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.users[userID]
	if !ok {
		return common.ErrUserNotFound
	}

	record.Ingredients = []string{}
	record.LastActivity = now()
	s.persist()

	common.LogInfo("食材列表已清空", zap.Int64("user_id", userID))
	return nil
}

// Ingredients 取得使用者食材列表的副本，不存在時回傳空列表
func (s *Store) Ingredients(userID int64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.users[userID]
	if !ok {
		return []string{}
	}
	out := make([]string, len(record.Ingredients))
	copy(out, record.Ingredients)
	return out
}

// IncrementSearchCount 搜尋次數加一並刷新活躍時間
func (s *Store) IncrementSearchCount(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.users[userID]
	if !ok {
		return
	}
	record.SearchCount++
	record.LastActivity = now()
	s.persist()
}

// MaxIngredients 回傳每位使用者的食材上限
func (s *Store) MaxIngredients() int {
	return s.maxIngredients
}

// Stats 計算儀表板統計
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const day = 24 * time.Hour
	nowTime := time.Now().UTC()

	stats := Stats{TotalUsers: len(s.users)}
	ingredientCounts := make(map[string]int)
	totalIngredients := 0

	for _, record := range s.users {
		last, err := time.Parse(time.RFC3339, record.LastActivity)
		if err == nil {
			idle := nowTime.Sub(last)
			if idle < day {
				stats.ActiveDay++
			}
			if idle < 7*day {
				stats.ActiveWeek++
			}
			if idle < 30*day {
				stats.ActiveMonth++
			}
			if idle >= 30*day {
				if len(record.Ingredients) > 0 {
					stats.Churned++
				} else {
					stats.Dead++
				}
			}
		}

		totalIngredients += len(record.Ingredients)
		if len(record.Ingredients) == 0 {
			stats.ZeroIngredients++
		}
		stats.TotalSearches += record.SearchCount

		for _, ing := range record.Ingredients {
			ingredientCounts[common.NormalizeIngredient(ing)]++
		}
	}

	if len(s.users) > 0 {
		stats.AvgIngredients = float64(totalIngredients) / float64(len(s.users))
	}

	top := make([]IngredientUse, 0, len(ingredientCounts))
	for name, count := range ingredientCounts {
		top = append(top, IngredientUse{Name: name, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > 15 {
		top = top[:15]
	}
	stats.TopIngredients = top

	return stats
}

// cloneRecord 回傳記錄副本，避免呼叫端繞過鎖修改內部狀態
func cloneRecord(record *common.UserRecord) *common.UserRecord {
	if record == nil {
		return nil
	}
	out := *record
	out.Ingredients = make([]string, len(record.Ingredients))
	copy(out.Ingredients, record.Ingredients)
	return &out
}
