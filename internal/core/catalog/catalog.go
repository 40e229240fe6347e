package catalog

import (
	"math/rand"
	"os"
	"strings"

	"cocktail-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 配方目錄服務
// 持有整個調酒配方集合，載入後即不可變
type Service struct {
	recipes []*common.Recipe
	byID    map[int]*common.Recipe
}

// Stats 配方目錄統計
type Stats struct {
	Total          int `json:"total"`
	Alcoholic      int `json:"alcoholic"`
	NonAlcoholic   int `json:"non_alcoholic"`
	AvgIngredients int `json:"avg_ingredients"`
}

// NewService 從 JSON 檔載入配方目錄
// 檔案不存在或格式錯誤時記錄錯誤並回傳空目錄，不中斷啟動：
// 空目錄代表「暫無推薦可用」，其餘功能照常運作
func NewService(path string) *Service {
	s := &Service{
		byID: make(map[int]*common.Recipe),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		common.LogError("配方目錄載入失敗，以空目錄啟動",
			zap.String("path", path),
			zap.Error(err),
		)
		return s
	}

	var recipes []*common.Recipe
	if err := common.ParseJSONBytes(data, &recipes); err != nil {
		common.LogError("配方目錄格式錯誤，以空目錄啟動",
			zap.String("path", path),
			zap.Error(err),
		)
		return s
	}

	s.recipes = recipes
	for _, r := range recipes {
		s.byID[r.ID] = r
	}

	common.LogInfo("配方目錄已載入",
		zap.String("path", path),
		zap.Int("count", len(recipes)),
	)

	return s
}

// NewServiceFromRecipes 直接以現成配方建立目錄（匯入工具與測試用）
func NewServiceFromRecipes(recipes []*common.Recipe) *Service {
	s := &Service{
		recipes: recipes,
		byID:    make(map[int]*common.Recipe, len(recipes)),
	}
	for _, r := range recipes {
		s.byID[r.ID] = r
	}
	return s
}

// GetByID 依 ID 取得配方
func (s *Service) GetByID(id int) (*common.Recipe, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// All 回傳全部配方（載入順序，穩定）
func (s *Service) All() []*common.Recipe {
	return s.recipes
}

// Len 回傳配方數量
func (s *Service) Len() int {
	return len(s.recipes)
}

// SearchByName 依名稱搜尋配方（不分大小寫的子字串比對）
// 結果不截斷，由呼叫端決定顯示數量
func (s *Service) SearchByName(query string) []*common.Recipe {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil
	}

	var matched []*common.Recipe
	for _, r := range s.recipes {
		if strings.Contains(strings.ToLower(r.Name), term) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Random 隨機取得一份配方，空目錄回傳 nil
func (s *Service) Random() *common.Recipe {
	if len(s.recipes) == 0 {
		return nil
	}
	return s.recipes[rand.Intn(len(s.recipes))]
}

// Stats 取得目錄統計
func (s *Service) Stats() Stats {
	stats := Stats{Total: len(s.recipes)}

	totalIngredients := 0
	for _, r := range s.recipes {
		if r.Alcoholic {
			stats.Alcoholic++
		} else {
			stats.NonAlcoholic++
		}
		totalIngredients += len(r.Ingredients)
	}

	if len(s.recipes) > 0 {
		// 四捨五入取平均
		stats.AvgIngredients = (totalIngredients + len(s.recipes)/2) / len(s.recipes)
	}

	return stats
}
