package match

import (
	"context"
	"math"
	"sort"

	"cocktail-advisor/internal/pkg/common"
)

// Result 單筆配對結果
// 每次搜尋重新計算，不做持久化；僅供呼叫端顯示或短暫快取供點選
type Result struct {
	Recipe             *common.Recipe `json:"recipe"`
	MatchCount         int            `json:"match_count"`
	TotalIngredients   int            `json:"total_ingredients"`
	MatchPercentage    int            `json:"match_percentage"`
	MissingIngredients []string       `json:"missing_ingredients"`
}

// Engine 配對引擎
// 兩種實作共用同一契約：IndexedEngine 掃描本地目錄，
// FederatedEngine 逐食材查詢遠端資料源，呼叫端無需分辨
type Engine interface {
	FindByIngredients(ctx context.Context, ingredients []string) ([]Result, error)
}

// normalizeIngredients 正規化使用者食材列表
func normalizeIngredients(ingredients []string) []string {
	normalized := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		normalized = append(normalized, common.NormalizeIngredient(ing))
	}
	return normalized
}

// minRequiredMatches 最低配對門檻：
// 只選 1 項食材時顯示所有含該食材的調酒（門檻 1），
// 選 2 項以上時只顯示至少命中 2 項的調酒，避免灌水
func minRequiredMatches(ingredientCount int) int {
	if ingredientCount >= 2 {
		return 2
	}
	return 1
}

// matchPercentage 計算配對百分比，四捨五入；無食材的配方為 0
func matchPercentage(matchCount, totalIngredients int) int {
	if totalIngredients == 0 {
		return 0
	}
	return int(math.Round(float64(matchCount) / float64(totalIngredients) * 100))
}

// sortResults 排序：百分比高者在前，同分以命中數高者在前
// 使用穩定排序，其餘平手保持原始順序以確保結果可重現
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchPercentage != results[j].MatchPercentage {
			return results[i].MatchPercentage > results[j].MatchPercentage
		}
		return results[i].MatchCount > results[j].MatchCount
	})
}
