package match

import (
	"context"
	"strings"

	"cocktail-advisor/internal/core/catalog"
	"cocktail-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

// IndexedEngine 本地目錄配對引擎
// 對整份常駐目錄做單趟掃描，結果具決定性
type IndexedEngine struct {
	catalog *catalog.Service
}

// NewIndexedEngine 創建本地目錄配對引擎
func NewIndexedEngine(catalogService *catalog.Service) *IndexedEngine {
	return &IndexedEngine{
		catalog: catalogService,
	}
}

// FindByIngredients 依使用者食材掃描目錄並回傳排序後的配對結果
func (e *IndexedEngine) FindByIngredients(ctx context.Context, ingredients []string) ([]Result, error) {
	if len(ingredients) == 0 {
		return nil, nil
	}

	userIngredients := normalizeIngredients(ingredients)
	minMatches := minRequiredMatches(len(ingredients))

	var results []Result
	for _, recipe := range e.catalog.All() {
		matchCount := 0
		var missing []string

		for _, recipeIng := range recipe.Ingredients {
			if ingredientSatisfied(recipeIng.Name, userIngredients) {
				matchCount++
			} else {
				missing = append(missing, recipeIng.Name)
			}
		}

		if matchCount < minMatches {
			continue
		}

		total := len(recipe.Ingredients)
		results = append(results, Result{
			Recipe:             recipe,
			MatchCount:         matchCount,
			TotalIngredients:   total,
			MatchPercentage:    matchPercentage(matchCount, total),
			MissingIngredients: missing,
		})
	}

	sortResults(results)

	common.LogInfo("本地配對完成",
		zap.Int("食材數", len(ingredients)),
		zap.Int("結果數", len(results)),
	)

	return results, nil
}

// ingredientSatisfied 檢查配方食材是否被使用者食材滿足
// 雙向子字串比對是刻意設計：「蘭姆酒」要能配到「黑蘭姆酒」，反之亦然
func ingredientSatisfied(recipeIngredient string, userIngredients []string) bool {
	recipeIng := common.NormalizeIngredient(recipeIngredient)
	for _, userIng := range userIngredients {
		if userIng == "" {
			continue
		}
		if strings.Contains(recipeIng, userIng) || strings.Contains(userIng, recipeIng) {
			return true
		}
	}
	return false
}
