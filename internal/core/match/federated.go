package match

import (
	"context"
	"time"

	"cocktail-advisor/internal/pkg/common"

	"go.uber.org/zap"
)

// Source 遠端逐食材搜尋能力
// 由 internal/core/remote 的客戶端實作；測試中以 httptest 後端替代
type Source interface {
	SearchByIngredient(ctx context.Context, ingredient string) ([]common.RecipeSummary, error)
	GetByID(ctx context.Context, id string) (*common.Recipe, error)
}

// FederatedEngine 遠端查詢配對引擎
// 逐一食材查詢遠端資料源，合併候選後逐筆補完整配方。
// 呼叫間隔為對遠端的禮貌性限速；單一查詢失敗只影響該食材或候選
type FederatedEngine struct {
	source Source
	delay  time.Duration
}

// NewFederatedEngine 創建遠端查詢配對引擎
func NewFederatedEngine(source Source, delay time.Duration) *FederatedEngine {
	return &FederatedEngine{
		source: source,
		delay:  delay,
	}
}

// FindByIngredients 依使用者食材查詢遠端並回傳排序後的配對結果
// context 取消時中止後續外呼，回傳已組出的部分結果
func (e *FederatedEngine) FindByIngredients(ctx context.Context, ingredients []string) ([]Result, error) {
	if len(ingredients) == 0 {
		return nil, nil
	}

	// 合併候選：以 id 去重，並記錄每個候選被幾個食材查詢命中。
	// queryHitCount 只用來建候選集，不參與排序
	queryHits := make(map[string]int)
	var candidateIDs []string // 首見順序，確保後續抓取順序穩定

	for i, ingredient := range ingredients {
		if i > 0 && !e.pause(ctx) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		summaries, err := e.source.SearchByIngredient(ctx, ingredient)
		if err != nil {
			// 單一食材查詢失敗不中斷整體搜尋
			common.LogWarn("食材查詢失敗，略過",
				zap.String("ingredient", ingredient),
				zap.Error(err),
			)
			continue
		}

		for _, summary := range summaries {
			if _, seen := queryHits[summary.ID]; !seen {
				candidateIDs = append(candidateIDs, summary.ID)
			}
			queryHits[summary.ID]++
		}
	}

	// 使用者食材集合（正規化後），供精確比對
	userSet := make(map[string]bool, len(ingredients))
	for _, ing := range ingredients {
		userSet[common.NormalizeIngredient(ing)] = true
	}

	var results []Result
	for _, id := range candidateIDs {
		if ctx.Err() != nil {
			break
		}
		if !e.pause(ctx) {
			break
		}

		recipe, err := e.source.GetByID(ctx, id)
		if err != nil {
			// 單一候選補抓失敗只丟棄該候選
			common.LogWarn("候選配方取得失敗，丟棄",
				zap.String("id", id),
				zap.Error(err),
			)
			continue
		}
		if recipe == nil {
			continue
		}

		matchCount := 0
		var missing []string
		for _, recipeIng := range recipe.Ingredients {
			if userSet[common.NormalizeIngredient(recipeIng.Name)] {
				matchCount++
			} else {
				missing = append(missing, recipeIng.Name)
			}
		}

		total := len(recipe.Ingredients)
		results = append(results, Result{
			Recipe:             recipe,
			MatchCount:         matchCount,
			TotalIngredients:   total,
			MatchPercentage:    matchPercentage(matchCount, total),
			MissingIngredients: missing,
		})

		common.LogDebug("候選配方已納入",
			zap.String("id", id),
			zap.Int("query_hits", queryHits[id]),
			zap.Int("match_count", matchCount),
		)
	}

	sortResults(results)

	if ctx.Err() != nil {
		common.LogWarn("遠端配對提前中止，回傳部分結果",
			zap.Int("結果數", len(results)),
			zap.Error(ctx.Err()),
		)
	} else {
		common.LogInfo("遠端配對完成",
			zap.Int("食材數", len(ingredients)),
			zap.Int("候選數", len(candidateIDs)),
			zap.Int("結果數", len(results)),
		)
	}

	return results, nil
}

// pause 在兩次外呼之間等待固定間隔，context 取消時回傳 false
func (e *FederatedEngine) pause(ctx context.Context) bool {
	if e.delay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(e.delay):
		return true
	}
}
