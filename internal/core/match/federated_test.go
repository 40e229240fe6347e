package match

import (
	"context"
	"errors"
	"testing"

	"cocktail-advisor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource 測試用的遠端資料源
type fakeSource struct {
	searchResults map[string][]common.RecipeSummary
	searchErrs    map[string]error
	recipes       map[string]*common.Recipe
	lookupErrs    map[string]error

	searchCalls []string
	lookupCalls []string
}

func (f *fakeSource) SearchByIngredient(ctx context.Context, ingredient string) ([]common.RecipeSummary, error) {
	f.searchCalls = append(f.searchCalls, ingredient)
	if err := f.searchErrs[ingredient]; err != nil {
		return nil, err
	}
	return f.searchResults[ingredient], nil
}

func (f *fakeSource) GetByID(ctx context.Context, id string) (*common.Recipe, error) {
	f.lookupCalls = append(f.lookupCalls, id)
	if err := f.lookupErrs[id]; err != nil {
		return nil, err
	}
	return f.recipes[id], nil
}

func summary(id, name string) common.RecipeSummary {
	return common.RecipeSummary{ID: id, Name: name}
}

func TestFederatedEngine_MergesCandidatesByID(t *testing.T) {
	source := &fakeSource{
		searchResults: map[string][]common.RecipeSummary{
			"Rum":  {summary("11", "Mojito"), summary("12", "Daiquiri")},
			"Lime": {summary("11", "Mojito"), summary("13", "Margarita")},
		},
		recipes: map[string]*common.Recipe{
			"11": makeRecipe(11, "Mojito", "Rum", "Lime", "Mint"),
			"12": makeRecipe(12, "Daiquiri", "Rum", "Lime", "Sugar"),
			"13": makeRecipe(13, "Margarita", "Tequila", "Lime", "Triple sec"),
		},
	}
	engine := NewFederatedEngine(source, 0)

	results, err := engine.FindByIngredients(context.Background(), []string{"Rum", "Lime"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// 兩個查詢都命中 Mojito，但只能抓取一次
	assert.Equal(t, []string{"11", "12", "13"}, source.lookupCalls)
}

func TestFederatedEngine_ExactMembershipMatchCount(t *testing.T) {
	source := &fakeSource{
		searchResults: map[string][]common.RecipeSummary{
			"Rum": {summary("11", "Mojito")},
		},
		recipes: map[string]*common.Recipe{
			"11": makeRecipe(11, "Mojito", "Rum", "Lime", "Mint"),
		},
	}
	engine := NewFederatedEngine(source, 0)

	results, err := engine.FindByIngredients(context.Background(), []string{"rum", "LIME"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, 2, r.MatchCount)
	assert.Equal(t, 3, r.TotalIngredients)
	assert.Equal(t, 67, r.MatchPercentage)
	assert.Equal(t, []string{"Mint"}, r.MissingIngredients)
}

func TestFederatedEngine_QueryFailureSkipsIngredient(t *testing.T) {
	source := &fakeSource{
		searchResults: map[string][]common.RecipeSummary{
			"Lime": {summary("21", "Gimlet")},
		},
		searchErrs: map[string]error{
			"Rum": errors.New("remote unavailable"),
		},
		recipes: map[string]*common.Recipe{
			"21": makeRecipe(21, "Gimlet", "Gin", "Lime"),
		},
	}
	engine := NewFederatedEngine(source, 0)

	// 一個食材查詢失敗，不影響其餘食材組出的結果
	results, err := engine.FindByIngredients(context.Background(), []string{"Rum", "Lime"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Gimlet", results[0].Recipe.Name)
}

func TestFederatedEngine_LookupFailureDropsCandidate(t *testing.T) {
	source := &fakeSource{
		searchResults: map[string][]common.RecipeSummary{
			"Gin": {summary("31", "Martini"), summary("32", "Negroni")},
		},
		recipes: map[string]*common.Recipe{
			"32": makeRecipe(32, "Negroni", "Gin", "Campari", "Sweet vermouth"),
		},
		lookupErrs: map[string]error{
			"31": errors.New("lookup timeout"),
		},
	}
	engine := NewFederatedEngine(source, 0)

	results, err := engine.FindByIngredients(context.Background(), []string{"Gin"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Negroni", results[0].Recipe.Name)
}

func TestFederatedEngine_SortsLikeIndexedMode(t *testing.T) {
	source := &fakeSource{
		searchResults: map[string][]common.RecipeSummary{
			"Rum":  {summary("41", "Low"), summary("42", "High")},
			"Lime": {summary("41", "Low"), summary("42", "High")},
		},
		recipes: map[string]*common.Recipe{
			// Low：4 項中 2（50%）、High：2 項全中（100%）
			"41": makeRecipe(41, "Low", "Rum", "Lime", "Mint", "Sugar"),
			"42": makeRecipe(42, "High", "Rum", "Lime"),
		},
	}
	engine := NewFederatedEngine(source, 0)

	results, err := engine.FindByIngredients(context.Background(), []string{"Rum", "Lime"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "High", results[0].Recipe.Name)
	assert.Equal(t, "Low", results[1].Recipe.Name)
}

func TestFederatedEngine_CancelledContextReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{
		searchResults: map[string][]common.RecipeSummary{
			"Rum": {summary("51", "Mojito")},
		},
		recipes: map[string]*common.Recipe{
			"51": makeRecipe(51, "Mojito", "Rum"),
		},
	}
	engine := NewFederatedEngine(source, 0)

	// 已取消的 context：不再外呼，回傳空的部分結果而非錯誤
	results, err := engine.FindByIngredients(ctx, []string{"Rum", "Lime"})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.LessOrEqual(t, len(source.searchCalls), 1)
}

func TestFederatedEngine_EmptyIngredients(t *testing.T) {
	engine := NewFederatedEngine(&fakeSource{}, 0)

	results, err := engine.FindByIngredients(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
