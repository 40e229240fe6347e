package match

import (
	"context"
	"testing"

	"cocktail-advisor/internal/core/catalog"
	"cocktail-advisor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecipe(id int, name string, ingredients ...string) *common.Recipe {
	r := &common.Recipe{ID: id, Name: name}
	for _, ing := range ingredients {
		r.Ingredients = append(r.Ingredients, common.RecipeIngredient{Name: ing})
	}
	return r
}

func TestIndexedEngine_MojitoScenario(t *testing.T) {
	cat := catalog.NewServiceFromRecipes([]*common.Recipe{
		makeRecipe(1, "Mojito", "White rum", "Lime", "Mint", "Sugar", "Soda water"),
	})
	engine := NewIndexedEngine(cat)

	results, err := engine.FindByIngredients(context.Background(), []string{"Rum", "Lime"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "Mojito", r.Recipe.Name)
	assert.Equal(t, 2, r.MatchCount)
	assert.Equal(t, 5, r.TotalIngredients)
	assert.Equal(t, 40, r.MatchPercentage)
	assert.Equal(t, []string{"Mint", "Sugar", "Soda water"}, r.MissingIngredients)
}

func TestIndexedEngine_MatchInvariants(t *testing.T) {
	cat := catalog.NewServiceFromRecipes([]*common.Recipe{
		makeRecipe(1, "Gin Tonic", "Gin", "Tonic water", "Lime"),
		makeRecipe(2, "Martini", "Gin", "Dry vermouth"),
		makeRecipe(3, "Virgin Colada", "Pineapple juice", "Coconut cream"),
	})
	engine := NewIndexedEngine(cat)

	results, err := engine.FindByIngredients(context.Background(), []string{"gin", "lime", "tonic"})
	require.NoError(t, err)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.MatchCount, 0)
		assert.LessOrEqual(t, r.MatchCount, r.TotalIngredients)
		assert.Equal(t, r.TotalIngredients-r.MatchCount, len(r.MissingIngredients))
	}
}

func TestIndexedEngine_MinimumMatchGate(t *testing.T) {
	cat := catalog.NewServiceFromRecipes([]*common.Recipe{
		makeRecipe(1, "Gin Fizz", "Gin", "Lemon juice", "Sugar"),
	})
	engine := NewIndexedEngine(cat)

	// 單一食材：門檻 1，只配中 gin 也要出現
	results, err := engine.FindByIngredients(context.Background(), []string{"gin"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].MatchCount)

	// 兩項食材：門檻 2，只配中 gin 的配方要被濾掉
	results, err = engine.FindByIngredients(context.Background(), []string{"gin", "tonic"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndexedEngine_ContainmentSymmetry(t *testing.T) {
	cat := catalog.NewServiceFromRecipes([]*common.Recipe{
		makeRecipe(1, "Classic", "London dry gin"),
		makeRecipe(2, "Plain", "gin"),
	})
	engine := NewIndexedEngine(cat)

	// 使用者的「gin」要能滿足配方的「London dry gin」
	results, err := engine.FindByIngredients(context.Background(), []string{"gin"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// 反向：使用者的「london dry gin」也要能滿足配方的「gin」
	results, err = engine.FindByIngredients(context.Background(), []string{"london dry gin"})
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestIndexedEngine_Ranking(t *testing.T) {
	// A：5 中 4（80%）、B：4 中 3（75%）、C：2 中 2（100%）
	cat := catalog.NewServiceFromRecipes([]*common.Recipe{
		makeRecipe(1, "A", "i1", "i2", "i3", "i4", "x1"),
		makeRecipe(2, "B", "i1", "i2", "i3", "x2"),
		makeRecipe(3, "C", "i1", "i2"),
	})
	engine := NewIndexedEngine(cat)

	results, err := engine.FindByIngredients(context.Background(), []string{"i1", "i2", "i3", "i4"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "C", results[0].Recipe.Name)
	assert.Equal(t, "A", results[1].Recipe.Name)
	assert.Equal(t, "B", results[2].Recipe.Name)
}

func TestIndexedEngine_TieBreakByMatchCount(t *testing.T) {
	// 同為 50%：A 配中 2、B 配中 1，A 要排前面
	cat := catalog.NewServiceFromRecipes([]*common.Recipe{
		makeRecipe(1, "B", "i1", "x1"),
		makeRecipe(2, "A", "i1", "i2", "x1", "x2"),
	})
	engine := NewIndexedEngine(cat)

	results, err := engine.FindByIngredients(context.Background(), []string{"i1", "i2"})
	require.NoError(t, err)
	require.Len(t, results, 1, "B 只配中 1 項，被門檻濾掉")
	assert.Equal(t, "A", results[0].Recipe.Name)
}

func TestIndexedEngine_StableOrderOnFullTie(t *testing.T) {
	// 完全同分時保持目錄載入順序
	cat := catalog.NewServiceFromRecipes([]*common.Recipe{
		makeRecipe(1, "First", "i1", "i2"),
		makeRecipe(2, "Second", "i1", "i2"),
		makeRecipe(3, "Third", "i1", "i2"),
	})
	engine := NewIndexedEngine(cat)

	results, err := engine.FindByIngredients(context.Background(), []string{"i1", "i2"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "First", results[0].Recipe.Name)
	assert.Equal(t, "Second", results[1].Recipe.Name)
	assert.Equal(t, "Third", results[2].Recipe.Name)
}

func TestIndexedEngine_EmptyIngredients(t *testing.T) {
	cat := catalog.NewServiceFromRecipes([]*common.Recipe{
		makeRecipe(1, "Anything", "i1"),
	})
	engine := NewIndexedEngine(cat)

	results, err := engine.FindByIngredients(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndexedEngine_ZeroIngredientRecipe(t *testing.T) {
	// 沒有食材的配方百分比為 0，且配不中任何東西
	cat := catalog.NewServiceFromRecipes([]*common.Recipe{
		makeRecipe(1, "Empty"),
		makeRecipe(2, "Gin Shot", "gin"),
	})
	engine := NewIndexedEngine(cat)

	results, err := engine.FindByIngredients(context.Background(), []string{"gin"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Gin Shot", results[0].Recipe.Name)
}

func TestMatchPercentageRounding(t *testing.T) {
	assert.Equal(t, 0, matchPercentage(0, 0))
	assert.Equal(t, 33, matchPercentage(1, 3))
	assert.Equal(t, 67, matchPercentage(2, 3))
	assert.Equal(t, 40, matchPercentage(2, 5))
	assert.Equal(t, 100, matchPercentage(4, 4))
}

func TestMinRequiredMatches(t *testing.T) {
	assert.Equal(t, 1, minRequiredMatches(1))
	assert.Equal(t, 2, minRequiredMatches(2))
	assert.Equal(t, 2, minRequiredMatches(7))
}
