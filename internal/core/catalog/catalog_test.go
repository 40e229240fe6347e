package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"cocktail-advisor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[
  {
    "id": 1,
    "name": "Mojito",
    "alcoholic": true,
    "ingredients": [
      {"name": "White rum", "amount": "60ml"},
      {"name": "Lime", "amount": "1/2"},
      {"name": "Mint", "amount": "6 leaves"}
    ]
  },
  {
    "id": 2,
    "name": "Virgin Mojito",
    "alcoholic": false,
    "ingredients": [
      {"name": "Lime", "amount": "1/2"},
      {"name": "Mint", "amount": "6 leaves"},
      {"name": "Soda water", "amount": "top"}
    ]
  },
  {
    "id": 3,
    "name": "Negroni",
    "alcoholic": true,
    "ingredients": [
      {"name": "Gin", "amount": "30ml"},
      {"name": "Campari", "amount": "30ml"},
      {"name": "Sweet vermouth", "amount": "30ml"}
    ]
  }
]`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cocktails.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewService_LoadsCatalog(t *testing.T) {
	svc := NewService(writeCatalog(t, sampleCatalog))

	assert.Equal(t, 3, svc.Len())

	recipe, ok := svc.GetByID(2)
	require.True(t, ok)
	assert.Equal(t, "Virgin Mojito", recipe.Name)
	assert.Len(t, recipe.Ingredients, 3)
	assert.Equal(t, "60ml", mustGet(t, svc, 1).Ingredients[0].Amount)
}

func TestNewService_MissingFileStartsEmpty(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "nope.json"))

	assert.Equal(t, 0, svc.Len())
	assert.Nil(t, svc.Random())
	assert.Empty(t, svc.SearchByName("mojito"))
}

func TestNewService_MalformedFileStartsEmpty(t *testing.T) {
	svc := NewService(writeCatalog(t, `{"not": "an array"`))
	assert.Equal(t, 0, svc.Len())
}

func TestService_SearchByName(t *testing.T) {
	svc := NewService(writeCatalog(t, sampleCatalog))

	// 不分大小寫的子字串比對
	results := svc.SearchByName("MOJITO")
	require.Len(t, results, 2)
	assert.Equal(t, "Mojito", results[0].Name)
	assert.Equal(t, "Virgin Mojito", results[1].Name)

	assert.Len(t, svc.SearchByName("  negroni  "), 1)
	assert.Empty(t, svc.SearchByName("margarita"))
	assert.Empty(t, svc.SearchByName("   "))
}

func TestService_Random(t *testing.T) {
	svc := NewService(writeCatalog(t, sampleCatalog))

	for i := 0; i < 10; i++ {
		r := svc.Random()
		require.NotNil(t, r)
		_, ok := svc.GetByID(r.ID)
		assert.True(t, ok)
	}
}

func TestService_Stats(t *testing.T) {
	svc := NewService(writeCatalog(t, sampleCatalog))

	stats := svc.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Alcoholic)
	assert.Equal(t, 1, stats.NonAlcoholic)
	assert.Equal(t, 3, stats.AvgIngredients)
}

func TestService_AllPreservesLoadOrder(t *testing.T) {
	svc := NewService(writeCatalog(t, sampleCatalog))

	all := svc.All()
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{all[0].ID, all[1].ID, all[2].ID})
}

func mustGet(t *testing.T, svc *Service, id int) *common.Recipe {
	t.Helper()
	r, ok := svc.GetByID(id)
	require.True(t, ok)
	return r
}
