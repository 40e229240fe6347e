package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cocktail-advisor/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&config.RemoteConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	})
}

func TestClient_SearchByIngredient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/filter.php", r.URL.Path)
		assert.Equal(t, "Gin", r.URL.Query().Get("i"))
		w.Write([]byte(`{"drinks":[
			{"idDrink":"11000","strDrink":"Mojito","strDrinkThumb":"https://img/11000.jpg"},
			{"idDrink":"11001","strDrink":"Old Fashioned","strDrinkThumb":"https://img/11001.jpg"}
		]}`))
	})

	summaries, err := client.SearchByIngredient(context.Background(), "Gin")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "11000", summaries[0].ID)
	assert.Equal(t, "Mojito", summaries[0].Name)
	assert.Equal(t, "https://img/11000.jpg", summaries[0].Thumbnail)
}

func TestClient_SearchByIngredient_NullDrinks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// 查無結果時遠端回傳 drinks:null
		w.Write([]byte(`{"drinks":null}`))
	})

	summaries, err := client.SearchByIngredient(context.Background(), "unobtainium")
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestClient_SearchByIngredient_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.SearchByIngredient(context.Background(), "Gin")
	assert.Error(t, err)
}

func TestClient_GetByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup.php", r.URL.Path)
		assert.Equal(t, "11000", r.URL.Query().Get("i"))
		w.Write([]byte(`{"drinks":[{
			"idDrink":"11000",
			"strDrink":"Mojito",
			"strCategory":"Cocktail",
			"strAlcoholic":"Alcoholic",
			"strGlass":"Highball glass",
			"strInstructions":"Muddle mint with sugar and lime juice.",
			"strDrinkThumb":"https://img/11000.jpg",
			"strIngredient1":"White rum",
			"strIngredient2":"Lime",
			"strIngredient3":"Mint",
			"strIngredient4":"",
			"strIngredient5":null,
			"strMeasure1":"2-3 oz ",
			"strMeasure2":"Juice of 1 ",
			"strMeasure3":"4 "
		}]}`))
	})

	recipe, err := client.GetByID(context.Background(), "11000")
	require.NoError(t, err)
	require.NotNil(t, recipe)

	assert.Equal(t, 11000, recipe.ID)
	assert.Equal(t, "Mojito", recipe.Name)
	assert.Equal(t, "Cocktail", recipe.Category)
	assert.Equal(t, "Highball glass", recipe.Glass)
	assert.True(t, recipe.Alcoholic)
	assert.Equal(t, "thecocktaildb", recipe.Source)
	assert.Equal(t, []string{"Muddle mint with sugar and lime juice."}, recipe.Instructions)

	// 空白與 null 的 strIngredientN 欄位要被略過，量測欄位去除尾端空白
	require.Len(t, recipe.Ingredients, 3)
	assert.Equal(t, "White rum", recipe.Ingredients[0].Name)
	assert.Equal(t, "2-3 oz", recipe.Ingredients[0].Amount)
	assert.Equal(t, "Mint", recipe.Ingredients[2].Name)
}

func TestClient_GetByID_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"drinks":null}`))
	})

	recipe, err := client.GetByID(context.Background(), "99999")
	require.NoError(t, err)
	assert.Nil(t, recipe)
}

func TestClient_GetByID_NonAlcoholic(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"drinks":[{
			"idDrink":"12000",
			"strDrink":"Virgin Colada",
			"strAlcoholic":"Non alcoholic",
			"strIngredient1":"Pineapple juice"
		}]}`))
	})

	recipe, err := client.GetByID(context.Background(), "12000")
	require.NoError(t, err)
	require.NotNil(t, recipe)
	assert.False(t, recipe.Alcoholic)
}
