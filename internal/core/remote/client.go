package remote

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cocktail-advisor/internal/infrastructure/config"
	"cocktail-advisor/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// drinksPayload TheCocktailDB 風格回應：找不到時 drinks 為 null
type drinksPayload struct {
	Drinks []map[string]string `json:"drinks"`
}

// Client 遠端調酒資料源客戶端（TheCocktailDB 風格 API）
type Client struct {
	client *resty.Client
}

// NewClient 創建遠端客戶端
func NewClient(cfg *config.RemoteConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		client: client,
	}
}

// SearchByIngredient 依食材搜尋調酒，回傳輕量摘要
// 查無結果回傳空列表，不視為錯誤
func (c *Client) SearchByIngredient(ctx context.Context, ingredient string) ([]common.RecipeSummary, error) {
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("i", ingredient).
		Get("/filter.php")
	common.LogRemoteCall("/filter.php", ingredient, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to search by ingredient %q: %w", ingredient, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("remote returned status %d for ingredient %q", resp.StatusCode(), ingredient)
	}

	var payload drinksPayload
	if err := common.ParseJSONBytes(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	summaries := make([]common.RecipeSummary, 0, len(payload.Drinks))
	for _, drink := range payload.Drinks {
		summaries = append(summaries, common.RecipeSummary{
			ID:        drink["idDrink"],
			Name:      drink["strDrink"],
			Thumbnail: drink["strDrinkThumb"],
		})
	}
	return summaries, nil
}

// GetByID 依 ID 取得完整配方，查無結果回傳 nil
func (c *Client) GetByID(ctx context.Context, id string) (*common.Recipe, error) {
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("i", id).
		Get("/lookup.php")
	common.LogRemoteCall("/lookup.php", id, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cocktail %s: %w", id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("remote returned status %d for cocktail %s", resp.StatusCode(), id)
	}

	var payload drinksPayload
	if err := common.ParseJSONBytes(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse lookup response: %w", err)
	}
	if len(payload.Drinks) == 0 {
		return nil, nil
	}

	return drinkToRecipe(payload.Drinks[0]), nil
}

// drinkToRecipe 將 strIngredient1..15 / strMeasure1..15 的扁平欄位轉為配方
func drinkToRecipe(drink map[string]string) *common.Recipe {
	id, _ := strconv.Atoi(drink["idDrink"])

	var ingredients []common.RecipeIngredient
	for i := 1; i <= 15; i++ {
		name := strings.TrimSpace(drink[fmt.Sprintf("strIngredient%d", i)])
		if name == "" {
			continue
		}
		ingredients = append(ingredients, common.RecipeIngredient{
			Name:   name,
			Amount: strings.TrimSpace(drink[fmt.Sprintf("strMeasure%d", i)]),
		})
	}

	var instructions []string
	if text := strings.TrimSpace(drink["strInstructions"]); text != "" {
		instructions = append(instructions, text)
	}

	return &common.Recipe{
		ID:           id,
		Name:         drink["strDrink"],
		Image:        drink["strDrinkThumb"],
		Category:     drink["strCategory"],
		Glass:        drink["strGlass"],
		Ingredients:  ingredients,
		Instructions: instructions,
		Alcoholic:    drink["strAlcoholic"] == "Alcoholic",
		Source:       "thecocktaildb",
		ParsedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}
