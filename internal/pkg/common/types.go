package common

import (
	"fmt"
	"strings"
)

// RecipeIngredient 配方中的一項食材（份量為原始文字）
type RecipeIngredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Recipe 調酒配方
// 注意：欄位名稱與 data/cocktails.json 的匯入格式一模一樣，載入後不可變
type Recipe struct {
	ID           int                `json:"id"`
	Name         string             `json:"name"`
	NameEn       string             `json:"nameEn,omitempty"`
	Image        string             `json:"image"`
	Category     string             `json:"category"`
	Tags         []string           `json:"tags"`
	Glass        string             `json:"glass"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Instructions []string           `json:"instructions"`
	Rating       float64            `json:"rating,omitempty"`
	Alcoholic    bool               `json:"alcoholic"`
	Source       string             `json:"source"`
	ParsedAt     string             `json:"parsedAt"`
}

// RecipeSummary 遠端搜尋回傳的輕量摘要（僅 id、名稱與縮圖）
type RecipeSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
}

// UserRecord 使用者記錄
// 對應 data/users.json 的儲存格式，整份快照在每次變更後重寫
type UserRecord struct {
	UserID       int64    `json:"userId"`
	Username     string   `json:"username,omitempty"`
	Ingredients  []string `json:"ingredients"`
	LastActivity string   `json:"lastActivity"`
	CreatedAt    string   `json:"createdAt,omitempty"`
	SearchCount  int      `json:"searchCount,omitempty"`
}

// IngredientNames 取出配方食材名稱列表
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// FormatIngredients 格式化食材列表
func FormatIngredients(ingredients []RecipeIngredient) string {
	var sb strings.Builder
	for _, ing := range ingredients {
		if ing.Amount != "" {
			sb.WriteString(fmt.Sprintf("- %s：%s\n", ing.Name, ing.Amount))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", ing.Name))
		}
	}
	return sb.String()
}

// StringSliceToString 將字符串切片轉換為頓號分隔的字符串
func StringSliceToString(slice []string) string {
	if len(slice) == 0 {
		return ""
	}
	return strings.Join(slice, "、")
}
