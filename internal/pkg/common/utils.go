package common

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// NormalizeIngredient 正規化食材名稱：去除前後空白並轉小寫
// 比對一律使用正規化後的字串，顯示時保留原始大小寫
func NormalizeIngredient(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// WriteErrorResponse 寫入錯誤響應
func WriteErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
