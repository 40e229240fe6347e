package session

import (
	"sync"
)

// Pending 使用者待處理輸入狀態
type Pending string

const (
	PendingNone       Pending = ""
	PendingIngredient Pending = "awaiting_ingredient"
)

// StateManager 每位使用者的對話狀態
// 取代全域可變 map：狀態由呼叫層顯式傳遞與清除
type StateManager struct {
	mu     sync.Mutex
	states map[int64]Pending
}

// NewStateManager 創建狀態管理器
func NewStateManager() *StateManager {
	return &StateManager{
		states: make(map[int64]Pending),
	}
}

// Set 設定使用者的待處理狀態
func (m *StateManager) Set(userID int64, state Pending) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state == PendingNone {
		delete(m.states, userID)
		return
	}
	m.states[userID] = state
}

// Take 取出並清除使用者的待處理狀態
func (m *StateManager) Take(userID int64) Pending {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.states[userID]
	delete(m.states, userID)
	return state
}

// Peek 查看使用者目前的待處理狀態
func (m *StateManager) Peek(userID int64) Pending {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[userID]
}
