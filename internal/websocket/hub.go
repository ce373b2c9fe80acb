package websocket

import (
	"encoding/json"
	"sync"
)

// BalanceUpdate is pushed to a user's sockets whenever a ledger write moves
// an account balance. Balance is the formatted decimal string, never a float.
type BalanceUpdate struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
	Currency  string `json:"currency"`
}

// Hub fans balance updates out to the websocket clients of each user. A slow
// client gets its update dropped rather than stalling the ledger path.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.userID] == nil {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[client.userID]
	if set == nil {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) BroadcastBalance(userID string, update BalanceUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
