package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// client embrulha a conexão com um mutex de escrita: o pong sai do loop
// de leitura e o Broadcast sai da goroutine do subscriber Redis, e a
// conexão só tolera um escritor por vez.
type client struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *client) writeText(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, b)
}

// Hub gerencia conexões WebSocket e assinaturas de feed de saldo
// subs: mapeia accountID para o conjunto de conexões inscritas
//
// É o gancho de notificação que substitui o polling entre abas do
// cliente: o saldo muda no ledger, o wager-service publica, o hub empurra.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	// accountID -> set of clients
	subs map[string]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe por conta e responde a pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	cl := &client{ws: conn}
	defer conn.Close()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.subscribe(msg.AccountID, cl)
		case "unsubscribe":
			h.unsubscribe(msg.AccountID, cl)
		case "ping":
			_ = cl.writeJSON(map[string]string{"type": "pong"})
		}
	}
	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for _, set := range h.subs {
		delete(set, cl)
	}
	h.mu.Unlock()
}

func (h *Hub) subscribe(accountID string, cl *client) {
	if accountID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[accountID]; !ok {
		h.subs[accountID] = make(map[*client]struct{})
	}
	h.subs[accountID][cl] = struct{}{}
}

func (h *Hub) unsubscribe(accountID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.subs[accountID]; ok {
		delete(m, cl)
		if len(m) == 0 {
			delete(h.subs, accountID)
		}
	}
}

// Subscribers informa quantas conexões assinam a conta. Usado em testes
// e no log de diagnóstico.
func (h *Hub) Subscribers(accountID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[accountID])
}

// Broadcast envia a atualização de saldo para os clientes inscritos na conta
func (h *Hub) Broadcast(update BalanceUpdate) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.subs[update.AccountID]))
	for c := range h.subs[update.AccountID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	if len(clients) == 0 {
		return
	}

	b, _ := json.Marshal(update)
	for _, c := range clients {
		_ = c.writeText(b)
	}
}
