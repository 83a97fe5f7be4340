package ws

// Mensagem de controle enviada pelo cliente.
type ClientMsg struct {
	Type      string `json:"type"` // "subscribe" | "unsubscribe" | "ping"
	AccountID string `json:"accountId"`
}

// BalanceUpdate é o payload empurrado para os clientes inscritos.
type BalanceUpdate struct {
	AccountID    string `json:"accountId"`
	BalanceCents int64  `json:"balance_cents"`
	Version      int64  `json:"version"`
	Reason       string `json:"reason"`
}
