package events

import "time"

// Notificação de mudança de saldo publicada no canal Redis pub/sub.
// O balance-feed-service repassa para os clientes WebSocket inscritos,
// substituindo qualquer polling do lado do cliente.
type BalanceChanged struct {
	AccountID    string    `json:"accountId"`
	BalanceCents int64     `json:"balance_cents"`
	Version      int64     `json:"version"`
	Reason       string    `json:"reason"` // wager_win | wager_loss | wager_tie | deposit | withdrawal
	Ts           time.Time `json:"ts"`
}
