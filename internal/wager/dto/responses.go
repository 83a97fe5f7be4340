package dto

import "time"

// SettlementResponse é o recibo de uma aposta liquidada.
// Os campos de auditoria permitem conferir o sorteio depois que o
// server seed é revelado.
type SettlementResponse struct {
	RoundID      string    `json:"round_id"`
	GameType     string    `json:"game_type"`
	Choice       string    `json:"choice"`
	Result       string    `json:"result"`
	Category     string    `json:"category"` // win | lose | tie
	Multiplier   float64   `json:"multiplier"`
	StakeCents   int64     `json:"stake_cents"`
	DeltaCents   int64     `json:"delta_cents"`
	BalanceCents int64     `json:"balance_cents"`
	Version      int64     `json:"version"`
	DrawNonce    string    `json:"draw_nonce"`
	SeedHash     string    `json:"seed_hash"`
	DrawProof    string    `json:"draw_proof"`
	DrawnAt      time.Time `json:"drawn_at"`
}

type BalanceResponse struct {
	AccountID    string `json:"accountId"`
	BalanceCents int64  `json:"balance_cents"`
	Version      int64  `json:"version"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// LedgerEntryResponse é uma linha da trilha de auditoria da carteira.
type LedgerEntryResponse struct {
	DeltaCents   int64     `json:"delta_cents"`
	Reason       string    `json:"reason"`
	BalanceCents int64     `json:"balance_cents"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
}

// PlayRecordResponse é uma rodada do histórico de partidas.
type PlayRecordResponse struct {
	RoundID      string    `json:"round_id"`
	GameType     string    `json:"game_type"`
	Choice       string    `json:"choice"`
	Result       string    `json:"result"`
	Category     string    `json:"category"`
	StakeCents   int64     `json:"stake_cents"`
	DeltaCents   int64     `json:"delta_cents"`
	BalanceAfter int64     `json:"balance_after"`
	SettledAt    time.Time `json:"settled_at"`
}
