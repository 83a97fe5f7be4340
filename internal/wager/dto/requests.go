package dto

type PlaceWagerRequest struct {
	GameType       string `json:"game_type"` // "wheel" | "rock_paper_scissors"
	Choice         string `json:"choice"`    // wheel: blue|white; rps: rock|paper|scissors
	StakeCents     int64  `json:"stake_cents"`
	IdempotencyKey string `json:"idempotency_key"` // único por tentativa lógica de aposta
}

type DepositRequest struct {
	AmountCents    int64  `json:"amount_cents"`
	IdempotencyKey string `json:"idempotency_key,omitempty"` // opcional p/ idempotência
}

type WithdrawRequest struct {
	AmountCents    int64  `json:"amount_cents"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}
