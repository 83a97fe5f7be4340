package events

// Evento emitido pelo wager-service após liquidar uma aposta.
// Consumido pelo settlement-history-worker para materializar o histórico.
type WagerSettled struct {
	RoundID         string `json:"round_id"`
	AccountID       string `json:"account_id"`
	GameType        string `json:"game_type"` // "wheel" | "rock_paper_scissors"
	PlayerChoice    string `json:"player_choice"`
	Result          string `json:"result"`   // cor sorteada ou jogada do oponente
	Category        string `json:"category"` // "win" | "lose" | "tie"
	StakeCents      int64  `json:"stake_cents"`
	DeltaCents      int64  `json:"delta_cents"`
	NewBalanceCents int64  `json:"new_balance_cents"`
	NewVersion      int64  `json:"new_version"`
	IdempotencyKey  string `json:"idempotency_key"`
	DrawNonce       string `json:"draw_nonce"` // nonce usado no sorteio (auditoria)
	SeedHash        string `json:"seed_hash"`  // compromisso SHA-256 do server seed
	DrawProof       string `json:"draw_proof"` // HMAC completo do sorteio
	TsUnixMs        int64  `json:"ts_unix_ms"`
}
