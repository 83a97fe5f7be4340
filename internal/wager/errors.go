package wager

import "errors"

var (
	ErrInvalidStake  = errors.New("stake must be positive")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrMissingToken  = errors.New("idempotency token required")

	// ErrTokenReused: o token já consumiu uma entrada do ledger que não
	// é de aposta (depósito ou saque). Não existe rodada para devolver,
	// então a aposta é recusada em vez de fingir replay.
	ErrTokenReused = errors.New("idempotency token already used by another operation")

	// ErrTransient cobre falha interna recuperável (contenção no banco
	// esgotou as tentativas). O cliente pode repetir com o mesmo token
	// de idempotência sem risco de efeito duplicado.
	ErrTransient = errors.New("transient failure, retry with same idempotency token")
)
