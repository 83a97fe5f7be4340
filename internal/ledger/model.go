package ledger

import "time"

// Motivos aceitos em ledger_entries. Qualquer outro valor é rejeitado
// pelo CHECK do banco, então validamos antes de abrir transação.
const (
	ReasonWagerWin   = "wager_win"
	ReasonWagerLoss  = "wager_loss"
	ReasonWagerTie   = "wager_tie"
	ReasonDeposit    = "deposit"
	ReasonWithdrawal = "withdrawal"
)

// Entry é uma linha imutável da trilha de auditoria.
type Entry struct {
	ID               int64
	AccountID        string
	DeltaCents       int64
	Reason           string
	BalanceCents     int64
	Version          int64
	IdempotencyToken string
	CreatedAt        time.Time
}

// Applied é o resultado de um ApplyDelta.
// Replayed indica que o token já tinha sido aplicado e o resultado
// retornado veio da entrada gravada, sem novo efeito financeiro.
type Applied struct {
	BalanceCents int64
	Version      int64
	Replayed     bool
}
