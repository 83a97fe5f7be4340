package repo

import (
	"context"
	"database/sql"

	"github.com/h2w/wager-platform/internal/game"
	"github.com/h2w/wager-platform/internal/ledger"
	"github.com/h2w/wager-platform/internal/wager"
)

// Postgres persiste rodadas liquidadas junto com a mutação de saldo.
// O insert em wager_rounds e o ApplyDelta do ledger compartilham a mesma
// transação: nunca existe débito sem rodada gravada nem rodada sem débito.
type Postgres struct {
	db  *sql.DB
	led *ledger.Postgres
}

func NewPostgres(db *sql.DB, led *ledger.Postgres) *Postgres {
	return &Postgres{db: db, led: led}
}

// FindRound busca a rodada liquidada para o par (conta, token).
// Retorna nil sem erro quando não existe.
func (p *Postgres) FindRound(ctx context.Context, accountID, token string) (*wager.Round, error) {
	var r wager.Round
	err := p.db.QueryRowContext(ctx, `
		SELECT id, account_id, idempotency_token, game_type, player_choice, result,
		       category, multiplier, stake_cents, delta_cents, balance_cents, version,
		       draw_nonce, seed_hash, draw_proof, drawn_at, created_at
		FROM wager_rounds WHERE account_id=$1 AND idempotency_token=$2`,
		accountID, token).
		Scan(&r.ID, &r.AccountID, &r.IdempotencyToken, &r.GameType, &r.PlayerChoice,
			&r.Result, &r.Category, &r.Multiplier, &r.StakeCents, &r.DeltaCents,
			&r.BalanceCents, &r.Version, &r.DrawNonce, &r.SeedHash, &r.DrawProof,
			&r.DrawnAt, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// SettleRound aplica o delta da rodada no ledger e grava o snapshot, em
// uma transação só. Se o ledger reportar replay (token já aplicado), nada
// é gravado e o chamador resolve a rodada original via FindRound.
func (p *Postgres) SettleRound(ctx context.Context, r *wager.Round) (ledger.Applied, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Applied{}, err
	}
	defer tx.Rollback()

	applied, err := p.led.ApplyDeltaTx(ctx, tx, r.AccountID, r.DeltaCents,
		reasonFor(r.Category), r.IdempotencyToken)
	if err != nil {
		return ledger.Applied{}, err
	}
	if applied.Replayed {
		return applied, nil
	}

	r.BalanceCents = applied.BalanceCents
	r.Version = applied.Version

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO wager_rounds (id, account_id, idempotency_token, game_type, player_choice,
			result, category, multiplier, stake_cents, delta_cents, balance_cents, version,
			draw_nonce, seed_hash, draw_proof, drawn_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		r.ID, r.AccountID, r.IdempotencyToken, r.GameType, r.PlayerChoice,
		r.Result, r.Category, r.Multiplier, r.StakeCents, r.DeltaCents,
		r.BalanceCents, r.Version, r.DrawNonce, r.SeedHash, r.DrawProof, r.DrawnAt); err != nil {
		return ledger.Applied{}, err
	}

	if err = tx.Commit(); err != nil {
		return ledger.Applied{}, err
	}
	return applied, nil
}

// reasonFor mapeia a categoria do resultado para o motivo do ledger.
func reasonFor(c game.Category) string {
	switch c {
	case game.Win:
		return ledger.ReasonWagerWin
	case game.Tie:
		return ledger.ReasonWagerTie
	default:
		return ledger.ReasonWagerLoss
	}
}
