package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/h2w/wager-platform/pkg/contracts/events"
)

// Postgres materializa o histórico de partidas consumido do Kafka.
// Insert idempotente por round_id: reprocessar a mesma mensagem não
// duplica linha.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

func (p *Postgres) InsertSettlement(ctx context.Context, e *events.WagerSettled) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO wager_history (round_id, account_id, game_type, player_choice, result,
			category, stake_cents, delta_cents, balance_after, settled_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (round_id) DO NOTHING`,
		e.RoundID, e.AccountID, e.GameType, e.PlayerChoice, e.Result,
		e.Category, e.StakeCents, e.DeltaCents, e.NewBalanceCents,
		time.UnixMilli(e.TsUnixMs).UTC())
	return err
}

// Recent lista as últimas partidas da conta, mais recente primeiro.
type PlayRecord struct {
	RoundID      string
	GameType     string
	PlayerChoice string
	Result       string
	Category     string
	StakeCents   int64
	DeltaCents   int64
	BalanceAfter int64
	SettledAt    time.Time
}

func (p *Postgres) Recent(ctx context.Context, accountID string, limit int) ([]PlayRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT round_id, game_type, player_choice, result, category,
		       stake_cents, delta_cents, balance_after, settled_at
		FROM wager_history WHERE account_id=$1
		ORDER BY settled_at DESC LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayRecord
	for rows.Next() {
		var r PlayRecord
		if err := rows.Scan(&r.RoundID, &r.GameType, &r.PlayerChoice, &r.Result,
			&r.Category, &r.StakeCents, &r.DeltaCents, &r.BalanceAfter, &r.SettledAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
