package history

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h2w/wager-platform/pkg/contracts/events"
)

func TestInsertSettlementIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgres(db)
	e := &events.WagerSettled{
		RoundID:         "round-1",
		AccountID:       "acc-1",
		GameType:        "wheel",
		PlayerChoice:    "blue",
		Result:          "white",
		Category:        "lose",
		StakeCents:      100,
		DeltaCents:      -100,
		NewBalanceCents: 900,
		TsUnixMs:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli(),
	}

	// primeira vez insere
	mock.ExpectExec(`INSERT INTO wager_history`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.InsertSettlement(context.Background(), e))

	// replay: ON CONFLICT engole, zero linhas afetadas, sem erro
	mock.ExpectExec(`INSERT INTO wager_history`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.InsertSettlement(context.Background(), e))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT round_id, game_type, player_choice, result, category`).
		WithArgs("acc-1", 20).
		WillReturnRows(sqlmock.NewRows([]string{
			"round_id", "game_type", "player_choice", "result", "category",
			"stake_cents", "delta_cents", "balance_after", "settled_at",
		}).AddRow("r2", "rock_paper_scissors", "rock", "scissors", "win", 100, 100, 1100, now).
			AddRow("r1", "wheel", "blue", "white", "lose", 100, -100, 1000, now.Add(-time.Minute)))

	got, err := repo.Recent(context.Background(), "acc-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].RoundID)
	assert.Equal(t, int64(100), got[0].DeltaCents)
}
