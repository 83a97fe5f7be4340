package ledger

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccount = "3f1a2b4c-0000-0000-0000-000000000001"
	testToken   = "round-abc-123"
)

func TestApplyDelta(t *testing.T) {
	t.Run("credito aplicado com versao incrementada", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT balance_cents, version FROM accounts WHERE id=\$1 FOR UPDATE`).
			WithArgs(testAccount).
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents", "version"}).AddRow(5000, 3))
		mock.ExpectQuery(`SELECT balance_cents, version FROM ledger_entries`).
			WithArgs(testAccount, testToken).
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents", "version"}))
		mock.ExpectExec(`UPDATE accounts SET balance_cents=\$1, version=\$2`).
			WithArgs(int64(7000), int64(4), testAccount).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO ledger_entries`).
			WithArgs(testAccount, int64(2000), ReasonDeposit, int64(7000), int64(4), testToken).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		got, err := repo.ApplyDelta(context.Background(), testAccount, 2000, ReasonDeposit, testToken)
		require.NoError(t, err)
		assert.Equal(t, int64(7000), got.BalanceCents)
		assert.Equal(t, int64(4), got.Version)
		assert.False(t, got.Replayed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("debito maior que saldo falha sem escrever nada", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT balance_cents, version FROM accounts WHERE id=\$1 FOR UPDATE`).
			WithArgs(testAccount).
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents", "version"}).AddRow(3000, 1))
		mock.ExpectQuery(`SELECT balance_cents, version FROM ledger_entries`).
			WithArgs(testAccount, testToken).
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents", "version"}))
		mock.ExpectRollback()

		_, err = repo.ApplyDelta(context.Background(), testAccount, -5000, ReasonWagerLoss, testToken)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay do mesmo token devolve resultado gravado", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT balance_cents, version FROM accounts WHERE id=\$1 FOR UPDATE`).
			WithArgs(testAccount).
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents", "version"}).AddRow(7000, 4))
		mock.ExpectQuery(`SELECT balance_cents, version FROM ledger_entries`).
			WithArgs(testAccount, testToken).
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents", "version"}).AddRow(7000, 4))
		mock.ExpectRollback()

		got, err := repo.ApplyDelta(context.Background(), testAccount, 2000, ReasonDeposit, testToken)
		require.NoError(t, err)
		assert.True(t, got.Replayed)
		assert.Equal(t, int64(7000), got.BalanceCents)
		assert.Equal(t, int64(4), got.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conta inexistente", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT balance_cents, version FROM accounts WHERE id=\$1 FOR UPDATE`).
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents", "version"}))
		mock.ExpectRollback()

		_, err = repo.ApplyDelta(context.Background(), "nope", 100, ReasonDeposit, testToken)
		assert.ErrorIs(t, err, ErrUnknownAccount)
	})

	t.Run("motivo invalido nem abre transacao", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgres(db)

		_, err = repo.ApplyDelta(context.Background(), testAccount, 100, "bonus", testToken)
		assert.ErrorIs(t, err, ErrInvalidReason)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgres(db)

	mock.ExpectQuery(`SELECT balance_cents, version FROM accounts WHERE id=\$1`).
		WithArgs(testAccount).
		WillReturnRows(sqlmock.NewRows([]string{"balance_cents", "version"}).AddRow(1500, 9))

	bal, ver, err := repo.GetBalance(context.Background(), testAccount)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), bal)
	assert.Equal(t, int64(9), ver)

	mock.ExpectQuery(`SELECT balance_cents, version FROM accounts WHERE id=\$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"balance_cents", "version"}))

	_, _, err = repo.GetBalance(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUnknownAccount)
}
