package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Postgres implementa o ledger de saldo em banco.
// É a única autoridade sobre balance_cents: toda mutação passa por aqui,
// dentro de uma transação com lock pessimista na linha da conta.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownAccount    = errors.New("unknown account")
	ErrInvalidReason     = errors.New("invalid ledger reason")
)

var validReasons = map[string]bool{
	ReasonWagerWin:   true,
	ReasonWagerLoss:  true,
	ReasonWagerTie:   true,
	ReasonDeposit:    true,
	ReasonWithdrawal: true,
}

// CreateAccountTx cria a conta com saldo zero dentro da transação do
// chamador. O cadastro grava usuário e conta no mesmo commit, mas a
// linha de accounts continua sendo criada só por aqui. Idempotente por PK.
func (p *Postgres) CreateAccountTx(ctx context.Context, tx *sql.Tx, accountID string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO accounts(id, balance_cents, version) VALUES($1, 0, 1)
		 ON CONFLICT (id) DO NOTHING`, accountID)
	return err
}

// GetBalance retorna saldo e versão atuais da conta.
func (p *Postgres) GetBalance(ctx context.Context, accountID string) (balanceCents int64, version int64, err error) {
	err = p.db.QueryRowContext(ctx,
		`SELECT balance_cents, version FROM accounts WHERE id=$1`, accountID).
		Scan(&balanceCents, &version)
	if err == sql.ErrNoRows {
		return 0, 0, ErrUnknownAccount
	}
	return balanceCents, version, err
}

// ApplyDelta aplica um delta ao saldo e grava a entrada de auditoria,
// tudo em uma única transação.
//
// Idempotência: se já existe entrada com o mesmo token para a conta, o
// resultado gravado é devolvido sem reaplicar o delta. O lock FOR UPDATE
// serializa chamadas concorrentes na mesma conta; a UNIQUE em
// (account_id, idempotency_token) é o backstop caso duas chamadas com o
// mesmo token entrem por conexões diferentes.
func (p *Postgres) ApplyDelta(ctx context.Context, accountID string, deltaCents int64, reason, idempotencyToken string) (Applied, error) {
	if !validReasons[reason] {
		return Applied{}, ErrInvalidReason
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Applied{}, err
	}
	defer tx.Rollback()

	applied, err := p.ApplyDeltaTx(ctx, tx, accountID, deltaCents, reason, idempotencyToken)
	if err != nil {
		return Applied{}, err
	}

	if err = tx.Commit(); err != nil {
		return Applied{}, err
	}
	return applied, nil
}

// ApplyDeltaTx é a variante que roda dentro de uma transação do chamador.
// Permite que o settle de uma aposta grave o snapshot da rodada e a
// mutação de saldo no mesmo commit: ou os dois entram, ou nenhum.
// O chamador é dono do commit/rollback.
func (p *Postgres) ApplyDeltaTx(ctx context.Context, tx *sql.Tx, accountID string, deltaCents int64, reason, idempotencyToken string) (Applied, error) {
	if !validReasons[reason] {
		return Applied{}, ErrInvalidReason
	}

	var balance, version int64
	err := tx.QueryRowContext(ctx,
		`SELECT balance_cents, version FROM accounts WHERE id=$1 FOR UPDATE`, accountID).
		Scan(&balance, &version)
	if err == sql.ErrNoRows {
		return Applied{}, ErrUnknownAccount
	} else if err != nil {
		return Applied{}, err
	}

	// Replay? Com o lock da conta em mãos, a leitura é consistente.
	var prevBalance, prevVersion int64
	err = tx.QueryRowContext(ctx,
		`SELECT balance_cents, version FROM ledger_entries WHERE account_id=$1 AND idempotency_token=$2`,
		accountID, idempotencyToken).Scan(&prevBalance, &prevVersion)
	if err == nil {
		return Applied{BalanceCents: prevBalance, Version: prevVersion, Replayed: true}, nil
	} else if err != sql.ErrNoRows {
		return Applied{}, err
	}

	newBalance := balance + deltaCents
	if newBalance < 0 {
		return Applied{}, ErrInsufficientFunds
	}
	newVersion := version + 1

	if _, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance_cents=$1, version=$2, updated_at=NOW() WHERE id=$3`,
		newBalance, newVersion, accountID); err != nil {
		return Applied{}, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_entries(account_id, delta_cents, reason, balance_cents, version, idempotency_token)
		 VALUES($1,$2,$3,$4,$5,$6)`,
		accountID, deltaCents, reason, newBalance, newVersion, idempotencyToken); err != nil {
		if isUniqueViolation(err) {
			// outra chamada com o mesmo token venceu a corrida;
			// devolve o que ela gravou
			return p.replayEntry(ctx, accountID, idempotencyToken)
		}
		return Applied{}, err
	}

	return Applied{BalanceCents: newBalance, Version: newVersion}, nil
}

// replayEntry lê fora de transação a entrada gravada pelo vencedor da corrida.
func (p *Postgres) replayEntry(ctx context.Context, accountID, token string) (Applied, error) {
	var balance, version int64
	err := p.db.QueryRowContext(ctx,
		`SELECT balance_cents, version FROM ledger_entries WHERE account_id=$1 AND idempotency_token=$2`,
		accountID, token).Scan(&balance, &version)
	if err != nil {
		return Applied{}, err
	}
	return Applied{BalanceCents: balance, Version: version, Replayed: true}, nil
}

// Entries lista a trilha de auditoria da conta, mais recente primeiro.
func (p *Postgres) Entries(ctx context.Context, accountID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, account_id, delta_cents, reason, balance_cents, version, idempotency_token, created_at
		 FROM ledger_entries WHERE account_id=$1 ORDER BY id DESC LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.DeltaCents, &e.Reason, &e.BalanceCents,
			&e.Version, &e.IdempotencyToken, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
