package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/h2w/wager-platform/internal/ledger"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrPhoneTaken   = errors.New("phone already registered")
	ErrUserNotFound = errors.New("user not found")
)

// User é o registro de cadastro. O id do usuário é também o id da conta
// no ledger: uma conta por usuário, criada no registro.
type User struct {
	ID           string
	FullName     string
	Age          int
	Phone        string
	Email        string
	PasswordHash string
	Role         string
}

// Postgres implementa o diretório de contas em banco. A conta de saldo
// é criada pelo ledger, nunca por insert direto daqui.
type Postgres struct {
	db  *sql.DB
	led *ledger.Postgres
}

func NewPostgres(db *sql.DB, led *ledger.Postgres) *Postgres {
	return &Postgres{db: db, led: led}
}

// Create insere o usuário e a conta de saldo zerada na mesma transação.
func (p *Postgres) Create(ctx context.Context, u *User) error {
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = "user"
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, full_name, age, phone, email, password_hash, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.FullName, u.Age, u.Phone, u.Email, u.PasswordHash, u.Role); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "phone") {
				return ErrPhoneTaken
			}
			return ErrEmailTaken
		}
		return err
	}

	if err = p.led.CreateAccountTx(ctx, tx, u.ID); err != nil {
		return err
	}

	return tx.Commit()
}

// FindByEmail resolve o usuário para login. Email é sempre normalizado
// para minúsculas, igual no cadastro.
func (p *Postgres) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := p.db.QueryRowContext(ctx, `
		SELECT id, full_name, age, phone, email, password_hash, role
		FROM users WHERE email=$1`, strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.FullName, &u.Age, &u.Phone, &u.Email, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
