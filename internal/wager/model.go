package wager

import (
	"time"

	"github.com/h2w/wager-platform/internal/game"
)

// Round é o snapshot persistido de uma aposta liquidada. O par
// (AccountID, IdempotencyToken) é único: replay do mesmo token devolve
// exatamente esta linha, nunca uma nova rodada.
type Round struct {
	ID               string
	AccountID        string
	IdempotencyToken string
	GameType         game.Type
	PlayerChoice     string
	Result           string
	Category         game.Category
	Multiplier       float64
	StakeCents       int64
	DeltaCents       int64
	BalanceCents     int64
	Version          int64
	DrawNonce        string
	SeedHash         string
	DrawProof        string
	DrawnAt          time.Time
	CreatedAt        time.Time
}

// Settlement é o recibo devolvido ao chamador de PlaceBet. Replay do
// mesmo token devolve um recibo idêntico byte a byte, montado do
// snapshot gravado.
type Settlement struct {
	RoundID      string
	AccountID    string
	GameType     game.Type
	PlayerChoice string
	Result       string
	Category     game.Category
	Multiplier   float64
	StakeCents   int64
	DeltaCents   int64
	BalanceCents int64
	Version      int64
	DrawNonce    string
	SeedHash     string
	DrawProof    string
	DrawnAt      time.Time
}

func settlementFromRound(r *Round) Settlement {
	return Settlement{
		RoundID:      r.ID,
		AccountID:    r.AccountID,
		GameType:     r.GameType,
		PlayerChoice: r.PlayerChoice,
		Result:       r.Result,
		Category:     r.Category,
		Multiplier:   r.Multiplier,
		StakeCents:   r.StakeCents,
		DeltaCents:   r.DeltaCents,
		BalanceCents: r.BalanceCents,
		Version:      r.Version,
		DrawNonce:    r.DrawNonce,
		SeedHash:     r.SeedHash,
		DrawProof:    r.DrawProof,
		DrawnAt:      r.DrawnAt,
	}
}
