package wager

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/h2w/wager-platform/internal/game"
	"github.com/h2w/wager-platform/internal/history"
	"github.com/h2w/wager-platform/internal/ledger"
	"github.com/h2w/wager-platform/internal/shared/metrics"
	"github.com/h2w/wager-platform/pkg/contracts/events"
)

// Ledger é o contrato mínimo do ledger de saldo usado pelo serviço.
type Ledger interface {
	GetBalance(ctx context.Context, accountID string) (balanceCents int64, version int64, err error)
	ApplyDelta(ctx context.Context, accountID string, deltaCents int64, reason, idempotencyToken string) (ledger.Applied, error)
	Entries(ctx context.Context, accountID string, limit int) ([]ledger.Entry, error)
}

// Plays consulta o histórico materializado de rodadas liquidadas.
type Plays interface {
	Recent(ctx context.Context, accountID string, limit int) ([]history.PlayRecord, error)
}

// Rounds persiste e consulta rodadas liquidadas.
type Rounds interface {
	FindRound(ctx context.Context, accountID, token string) (*Round, error)
	SettleRound(ctx context.Context, r *Round) (ledger.Applied, error)
}

// Drawer sorteia resultados de jogo.
type Drawer interface {
	Draw(t game.Type) (game.Outcome, error)
}

// SettledPublisher emite o evento de liquidação para o barramento.
// Falha de publicação nunca derruba uma aposta já liquidada.
type SettledPublisher interface {
	PublishWagerSettled(ctx context.Context, e events.WagerSettled) error
}

// BalanceNotifier avisa os colaboradores (feed WebSocket) que o saldo mudou.
type BalanceNotifier interface {
	PublishBalanceChanged(ctx context.Context, e events.BalanceChanged) error
}

// Quantas vezes o settle tenta de novo sob contenção antes de devolver
// falha transitória. O token de idempotência torna o retry externo seguro.
const (
	settleAttempts = 3
	settleBackoff  = 50 * time.Millisecond
)

// Service orquestra uma aposta de ponta a ponta: valida, sorteia, avalia
// e aplica o delta no ledger como operação atômica e idempotente.
type Service struct {
	log    *zap.Logger
	ledger Ledger
	rounds Rounds
	drawer Drawer
	plays  Plays
	publ   SettledPublisher
	notif  BalanceNotifier
}

func NewService(log *zap.Logger, l Ledger, r Rounds, d Drawer, plays Plays, p SettledPublisher, n BalanceNotifier) *Service {
	return &Service{log: log, ledger: l, rounds: r, drawer: d, plays: plays, publ: p, notif: n}
}

// PlaceBet processa uma tentativa de aposta.
//
// Máquina de estados: Received -> Validated -> OutcomeDrawn -> Evaluated
// -> Settled, com Rejected como terminal alternativo. Replay do mesmo
// token curto-circuita direto para a Settlement original.
func (s *Service) PlaceBet(ctx context.Context, accountID string, gameType game.Type, stakeCents int64, choice, idempotencyToken string) (Settlement, error) {
	if idempotencyToken == "" {
		metrics.RejectionsTotal.WithLabelValues("missing_token").Inc()
		return Settlement{}, ErrMissingToken
	}

	// Replay curto-circuita antes de qualquer validação: token já
	// liquidado devolve a Settlement gravada, mesmo que o retry chegue
	// com o resto do payload mutilado.
	if prior, err := s.rounds.FindRound(ctx, accountID, idempotencyToken); err != nil {
		return Settlement{}, err
	} else if prior != nil {
		return settlementFromRound(prior), nil
	}

	// Received -> Validated
	if stakeCents <= 0 {
		metrics.RejectionsTotal.WithLabelValues("invalid_stake").Inc()
		return Settlement{}, ErrInvalidStake
	}
	if !game.Supported(gameType) {
		metrics.RejectionsTotal.WithLabelValues("unsupported_game").Inc()
		return Settlement{}, game.ErrUnsupportedGame
	}
	if !game.ValidChoice(gameType, choice) {
		metrics.RejectionsTotal.WithLabelValues("invalid_choice").Inc()
		return Settlement{}, game.ErrInvalidChoice
	}

	// Checagem de saldo antes do sorteio: aposta sem fundos é rejeitada
	// sem revelar resultado nenhum.
	balance, _, err := s.ledger.GetBalance(ctx, accountID)
	if err != nil {
		metrics.RejectionsTotal.WithLabelValues("unknown_account").Inc()
		return Settlement{}, err
	}
	if stakeCents > balance {
		metrics.RejectionsTotal.WithLabelValues("insufficient_funds").Inc()
		return Settlement{}, ledger.ErrInsufficientFunds
	}

	// Validated -> OutcomeDrawn (exatamente um sorteio por tentativa)
	outcome, err := s.drawer.Draw(gameType)
	if err != nil {
		return Settlement{}, err
	}

	// OutcomeDrawn -> Evaluated (função pura)
	terms, err := game.Evaluate(gameType, choice, outcome, stakeCents)
	if err != nil {
		return Settlement{}, err
	}

	round := &Round{
		ID:               uuid.NewString(),
		AccountID:        accountID,
		IdempotencyToken: idempotencyToken,
		GameType:         gameType,
		PlayerChoice:     choice,
		Result:           outcome.Result,
		Category:         terms.Category,
		Multiplier:       terms.Multiplier,
		StakeCents:       stakeCents,
		DeltaCents:       terms.DeltaCents,
		DrawNonce:        outcome.Nonce,
		SeedHash:         outcome.SeedHash,
		DrawProof:        outcome.Proof,
		DrawnAt:          outcome.DrawnAt,
	}

	// Evaluated -> Settled
	applied, err := s.settleWithRetry(ctx, round)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			// aposta concorrente drenou o saldo entre a validação e o
			// settle; o sorteio é descartado, nada foi mutado
			metrics.RejectionsTotal.WithLabelValues("insufficient_funds").Inc()
		}
		return Settlement{}, err
	}

	if applied.Replayed {
		// corrida de replay: outra requisição com o mesmo token liquidou
		// primeiro; a rodada dela é a resposta
		prior, ferr := s.rounds.FindRound(ctx, accountID, idempotencyToken)
		if ferr != nil {
			s.log.Error("settled replay without round snapshot",
				zap.String("accountId", accountID), zap.String("token", idempotencyToken), zap.Error(ferr))
			return Settlement{}, ErrTransient
		}
		if prior == nil {
			// entrada do ledger existe mas rodada não: o token foi
			// gasto por um depósito ou saque
			metrics.RejectionsTotal.WithLabelValues("token_reused").Inc()
			return Settlement{}, ErrTokenReused
		}
		return settlementFromRound(prior), nil
	}

	metrics.SettlementsTotal.WithLabelValues(string(round.GameType), string(round.Category)).Inc()
	s.publishSettled(ctx, round)

	return settlementFromRound(round), nil
}

// settleWithRetry chama SettleRound com backoff exponencial limitado.
// Erros de negócio não são retentados; só contenção/transitório.
func (s *Service) settleWithRetry(ctx context.Context, round *Round) (ledger.Applied, error) {
	var applied ledger.Applied
	var err error
	for attempt := 0; attempt < settleAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ledger.Applied{}, ctx.Err()
			case <-time.After(settleBackoff << (attempt - 1)):
			}
		}
		applied, err = s.rounds.SettleRound(ctx, round)
		if err == nil {
			return applied, nil
		}
		if errors.Is(err, ledger.ErrInsufficientFunds) || errors.Is(err, ledger.ErrUnknownAccount) {
			return ledger.Applied{}, err
		}
		s.log.Warn("settle retry", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	s.log.Error("settle attempts exhausted", zap.String("roundId", round.ID), zap.Error(err))
	return ledger.Applied{}, ErrTransient
}

// GetBalance retorna saldo e versão atuais.
func (s *Service) GetBalance(ctx context.Context, accountID string) (balanceCents int64, version int64, err error) {
	return s.ledger.GetBalance(ctx, accountID)
}

// Entries devolve a trilha de auditoria do ledger, mais recente primeiro.
func (s *Service) Entries(ctx context.Context, accountID string, limit int) ([]ledger.Entry, error) {
	return s.ledger.Entries(ctx, accountID, limit)
}

// RecentPlays devolve as últimas rodadas liquidadas da conta.
func (s *Service) RecentPlays(ctx context.Context, accountID string, limit int) ([]history.PlayRecord, error) {
	return s.plays.Recent(ctx, accountID, limit)
}

// Deposit credita a conta. Token vazio ganha um uuid: o depósito ainda é
// idempotente para quem mandou o token, e auditável sempre.
func (s *Service) Deposit(ctx context.Context, accountID string, amountCents int64, idempotencyToken string) (int64, int64, error) {
	if amountCents <= 0 {
		return 0, 0, ErrInvalidAmount
	}
	if idempotencyToken == "" {
		idempotencyToken = uuid.NewString()
	}
	applied, err := s.ledger.ApplyDelta(ctx, accountID, amountCents, ledger.ReasonDeposit, idempotencyToken)
	if err != nil {
		return 0, 0, err
	}
	if !applied.Replayed {
		s.publishBalance(ctx, accountID, applied, ledger.ReasonDeposit)
	}
	return applied.BalanceCents, applied.Version, nil
}

// Withdraw debita a conta, falhando com InsufficientFunds quando o saldo
// não cobre o valor.
func (s *Service) Withdraw(ctx context.Context, accountID string, amountCents int64, idempotencyToken string) (int64, int64, error) {
	if amountCents <= 0 {
		return 0, 0, ErrInvalidAmount
	}
	if idempotencyToken == "" {
		idempotencyToken = uuid.NewString()
	}
	applied, err := s.ledger.ApplyDelta(ctx, accountID, -amountCents, ledger.ReasonWithdrawal, idempotencyToken)
	if err != nil {
		return 0, 0, err
	}
	if !applied.Replayed {
		s.publishBalance(ctx, accountID, applied, ledger.ReasonWithdrawal)
	}
	return applied.BalanceCents, applied.Version, nil
}

func (s *Service) publishSettled(ctx context.Context, r *Round) {
	if s.publ == nil {
		s.publishBalance(ctx, r.AccountID,
			ledger.Applied{BalanceCents: r.BalanceCents, Version: r.Version},
			reasonForCategory(r.Category))
		return
	}
	e := events.WagerSettled{
		RoundID:         r.ID,
		AccountID:       r.AccountID,
		GameType:        string(r.GameType),
		PlayerChoice:    r.PlayerChoice,
		Result:          r.Result,
		Category:        string(r.Category),
		StakeCents:      r.StakeCents,
		DeltaCents:      r.DeltaCents,
		NewBalanceCents: r.BalanceCents,
		NewVersion:      r.Version,
		IdempotencyKey:  r.IdempotencyToken,
		DrawNonce:       r.DrawNonce,
		SeedHash:        r.SeedHash,
		DrawProof:       r.DrawProof,
		TsUnixMs:        time.Now().UnixMilli(),
	}
	if err := s.publ.PublishWagerSettled(ctx, e); err != nil {
		s.log.Warn("publish wager_settled", zap.String("roundId", r.ID), zap.Error(err))
	}
	s.publishBalance(ctx, r.AccountID,
		ledger.Applied{BalanceCents: r.BalanceCents, Version: r.Version},
		reasonForCategory(r.Category))
}

func (s *Service) publishBalance(ctx context.Context, accountID string, applied ledger.Applied, reason string) {
	if s.notif == nil {
		return
	}
	e := events.BalanceChanged{
		AccountID:    accountID,
		BalanceCents: applied.BalanceCents,
		Version:      applied.Version,
		Reason:       reason,
		Ts:           time.Now().UTC(),
	}
	if err := s.notif.PublishBalanceChanged(ctx, e); err != nil {
		s.log.Warn("publish balance_changed", zap.String("accountId", accountID), zap.Error(err))
	}
}

func reasonForCategory(c game.Category) string {
	switch c {
	case game.Win:
		return ledger.ReasonWagerWin
	case game.Tie:
		return ledger.ReasonWagerTie
	default:
		return ledger.ReasonWagerLoss
	}
}
