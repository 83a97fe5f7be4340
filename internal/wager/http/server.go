package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/h2w/wager-platform/internal/game"
	"github.com/h2w/wager-platform/internal/history"
	"github.com/h2w/wager-platform/internal/ledger"
	"github.com/h2w/wager-platform/internal/wager"
	"github.com/h2w/wager-platform/internal/wager/dto"
)

// Core define as operações do núcleo de apostas expostas pelo handler HTTP
type Core interface {
	PlaceBet(ctx context.Context, accountID string, gameType game.Type, stakeCents int64, choice, idempotencyToken string) (wager.Settlement, error)
	GetBalance(ctx context.Context, accountID string) (int64, int64, error)
	Deposit(ctx context.Context, accountID string, amountCents int64, idempotencyToken string) (int64, int64, error)
	Withdraw(ctx context.Context, accountID string, amountCents int64, idempotencyToken string) (int64, int64, error)
	Entries(ctx context.Context, accountID string, limit int) ([]ledger.Entry, error)
	RecentPlays(ctx context.Context, accountID string, limit int) ([]history.PlayRecord, error)
}

// Server expõe a API HTTP do wager-service
type Server struct {
	log  *zap.Logger
	core Core
}

func NewServer(log *zap.Logger, core Core) *Server { return &Server{log: log, core: core} }

// Router retorna o mux HTTP com as rotas da API, todas atrás do auth
func (s *Server) Router(jwtSecret string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wagers", s.placeWager)        // POST
	mux.HandleFunc("/wagers/history", s.history)   // GET
	mux.HandleFunc("/wallet", s.getWallet)         // GET
	mux.HandleFunc("/wallet/entries", s.entries)   // GET
	mux.HandleFunc("/wallet/deposit", s.deposit)   // POST
	mux.HandleFunc("/wallet/withdraw", s.withdraw) // POST
	return AuthMiddleware(jwtSecret, mux)
}

// placeWager processa uma aposta e devolve o recibo de liquidação
func (s *Server) placeWager(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.PlaceWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	st, err := s.core.PlaceBet(r.Context(), AccountID(r.Context()),
		game.Type(req.GameType), req.StakeCents, req.Choice, req.IdempotencyKey)
	if err != nil {
		s.writeCoreError(w, err)
		return
	}

	writeJSON(w, settlementResponse(st))
}

// getWallet devolve saldo e versão da conta autenticada
func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	accountID := AccountID(r.Context())
	bal, ver, err := s.core.GetBalance(r.Context(), accountID)
	if err != nil {
		s.writeCoreError(w, err)
		return
	}
	writeJSON(w, dto.BalanceResponse{AccountID: accountID, BalanceCents: bal, Version: ver})
}

// deposit credita a conta autenticada
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	accountID := AccountID(r.Context())
	bal, ver, err := s.core.Deposit(r.Context(), accountID, req.AmountCents, req.IdempotencyKey)
	if err != nil {
		s.writeCoreError(w, err)
		return
	}
	writeJSON(w, dto.BalanceResponse{AccountID: accountID, BalanceCents: bal, Version: ver})
}

// withdraw debita a conta autenticada
func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	accountID := AccountID(r.Context())
	bal, ver, err := s.core.Withdraw(r.Context(), accountID, req.AmountCents, req.IdempotencyKey)
	if err != nil {
		s.writeCoreError(w, err)
		return
	}
	writeJSON(w, dto.BalanceResponse{AccountID: accountID, BalanceCents: bal, Version: ver})
}

// entries devolve a trilha de auditoria do ledger da conta autenticada
func (s *Server) entries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	list, err := s.core.Entries(r.Context(), AccountID(r.Context()), limitParam(r))
	if err != nil {
		s.writeCoreError(w, err)
		return
	}
	out := make([]dto.LedgerEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.LedgerEntryResponse{
			DeltaCents:   e.DeltaCents,
			Reason:       e.Reason,
			BalanceCents: e.BalanceCents,
			Version:      e.Version,
			CreatedAt:    e.CreatedAt,
		})
	}
	writeJSON(w, out)
}

// history devolve as últimas rodadas liquidadas da conta autenticada
func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	plays, err := s.core.RecentPlays(r.Context(), AccountID(r.Context()), limitParam(r))
	if err != nil {
		s.writeCoreError(w, err)
		return
	}
	out := make([]dto.PlayRecordResponse, 0, len(plays))
	for _, p := range plays {
		out = append(out, dto.PlayRecordResponse{
			RoundID:      p.RoundID,
			GameType:     p.GameType,
			Choice:       p.PlayerChoice,
			Result:       p.Result,
			Category:     p.Category,
			StakeCents:   p.StakeCents,
			DeltaCents:   p.DeltaCents,
			BalanceAfter: p.BalanceAfter,
			SettledAt:    p.SettledAt,
		})
	}
	writeJSON(w, out)
}

// limitParam lê ?limit= quando presente; limites default ficam no core
func limitParam(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return n
}

// writeCoreError traduz a taxonomia de erros do core para status HTTP
func (s *Server) writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wager.ErrInvalidStake),
		errors.Is(err, wager.ErrInvalidAmount),
		errors.Is(err, wager.ErrMissingToken),
		errors.Is(err, game.ErrInvalidChoice),
		errors.Is(err, game.ErrUnsupportedGame):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrUnknownAccount):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, wager.ErrTokenReused):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, wager.ErrTransient):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.log.Error("unhandled core error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func settlementResponse(st wager.Settlement) dto.SettlementResponse {
	return dto.SettlementResponse{
		RoundID:      st.RoundID,
		GameType:     string(st.GameType),
		Choice:       st.PlayerChoice,
		Result:       st.Result,
		Category:     string(st.Category),
		Multiplier:   st.Multiplier,
		StakeCents:   st.StakeCents,
		DeltaCents:   st.DeltaCents,
		BalanceCents: st.BalanceCents,
		Version:      st.Version,
		DrawNonce:    st.DrawNonce,
		SeedHash:     st.SeedHash,
		DrawProof:    st.DrawProof,
		DrawnAt:      st.DrawnAt,
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: msg})
}
