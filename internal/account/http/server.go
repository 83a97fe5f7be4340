package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/h2w/wager-platform/internal/account/auth"
	"github.com/h2w/wager-platform/internal/account/dto"
	"github.com/h2w/wager-platform/internal/account/repo"
)

// Directory define as operações de cadastro usadas pelo handler HTTP
type Directory interface {
	Create(ctx context.Context, u *repo.User) error
	FindByEmail(ctx context.Context, email string) (*repo.User, error)
}

// Server expõe registro e login. Emite o JWT que o wager-service aceita.
type Server struct {
	log       *zap.Logger
	dir       Directory
	jwtSecret string
	validate  *validator.Validate
}

func NewServer(log *zap.Logger, dir Directory, jwtSecret string) *Server {
	return &Server{log: log, dir: dir, jwtSecret: jwtSecret, validate: validator.New()}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", s.register) // POST
	mux.HandleFunc("/auth/login", s.login)       // POST
	return mux
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	u := &repo.User{
		FullName:     req.FullName,
		Age:          req.Age,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.dir.Create(r.Context(), u); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) || errors.Is(err, repo.ErrPhoneTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		s.log.Error("create user", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, dto.RegisterResponse{AccountID: u.ID, Email: u.Email, FullName: u.FullName})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := s.dir.FindByEmail(r.Context(), req.Email)
	if err != nil {
		// mesma resposta para conta inexistente e senha errada
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.NewToken(u.ID, u.Role, s.jwtSecret)
	if err != nil {
		s.log.Error("issue token", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, dto.LoginResponse{Token: token, AccountID: u.ID, Role: u.Role})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
