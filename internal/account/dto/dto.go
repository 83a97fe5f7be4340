package dto

// Regras de cadastro herdadas do produto: maior de 20 anos, telefone
// começando em 0 com 10 dígitos, confirmação de senha obrigatória.
type RegisterRequest struct {
	FullName        string `json:"full_name" validate:"required,max=120"`
	Age             int    `json:"age" validate:"required,gte=20"`
	Phone           string `json:"phone" validate:"required,startswith=0,len=10,numeric"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Agree           bool   `json:"agree" validate:"eq=true"`
}

type RegisterResponse struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"accountId"`
	Role      string `json:"role"`
}
