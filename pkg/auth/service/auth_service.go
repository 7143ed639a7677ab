package service

import (
	"context"
	"time"

	"agrovision/entities"
)

const (
	MaxFailedLogins = 5
	LockDuration    = 30 * time.Minute
)

// Messages returned with 401 by Login and Authenticate.
const (
	MsgMissingCredentials = "Email e senha são obrigatórios"
	MsgInvalidCredentials = "Credenciais inválidas"
	MsgAccountLocked      = "Conta temporariamente bloqueada por excesso de tentativas de login"
	MsgAccountInactive    = "Conta inativa ou suspensa"
	MsgTokenMissing       = "Token não fornecido"
	MsgTokenInvalid       = "Token inválido"
)

type LoginResult struct {
	Account   *entities.Account
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Authenticate verifies a raw token and returns the live account behind it.
	Authenticate(ctx context.Context, rawToken string) (*entities.Account, error)
	TokenLifetime() time.Duration
}
