package serviceImp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"agrovision/entities"
	"agrovision/pkg/apperr"
	"agrovision/pkg/auth/password"
	"agrovision/pkg/auth/service"
	"agrovision/pkg/auth/token"
	userRepo "agrovision/pkg/user/repository"
)

type authSvc struct {
	accounts userRepo.AccountRepository
	hasher   password.Hasher
	tokens   *token.Manager
	log      zerolog.Logger
	now      func() time.Time
}

type Option func(*authSvc)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *authSvc) { s.now = now } }

func New(accounts userRepo.AccountRepository, hasher password.Hasher, tokens *token.Manager, log zerolog.Logger, opts ...Option) service.AuthService {
	s := &authSvc{accounts: accounts, hasher: hasher, tokens: tokens, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *authSvc) TokenLifetime() time.Duration { return s.tokens.Expiration() }

func (s *authSvc) Login(ctx context.Context, email, plain string) (*service.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		return nil, apperr.Validation(service.MsgMissingCredentials)
	}

	a, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Warn().Str("email", email).Msg("login: unknown email")
		return nil, apperr.Unauthenticated(service.MsgInvalidCredentials)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := s.now()
	if a.IsLocked(now) {
		s.log.Warn().Str("account_id", a.ID).Time("locked_until", *a.LockedUntil).Msg("login: account locked")
		return nil, apperr.Unauthenticated(service.MsgAccountLocked)
	}
	if a.LockedUntil != nil {
		// lock window elapsed: start counting again
		if err := s.accounts.ResetLoginFailures(ctx, a.ID); err != nil {
			return nil, apperr.Internal(err)
		}
		a.FailedLogins, a.LockedUntil = 0, nil
	}
	if a.Status != entities.AccountActive {
		s.log.Warn().Str("account_id", a.ID).Str("status", string(a.Status)).Msg("login: account not active")
		return nil, apperr.Unauthenticated(service.MsgAccountInactive)
	}

	ok, err := s.hasher.Check(a.PasswordHash, plain)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		attempts, err := s.accounts.RecordFailedLogin(ctx, a.ID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if attempts >= service.MaxFailedLogins {
			until := now.Add(service.LockDuration)
			if err := s.accounts.Lock(ctx, a.ID, until); err != nil {
				return nil, apperr.Internal(err)
			}
			s.log.Warn().Str("account_id", a.ID).Int("attempts", attempts).Time("locked_until", until).
				Msg("login: account locked after failed attempts")
		} else {
			s.log.Warn().Str("account_id", a.ID).Int("attempts", attempts).Msg("login: wrong password")
		}
		return nil, apperr.Unauthenticated(service.MsgInvalidCredentials)
	}

	if err := s.accounts.RecordLogin(ctx, a.ID, now); err != nil {
		return nil, apperr.Internal(err)
	}
	a.FailedLogins, a.LockedUntil, a.LastLoginAt = 0, nil, &now

	raw, exp, err := s.tokens.Issue(a)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info().Str("account_id", a.ID).Str("role", string(a.Role)).Msg("login: success")
	return &service.LoginResult{Account: a, Token: raw, ExpiresAt: exp}, nil
}

func (s *authSvc) Authenticate(ctx context.Context, raw string) (*entities.Account, error) {
	if raw == "" {
		return nil, apperr.Unauthenticated(service.MsgTokenMissing)
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, apperr.Unauthenticated(service.MsgTokenInvalid)
	}
	a, err := s.accounts.FindByID(ctx, claims.AccountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthenticated(service.MsgTokenInvalid)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if a.Status != entities.AccountActive {
		return nil, apperr.Unauthenticated(service.MsgAccountInactive)
	}
	return a, nil
}
