package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/auth/password"
	"agrovision/pkg/user/repository"
)

const (
	defaultEmail    = "admin@agrovision.com"
	defaultName     = "Administrador Sistema"
	defaultPassword = "admin123456"
)

type options struct {
	Email    string
	Name     string
	Password string
	Reset    bool
}

func bootstrap(ctx context.Context, accounts repository.AccountRepository, hasher password.Hasher, opts options, out io.Writer) error {
	opts.Email = strings.ToLower(strings.TrimSpace(opts.Email))
	if opts.Reset {
		return resetPassword(ctx, accounts, hasher, opts, out)
	}

	existing, err := accounts.FindGlobalAdmin(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(out, "a global administrator already exists: %s\n", existing.Email)
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	hash, err := hasher.Hash(opts.Password)
	if err != nil {
		return err
	}
	a := &entities.Account{
		Name:         opts.Name,
		Email:        opts.Email,
		PasswordHash: hash,
		Role:         entities.RoleAdmin,
		Status:       entities.AccountActive,
		AccessScope:  entities.ScopeGlobal,
		ClientIDs:    []string{},
		Permissions:  access.DefaultPermissions(entities.RoleAdmin),
	}
	if err := accounts.Create(ctx, a); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	fmt.Fprintf(out, "administrator created: %s\nchange the default password after the first login\n", a.Email)
	return nil
}

func resetPassword(ctx context.Context, accounts repository.AccountRepository, hasher password.Hasher, opts options, out io.Writer) error {
	a, err := accounts.FindByEmail(ctx, opts.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && a.Role != entities.RoleAdmin) {
		return fmt.Errorf("no administrator with email %s", opts.Email)
	}
	if err != nil {
		return err
	}
	hash, err := hasher.Hash(opts.Password)
	if err != nil {
		return err
	}
	if err := accounts.UpdatePassword(ctx, a.ID, hash); err != nil {
		return err
	}
	if err := accounts.ResetLoginFailures(ctx, a.ID); err != nil {
		return err
	}
	fmt.Fprintf(out, "password reset for %s\n", a.Email)
	return nil
}
