package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/auth/password"
	"agrovision/pkg/user/repositoryImp"
)

func TestBootstrap(t *testing.T) {
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repositoryImp.New(db)
	hasher := password.NewHasher(bcrypt.MinCost)
	opts := options{Email: defaultEmail, Name: defaultName, Password: defaultPassword}

	var out bytes.Buffer
	if err := bootstrap(ctx, repo, hasher, opts, &out); err != nil {
		t.Fatalf("bootstrap() error = %v", err)
	}
	a, err := repo.FindGlobalAdmin(ctx)
	if err != nil {
		t.Fatalf("FindGlobalAdmin() error = %v", err)
	}
	if a.Email != defaultEmail || !a.Permissions.Reports.Export {
		t.Errorf("admin = %+v", a)
	}

	// second run is a no-op
	if err := bootstrap(ctx, repo, hasher, opts, &out); err != nil {
		t.Fatal(err)
	}
	var n int64
	db.Model(&entities.Account{}).Count(&n)
	if n != 1 {
		t.Errorf("accounts = %d, want 1", n)
	}

	// reset clears the lockout and installs the new password
	if err := repo.Lock(ctx, a.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	opts.Reset, opts.Password = true, "nova-senha-1"
	if err := bootstrap(ctx, repo, hasher, opts, &out); err != nil {
		t.Fatalf("reset error = %v", err)
	}
	a, _ = repo.FindByID(ctx, a.ID)
	if a.LockedUntil != nil || a.FailedLogins != 0 {
		t.Errorf("after reset LockedUntil = %v FailedLogins = %d", a.LockedUntil, a.FailedLogins)
	}
	if ok, _ := hasher.Check(a.PasswordHash, "nova-senha-1"); !ok {
		t.Error("new password does not match")
	}

	opts.Email = "ninguem@agrovision.com"
	if err := bootstrap(ctx, repo, hasher, opts, &out); err == nil {
		t.Error("reset of unknown email succeeded")
	}
}
