package serviceImp

import (
	"context"
	"io"
	"slices"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/auth/password"
	"agrovision/pkg/pagination"
	"agrovision/pkg/user/repository"
	"agrovision/pkg/user/repositoryImp"
	"agrovision/pkg/user/service"
)

type knownClients []string

func (k knownClients) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	var out []string
	for _, id := range ids {
		if slices.Contains(k, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

type userFixture struct {
	svc      service.UserService
	accounts repository.AccountRepository
	hasher   password.Hasher
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	repo := repositoryImp.New(db)
	hasher := password.NewHasher(bcrypt.MinCost)
	svc := New(repo, knownClients{"c1", "c2", "c3"}, hasher, zerolog.New(io.Discard))
	return &userFixture{svc: svc, accounts: repo, hasher: hasher}
}

// seed stores an account directly and returns it with its principal.
func (f *userFixture) seed(t *testing.T, email string, role entities.Role, scope entities.AccessScope, clients ...string) (*entities.Account, access.Principal) {
	t.Helper()
	hash, err := f.hasher.Hash("segredo1")
	if err != nil {
		t.Fatal(err)
	}
	a := &entities.Account{
		Name: email, Email: email, PasswordHash: hash, Role: role,
		Status: entities.AccountActive, AccessScope: scope, ClientIDs: clients,
		Permissions: access.DefaultPermissions(role),
	}
	if err := f.accounts.Create(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	return a, access.FromAccount(a)
}

func wantKind(t *testing.T, err error, k apperr.Kind) {
	t.Helper()
	if !apperr.Is(err, k) {
		t.Fatalf("error = %v, want %s", err, k)
	}
}

func TestCreateDefaults(t *testing.T) {
	f := newUserFixture(t)
	_, admin := f.seed(t, "root@x.com", entities.RoleAdmin, entities.ScopeGlobal)

	a, err := f.svc.Create(context.Background(), admin, service.CreateInput{
		Name: " Bia ", Email: "BIA@X.com", Password: "segredo1", ClientIDs: []string{"c1", "c1", ""},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.Role != entities.RoleViewer || a.Status != entities.AccountActive || a.AccessScope != entities.ScopeClient {
		t.Errorf("defaults = %s/%s/%s", a.Role, a.Status, a.AccessScope)
	}
	if a.Email != "bia@x.com" || a.Name != "Bia" {
		t.Errorf("normalized = %q %q", a.Email, a.Name)
	}
	if !slices.Equal(a.ClientIDs, []string{"c1"}) {
		t.Errorf("ClientIDs = %v", a.ClientIDs)
	}
	if a.Permissions != access.DefaultPermissions(entities.RoleViewer) {
		t.Errorf("Permissions = %+v", a.Permissions)
	}
	if a.CreatedBy == nil || *a.CreatedBy != admin.AccountID {
		t.Errorf("CreatedBy = %v", a.CreatedBy)
	}

	_, err = f.svc.Create(context.Background(), admin, service.CreateInput{Name: "B", Email: "bia@x.com", Password: "segredo1"})
	ae, ok := apperr.As(err)
	if !ok || ae.Status != 409 {
		t.Fatalf("duplicate email error = %v, want 409", err)
	}
}

func TestCreateRoleRules(t *testing.T) {
	f := newUserFixture(t)
	_, manager := f.seed(t, "ger@x.com", entities.RoleManager, entities.ScopeClient, "c1")
	// managers get users.create for this test
	manager.Permissions.Users.Create = true
	ctx := context.Background()

	tests := []struct {
		name  string
		in    service.CreateInput
		want  apperr.Kind
		clist []string
	}{
		{"operator ok", service.CreateInput{Name: "o", Email: "o@x.com", Password: "segredo1", Role: entities.RoleOperator, ClientIDs: []string{"c1"}}, "", []string{"c1"}},
		{"foreign client dropped", service.CreateInput{Name: "v", Email: "v@x.com", Password: "segredo1", ClientIDs: []string{"c1", "c2"}}, "", []string{"c1"}},
		{"manager role refused", service.CreateInput{Name: "m", Email: "m@x.com", Password: "segredo1", Role: entities.RoleManager}, apperr.KindForbidden, nil},
		{"admin role refused", service.CreateInput{Name: "a", Email: "a@x.com", Password: "segredo1", Role: entities.RoleAdmin}, apperr.KindForbidden, nil},
		{"global scope refused", service.CreateInput{Name: "g", Email: "g@x.com", Password: "segredo1", Scope: entities.ScopeGlobal}, apperr.KindForbidden, nil},
		{"short password", service.CreateInput{Name: "p", Email: "p@x.com", Password: "123"}, apperr.KindValidation, nil},
		{"permissions beyond own", service.CreateInput{Name: "q", Email: "q@x.com", Password: "segredo1",
			Permissions: &entities.Permissions{Users: entities.CRUDFlags{Delete: true}}}, apperr.KindForbidden, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := f.svc.Create(ctx, manager, tt.in)
			if tt.want != "" {
				wantKind(t, err, tt.want)
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if !slices.Equal(a.ClientIDs, tt.clist) {
				t.Errorf("ClientIDs = %v, want %v", a.ClientIDs, tt.clist)
			}
		})
	}
}

func TestCreateUnknownClient(t *testing.T) {
	f := newUserFixture(t)
	_, admin := f.seed(t, "root@x.com", entities.RoleAdmin, entities.ScopeGlobal)
	_, err := f.svc.Create(context.Background(), admin, service.CreateInput{
		Name: "x", Email: "x@x.com", Password: "segredo1", ClientIDs: []string{"c1", "nope"},
	})
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindValidation || !slices.Equal(ae.Details, []string{"nope"}) {
		t.Fatalf("error = %#v", err)
	}
}

func TestGetVisibility(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	_, manager := f.seed(t, "ger@x.com", entities.RoleManager, entities.ScopeClient, "c1")
	same, _ := f.seed(t, "op1@x.com", entities.RoleOperator, entities.ScopeClient, "c1", "c2")
	other, _ := f.seed(t, "op2@x.com", entities.RoleOperator, entities.ScopeClient, "c3")
	global, _ := f.seed(t, "glob@x.com", entities.RoleViewer, entities.ScopeGlobal)
	_, viewer := f.seed(t, "ver@x.com", entities.RoleViewer, entities.ScopeClient, "c1")

	if _, err := f.svc.Get(ctx, manager, same.ID); err != nil {
		t.Errorf("shared client: %v", err)
	}
	_, err := f.svc.Get(ctx, manager, other.ID)
	wantKind(t, err, apperr.KindForbidden)
	_, err = f.svc.Get(ctx, manager, global.ID)
	wantKind(t, err, apperr.KindForbidden)

	// viewers lack usuarios.visualizar but can always read themselves
	_, err = f.svc.Get(ctx, viewer, same.ID)
	wantKind(t, err, apperr.KindForbidden)
	if _, err := f.svc.Get(ctx, viewer, viewer.AccountID); err != nil {
		t.Errorf("self: %v", err)
	}

	_, err = f.svc.Get(ctx, manager, "missing")
	wantKind(t, err, apperr.KindNotFound)
}

func TestListRestrictsToCallerClients(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	_, manager := f.seed(t, "ger@x.com", entities.RoleManager, entities.ScopeClient, "c1")
	f.seed(t, "op1@x.com", entities.RoleOperator, entities.ScopeClient, "c1")
	f.seed(t, "op2@x.com", entities.RoleOperator, entities.ScopeClient, "c3")

	p, err := pagination.Parse(nil, pagination.Sortable{"dataCriacao": "created_at"}, "dataCriacao")
	if err != nil {
		t.Fatal(err)
	}
	page, err := f.svc.List(ctx, manager, repository.Filter{}, p)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, a := range page.Data {
		if !a.HasClient("c1") {
			t.Errorf("List() returned %s linked to %v", a.Email, a.ClientIDs)
		}
	}
	if page.Pagination.Total != 2 {
		t.Errorf("total = %d, want 2", page.Pagination.Total)
	}
}

func TestUpdateRules(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	root, admin := f.seed(t, "root@x.com", entities.RoleAdmin, entities.ScopeGlobal)
	other, _ := f.seed(t, "root2@x.com", entities.RoleAdmin, entities.ScopeGlobal)
	op, opP := f.seed(t, "op@x.com", entities.RoleOperator, entities.ScopeClient, "c1")

	name := "Novo Nome"
	if _, err := f.svc.Update(ctx, opP, op.ID, service.UpdateInput{Name: &name}); err != nil {
		t.Errorf("self name update: %v", err)
	}
	role := entities.RoleManager
	_, err := f.svc.Update(ctx, opP, op.ID, service.UpdateInput{Role: &role})
	wantKind(t, err, apperr.KindForbidden)

	status := entities.AccountInactive
	_, err = f.svc.Update(ctx, admin, root.ID, service.UpdateInput{Status: &status})
	wantKind(t, err, apperr.KindForbidden)

	// admins can not edit other admins
	_, err = f.svc.Update(ctx, admin, other.ID, service.UpdateInput{Name: &name})
	wantKind(t, err, apperr.KindForbidden)

	updated, err := f.svc.Update(ctx, admin, op.ID, service.UpdateInput{Role: &role, Status: &status})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Role != entities.RoleManager || updated.Status != entities.AccountInactive {
		t.Errorf("Update() = %s/%s", updated.Role, updated.Status)
	}

	taken := "ROOT@x.com"
	_, err = f.svc.Update(ctx, admin, op.ID, service.UpdateInput{Email: &taken})
	wantKind(t, err, apperr.KindConflict)
}

func TestDelete(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	_, admin := f.seed(t, "root@x.com", entities.RoleAdmin, entities.ScopeGlobal)
	op, _ := f.seed(t, "op@x.com", entities.RoleOperator, entities.ScopeClient, "c1")

	wantKind(t, f.svc.Delete(ctx, admin, admin.AccountID), apperr.KindValidation)

	if err := f.svc.Delete(ctx, admin, op.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	wantKind(t, f.svc.Delete(ctx, admin, op.ID), apperr.KindNotFound)

	// the row stays, soft-deleted
	if _, err := f.accounts.FindByIDIncludingDeleted(ctx, op.ID); err != nil {
		t.Errorf("FindByIDIncludingDeleted() error = %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	_, admin := f.seed(t, "root@x.com", entities.RoleAdmin, entities.ScopeGlobal)
	op, opP := f.seed(t, "op@x.com", entities.RoleOperator, entities.ScopeClient, "c1")

	wrong := "errada1"
	err := f.svc.ChangePassword(ctx, opP, op.ID, &wrong, "novasenha")
	wantKind(t, err, apperr.KindUnauthenticated)

	wantKind(t, f.svc.ChangePassword(ctx, opP, op.ID, nil, "novasenha"), apperr.KindValidation)

	current := "segredo1"
	if err := f.svc.ChangePassword(ctx, opP, op.ID, &current, "novasenha"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	// admins reset without the current password
	if err := f.svc.ChangePassword(ctx, admin, op.ID, nil, "outrasenha"); err != nil {
		t.Fatalf("admin reset error = %v", err)
	}
	a, _ := f.accounts.FindByID(ctx, op.ID)
	if ok, _ := f.hasher.Check(a.PasswordHash, "outrasenha"); !ok {
		t.Error("password was not replaced")
	}
}

func TestListByClient(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	_, manager := f.seed(t, "ger@x.com", entities.RoleManager, entities.ScopeClient, "c1")
	f.seed(t, "glob@x.com", entities.RoleViewer, entities.ScopeGlobal)
	f.seed(t, "op3@x.com", entities.RoleOperator, entities.ScopeClient, "c3")

	out, err := f.svc.ListByClient(ctx, manager, "c1")
	if err != nil {
		t.Fatalf("ListByClient() error = %v", err)
	}
	var emails []string
	for _, a := range out {
		emails = append(emails, a.Email)
	}
	slices.Sort(emails)
	if !slices.Equal(emails, []string{"ger@x.com", "glob@x.com"}) {
		t.Errorf("ListByClient() = %v", emails)
	}

	_, err = f.svc.ListByClient(ctx, manager, "c3")
	wantKind(t, err, apperr.KindForbidden)
}
