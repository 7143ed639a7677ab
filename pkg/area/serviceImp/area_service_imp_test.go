package serviceImp

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/area/repository"
	"agrovision/pkg/area/repositoryImp"
	"agrovision/pkg/area/service"
	"agrovision/pkg/pagination"
)

type anyClient struct{}

func (anyClient) Exists(context.Context, string) error { return nil }

func setup(t *testing.T) service.AreaService {
	t.Helper()
	s, _ := setupDB(t)
	return s
}

func setupDB(t *testing.T) (service.AreaService, *gorm.DB) {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	return NewAreaService(repositoryImp.New(db), anyClient{}), db
}

func caller(role entities.Role, scope entities.AccessScope, clients ...string) access.Principal {
	return access.Principal{AccountID: "x", Role: role, Scope: scope, ClientIDs: clients, Permissions: access.DefaultPermissions(role)}
}

func TestCreateAndValidate(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	op := caller(entities.RoleOperator, entities.ScopeClient, "c1")

	plant, harvest := "2025-03-01", "2025-01-01"
	tests := []struct {
		name string
		in   service.CreateInput
		want apperr.Kind
	}{
		{"ok", service.CreateInput{ClientID: "c1", Name: "Talhão 1", SizeHa: 12.5, Type: entities.AreaIrrigated}, ""},
		{"zero size", service.CreateInput{ClientID: "c1", Name: "T", Type: entities.AreaRainfed}, apperr.KindValidation},
		{"harvest before planting", service.CreateInput{ClientID: "c1", Name: "T", SizeHa: 1, Type: entities.AreaRainfed,
			PlantingDate: &plant, ExpectedHarvest: &harvest}, apperr.KindValidation},
		{"other client", service.CreateInput{ClientID: "c2", Name: "T", SizeHa: 1, Type: entities.AreaRainfed}, apperr.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := s.Create(ctx, op, tt.in)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Create() error = %v", err)
				}
				got, err := s.Get(ctx, op, a.ID)
				if err != nil || got.Name != tt.in.Name || got.ClientID != "c1" {
					t.Errorf("Get() = %+v, %v", got, err)
				}
				return
			}
			if !apperr.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestListScope(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	admin := caller(entities.RoleAdmin, entities.ScopeGlobal)
	for _, c := range []string{"c1", "c1", "c2"} {
		if _, err := s.Create(ctx, admin, service.CreateInput{ClientID: c, Name: "T-" + c, SizeHa: 1, Type: entities.AreaRainfed}); err != nil {
			t.Fatal(err)
		}
	}
	p, _ := pagination.Parse(nil, pagination.Sortable{"nome": "name"}, "nome")

	viewer := caller(entities.RoleViewer, entities.ScopeClient, "c1")
	page, err := s.List(ctx, viewer, repository.Filter{}, p)
	if err != nil {
		t.Fatal(err)
	}
	if page.Pagination.Total != 2 {
		t.Errorf("client-scoped total = %d, want 2", page.Pagination.Total)
	}
	if _, err := s.List(ctx, viewer, repository.Filter{ClientID: "c2"}, p); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("List(clienteId=c2) error = %v, want forbidden", err)
	}

	global := caller(entities.RoleViewer, entities.ScopeGlobal)
	page, err = s.List(ctx, global, repository.Filter{ClientID: "c2"}, p)
	if err != nil || page.Pagination.Total != 1 {
		t.Errorf("global List(c2) = %d, %v", page.Pagination.Total, err)
	}

	// viewers can not write
	if _, err := s.Create(ctx, viewer, service.CreateInput{ClientID: "c1", Name: "T", SizeHa: 1, Type: entities.AreaRainfed}); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("viewer Create() error = %v", err)
	}
}

func TestMoveCarriesDescendants(t *testing.T) {
	s, db := setupDB(t)
	ctx := context.Background()
	admin := caller(entities.RoleAdmin, entities.ScopeGlobal)
	a, err := s.Create(ctx, admin, service.CreateInput{ClientID: "c1", Name: "Talhão", SizeHa: 3, Type: entities.AreaRainfed})
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	crop := &entities.Crop{AreaID: a.ID, ClientID: "c1", Name: "Soja", PlantingDate: now, Stage: entities.StagePlanted}
	harvested := &entities.Crop{AreaID: a.ID, ClientID: "c1", Name: "Milho", PlantingDate: now, Stage: entities.StageHarvested}
	for _, c := range []*entities.Crop{crop, harvested} {
		if err := db.Create(c).Error; err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Delete(harvested).Error; err != nil {
		t.Fatal(err)
	}
	pest := &entities.Pest{CropID: crop.ID, ClientID: "c1", Name: "Ferrugem", Type: entities.PestFungus,
		Severity: entities.SeverityHigh, DetectedAt: now}
	if err := db.Create(pest).Error; err != nil {
		t.Fatal(err)
	}
	loss := &entities.Loss{CropID: crop.ID, ClientID: "c1", Type: entities.LossWeather, Description: "granizo", OccurredAt: now}
	if err := db.Create(loss).Error; err != nil {
		t.Fatal(err)
	}
	other, err := s.Create(ctx, admin, service.CreateInput{ClientID: "c1", Name: "Vizinho", SizeHa: 1, Type: entities.AreaRainfed})
	if err != nil {
		t.Fatal(err)
	}
	untouched := &entities.Crop{AreaID: other.ID, ClientID: "c1", Name: "Café", PlantingDate: now, Stage: entities.StagePlanted}
	if err := db.Create(untouched).Error; err != nil {
		t.Fatal(err)
	}

	to := "c2"
	if _, err := s.Update(ctx, admin, a.ID, service.UpdateInput{ClientID: &to}); err != nil {
		t.Fatal(err)
	}

	clientOf := func(model any, id string) string {
		t.Helper()
		var got string
		if err := db.Unscoped().Model(model).Where("id = ?", id).Pluck("client_id", &got).Error; err != nil {
			t.Fatal(err)
		}
		return got
	}
	tests := []struct {
		name  string
		model any
		id    string
		want  string
	}{
		{"crop", &entities.Crop{}, crop.ID, "c2"},
		{"deleted crop", &entities.Crop{}, harvested.ID, "c2"},
		{"pest", &entities.Pest{}, pest.ID, "c2"},
		{"loss", &entities.Loss{}, loss.ID, "c2"},
		{"crop of another area", &entities.Crop{}, untouched.ID, "c1"},
	}
	for _, tt := range tests {
		if got := clientOf(tt.model, tt.id); got != tt.want {
			t.Errorf("%s client = %q, want %q", tt.name, got, tt.want)
		}
	}
}
