package serviceImp

import (
	"context"
	"encoding/json"
	"slices"
	"testing"

	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/property/repositoryImp"
	"agrovision/pkg/property/service"
)

type knownClients []string

func (k knownClients) Exists(_ context.Context, id string) error {
	if slices.Contains(k, id) {
		return nil
	}
	return apperr.NotFound("Cliente não encontrado")
}

func newService(t *testing.T) service.PropertyService {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	return New(repositoryImp.New(db), knownClients{"c1", "c2"})
}

func operator(clients ...string) access.Principal {
	return access.Principal{
		AccountID: "op", Role: entities.RoleOperator, Scope: entities.ScopeClient,
		ClientIDs: clients, Permissions: access.DefaultPermissions(entities.RoleOperator),
	}
}

func validInput(client string) service.CreateInput {
	return service.CreateInput{
		ClientID: client, Name: "Sítio Boa Vista", UF: "mg", Municipality: "Uberaba",
		Geom: entities.Geometry{Type: "Polygon", Coordinates: json.RawMessage(
			`[[[-47,-22],[-46,-22],[-46,-21],[-47,-21],[-47,-22]]]`)},
	}
}

func TestCreateDefaults(t *testing.T) {
	s := newService(t)
	p, err := s.Create(context.Background(), operator("c1"), validInput("c1"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.UF != "MG" || p.Country != "BR" || p.SRID != 4326 || p.Status != entities.PropertyActive || p.Tenure != entities.TenureOwned {
		t.Errorf("defaults = %+v", p)
	}
	if p.Centroid == nil || p.Centroid.Coordinates != [2]float64{-46.5, -21.5} {
		t.Errorf("Centroid = %+v", p.Centroid)
	}
	if p.CreatedBy != "op" {
		t.Errorf("CreatedBy = %q", p.CreatedBy)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	end, start := "2024-01-01", "2025-01-01"

	tests := []struct {
		name   string
		mutate func(*service.CreateInput)
		want   apperr.Kind
	}{
		{"bad uf", func(in *service.CreateInput) { in.UF = "XX" }, apperr.KindValidation},
		{"bad geom", func(in *service.CreateInput) { in.Geom.Type = "Point" }, apperr.KindValidation},
		{"contract order", func(in *service.CreateInput) { in.ContractStart, in.ContractEnd = &start, &end }, apperr.KindValidation},
		{"leased without contract", func(in *service.CreateInput) { in.Tenure = entities.TenureLeased }, apperr.KindValidation},
		{"bad date", func(in *service.CreateInput) { bad := "31/12/2024"; in.OperationStart = &bad }, apperr.KindValidation},
		{"unknown client", func(in *service.CreateInput) { in.ClientID = "c9" }, apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput("c1")
			tt.mutate(&in)
			_, err := s.Create(ctx, operator("c1", "c9"), in)
			if !apperr.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestScope(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	p, err := s.Create(ctx, operator("c1"), validInput("c1"))
	if err != nil {
		t.Fatal(err)
	}
	outsider := operator("c2")
	if _, err := s.Get(ctx, outsider, p.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("Get() error = %v, want forbidden", err)
	}
	if _, err := s.Create(ctx, outsider, validInput("c1")); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("Create() error = %v, want forbidden", err)
	}

	// moving to another client needs scope on both
	to := "c2"
	if _, err := s.Update(ctx, operator("c1"), p.ID, service.UpdateInput{ClientID: &to}); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("Update(move) error = %v, want forbidden", err)
	}
	moved, err := s.Update(ctx, operator("c1", "c2"), p.ID, service.UpdateInput{ClientID: &to})
	if err != nil || moved.ClientID != "c2" {
		t.Fatalf("Update(move) = %v, %v", moved, err)
	}
}

func TestDeleteTwice(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	admin := access.Principal{AccountID: "adm", Role: entities.RoleAdmin, Scope: entities.ScopeGlobal}
	p, err := s.Create(ctx, admin, validInput("c1"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, admin, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, admin, p.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("second Delete() error = %v, want not found", err)
	}
}
