package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"agrovision/config"
	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/auth/password"
	userRepoImp "agrovision/pkg/user/repositoryImp"
)

const pass = "segredo123"

type harness struct {
	t   *testing.T
	srv *server
	db  *gorm.DB
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, nil)
}

func newHarnessWith(t *testing.T, tweak func(*config.AppConfig)) *harness {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.AppConfig{
		Env: "test", JWTSecret: "test-secret", JWTExpiration: time.Hour, JWTIssuer: "agrovision",
		BcryptCost: bcrypt.MinCost, CORSOrigins: []string{"*"},
		LoginRatePerMinute: 600, LoginRateBurst: 100,
	}
	if tweak != nil {
		tweak(&cfg)
	}

	hasher := password.NewHasher(bcrypt.MinCost)
	hash, err := hasher.Hash(pass)
	if err != nil {
		t.Fatal(err)
	}
	accounts := userRepoImp.New(db)
	for _, a := range []*entities.Account{
		{Name: "Admin", Email: "admin@agrovision.com", Role: entities.RoleAdmin, AccessScope: entities.ScopeGlobal},
		{Name: "Operador", Email: "op@agrovision.com", Role: entities.RoleOperator, AccessScope: entities.ScopeClient, ClientIDs: []string{"c1"}},
	} {
		a.PasswordHash, a.Status, a.Permissions = hash, entities.AccountActive, access.DefaultPermissions(a.Role)
		if err := accounts.Create(context.Background(), a); err != nil {
			t.Fatal(err)
		}
	}
	return &harness{t: t, srv: newServer(cfg, db, zerolog.New(io.Discard)), db: db}
}

func (h *harness) do(method, path, token, body string) *httptest.ResponseRecorder {
	h.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.srv.e.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(email string) string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/auth/login", "", `{"email":"`+email+`","senha":"`+pass+`"}`)
	if rec.Code != http.StatusOK {
		h.t.Fatalf("login %s = %d %s", email, rec.Code, rec.Body)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		h.t.Fatal(err)
	}
	return body.Token
}

func id(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.ID == "" {
		t.Fatalf("no id in %s", rec.Body)
	}
	return body.ID
}

func TestClientLifecycle(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin@agrovision.com")
	body := `{"nome":"Fazenda Boa Vista","email":"contato@boavista.com","cpfCnpj":"123.456.789-09"}`

	rec := h.do(http.MethodPost, "/api/clients", admin, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body)
	}
	clientID := id(t, rec)

	if rec := h.do(http.MethodPost, "/api/clients", admin, body); rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate create = %d, want 400", rec.Code)
	}
	if rec := h.do(http.MethodDelete, "/api/clients/"+clientID, admin, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d %s", rec.Code, rec.Body)
	}
	if rec := h.do(http.MethodDelete, "/api/clients/"+clientID, admin, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
	if rec := h.do(http.MethodGet, "/api/clients/"+clientID, admin, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted = %d, want 404", rec.Code)
	}
}

func TestClientScope(t *testing.T) {
	h := newHarness(t)
	op := h.login("op@agrovision.com")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/areas", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/areas", "xyz", http.StatusUnauthorized},
		{"own client", http.MethodGet, "/api/areas?clienteId=c1", op, http.StatusOK},
		{"other client", http.MethodGet, "/api/areas?clienteId=c2", op, http.StatusForbidden},
		{"other client crops", http.MethodGet, "/api/crops?clienteId=c2", op, http.StatusForbidden},
		{"register needs admin", http.MethodPost, "/api/auth/register", op, http.StatusForbidden},
		{"reports need global", http.MethodGet, "/api/reports", op, http.StatusForbidden},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := h.do(tt.method, tt.path, tt.token, ""); rec.Code != tt.want {
				t.Errorf("%s %s = %d, want %d (%s)", tt.method, tt.path, rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestLoginLockout(t *testing.T) {
	h := newHarness(t)
	wrong := `{"email":"op@agrovision.com","senha":"errada"}`
	for i := 0; i < 5; i++ {
		if rec := h.do(http.MethodPost, "/api/auth/login", "", wrong); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d", i+1, rec.Code)
		}
	}
	rec := h.do(http.MethodPost, "/api/auth/login", "", `{"email":"op@agrovision.com","senha":"`+pass+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login while locked = %d, want 401", rec.Code)
	}
}

func TestLossReportRoute(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin@agrovision.com")

	if rec := h.do(http.MethodGet, "/api/losses/report", admin, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("report without dates = %d, want 400", rec.Code)
	}
	rec := h.do(http.MethodGet, "/api/losses/report?dataInicio=2025-01-01&dataFim=2025-01-31", admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("report = %d %s", rec.Code, rec.Body)
	}
	var body struct {
		ValorTotal float64 `json:"valorTotal"`
		Quantidade int     `json:"quantidade"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Quantidade != 0 || body.ValorTotal != 0 {
		t.Errorf("empty report = %+v", body)
	}

	rec = h.do(http.MethodGet, "/api/losses/report/export?dataInicio=2025-01-01&dataFim=2025-01-31", admin, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Type"), "spreadsheetml") {
		t.Errorf("export = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestMovesKeepDescendantsInScope(t *testing.T) {
	h := newHarness(t)
	for _, c := range []*entities.Client{
		{Base: entities.Base{ID: "c1"}, Name: "Fazenda Um", Email: "um@fazenda.com"},
		{Base: entities.Base{ID: "c2"}, Name: "Fazenda Dois", Email: "dois@fazenda.com"},
	} {
		if err := h.db.Create(c).Error; err != nil {
			t.Fatal(err)
		}
	}
	admin := h.login("admin@agrovision.com")
	op := h.login("op@agrovision.com")

	mustCreate := func(path, body string) string {
		t.Helper()
		rec := h.do(http.MethodPost, path, admin, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("POST %s = %d %s", path, rec.Code, rec.Body)
		}
		return id(t, rec)
	}
	area := mustCreate("/api/areas", `{"clienteId":"c1","nome":"Talhão 3","tamanho":8,"tipo":"sequeiro"}`)
	crop := mustCreate("/api/crops", `{"areaId":"`+area+`","nome":"Soja","dataPlantio":"2025-01-10"}`)
	pest := mustCreate("/api/pests", `{"culturaId":"`+crop+`","nome":"Percevejo","tipo":"inseto","gravidade":"média","dataDeteccao":"2025-02-01"}`)
	loss := mustCreate("/api/losses", `{"culturaId":"`+crop+`","pragaId":"`+pest+`","tipo":"praga","descricao":"vagens chochas","quantidadeAfetada":3,"unidadeMedida":"sc","valorEstimado":450,"dataOcorrencia":"2025-02-10"}`)

	if rec := h.do(http.MethodGet, "/api/crops/"+crop, op, ""); rec.Code != http.StatusOK {
		t.Fatalf("op GET crop before move = %d", rec.Code)
	}
	if rec := h.do(http.MethodPut, "/api/areas/"+area, admin, `{"clienteId":"c2"}`); rec.Code != http.StatusOK {
		t.Fatalf("move area = %d %s", rec.Code, rec.Body)
	}

	stale := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/crops/" + crop, ""},
		{http.MethodPut, "/api/crops/" + crop, `{"nome":"Soja RR"}`},
		{http.MethodGet, "/api/pests/" + pest, ""},
		{http.MethodGet, "/api/losses/" + loss, ""},
	}
	for _, s := range stale {
		if rec := h.do(s.method, s.path, op, s.body); rec.Code != http.StatusForbidden {
			t.Errorf("old client %s %s = %d, want 403", s.method, s.path, rec.Code)
		}
	}
	for _, path := range []string{"/api/crops?clienteId=c2", "/api/pests", "/api/losses"} {
		rec := h.do(http.MethodGet, path, admin, "")
		var page struct {
			Data []struct {
				ClientID string `json:"clienteId"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil || len(page.Data) != 1 || page.Data[0].ClientID != "c2" {
			t.Errorf("admin GET %s = %d %s", path, rec.Code, rec.Body)
		}
	}

	// a pest cited by a loss stays on its crop
	other := mustCreate("/api/crops", `{"areaId":"`+area+`","nome":"Milho","dataPlantio":"2025-03-01"}`)
	if rec := h.do(http.MethodPut, "/api/pests/"+pest, admin, `{"culturaId":"`+other+`"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("move cited pest = %d, want 400", rec.Code)
	}
	if rec := h.do(http.MethodPut, "/api/losses/"+loss, admin, `{"descricao":"vagens chochas e grãos ardidos"}`); rec.Code != http.StatusOK {
		t.Errorf("edit loss after rejected move = %d %s", rec.Code, rec.Body)
	}
}

func TestCORSCredentials(t *testing.T) {
	tests := []struct {
		name      string
		origins   []string
		origin    string
		wantAllow string
		wantCreds string
	}{
		{"wildcard", []string{"*"}, "http://app.test", "*", ""},
		{"listed origin", []string{"http://app.test"}, "http://app.test", "http://app.test", "true"},
		{"unlisted origin", []string{"http://app.test"}, "http://evil.test", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarnessWith(t, func(c *config.AppConfig) { c.CORSOrigins = tt.origins })
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set(echo.HeaderOrigin, tt.origin)
			rec := httptest.NewRecorder()
			h.srv.e.ServeHTTP(rec, req)
			if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != tt.wantAllow {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
			if got := rec.Header().Get(echo.HeaderAccessControlAllowCredentials); got != tt.wantCreds {
				t.Errorf("Allow-Credentials = %q, want %q", got, tt.wantCreds)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin@agrovision.com")
	huge := `{"nome":"` + strings.Repeat("x", 3<<20) + `"}`
	if rec := h.do(http.MethodPost, "/api/clients", admin, huge); rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body = %d, want 413", rec.Code)
	}
}

func TestShutdownDrainsJobsFirst(t *testing.T) {
	h := newHarness(t)
	jobs := cron.New()
	started, release := make(chan struct{}), make(chan struct{})
	var once sync.Once
	var jobErr error
	jobs.Schedule(cron.Every(time.Second), cron.FuncJob(func() {
		once.Do(func() {
			close(started)
			<-release
			jobErr = h.db.Exec("SELECT 1").Error
		})
	}))
	jobs.Start()
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job never ran")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.srv.shutdown(ctx, jobs, h.db, zerolog.New(io.Discard))
	}()
	select {
	case <-done:
		t.Fatal("shutdown returned while a job was running")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	<-done

	if jobErr != nil {
		t.Errorf("job query error = %v, want the DB still open", jobErr)
	}
	if err := h.db.Exec("SELECT 1").Error; err == nil {
		t.Error("DB still open after shutdown")
	}
}
