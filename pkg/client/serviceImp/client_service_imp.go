package serviceImp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/client/repository"
	"agrovision/pkg/client/service"
	"agrovision/pkg/pagination"
)

const (
	msgNotFound    = "Cliente não encontrado"
	msgEmailInUse  = "Email já está em uso"
	msgDocumentUse = "CPF/CNPJ já está em uso"
)

type clientSvc struct {
	repo repository.ClientRepository
	log  zerolog.Logger
}

func New(repo repository.ClientRepository, log zerolog.Logger) service.ClientService {
	return &clientSvc{repo: repo, log: log}
}

func (s *clientSvc) List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Client], error) {
	if err := caller.Require(entities.ResourceClients, entities.ActionView); err != nil {
		return pagination.Page[entities.Client]{}, err
	}
	if err := caller.RequireAny(); err != nil {
		return pagination.Page[entities.Client]{}, err
	}
	f.IDs, f.Restricted = caller.ClientFilter()
	out, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return pagination.Page[entities.Client]{}, apperr.Internal(err)
	}
	return pagination.NewPage(out, p, total), nil
}

func (s *clientSvc) Get(ctx context.Context, caller access.Principal, id string) (*entities.Client, error) {
	if err := caller.Require(entities.ResourceClients, entities.ActionView); err != nil {
		return nil, err
	}
	if err := caller.RequireClient(id); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *clientSvc) Create(ctx context.Context, caller access.Principal, in service.CreateInput) (*entities.Client, error) {
	if err := caller.Require(entities.ResourceClients, entities.ActionCreate); err != nil {
		return nil, err
	}
	if !caller.IsGlobal() {
		return nil, apperr.Forbidden("Apenas usuários com acesso global podem cadastrar clientes")
	}
	c := &entities.Client{
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:          in.Phone,
		Address:        in.Address.Address(),
		ProductionType: in.ProductionType,
		TotalArea:      in.TotalArea,
		Status:         in.Status,
	}
	if c.Status == "" {
		c.Status = entities.ClientActive
	}
	doc, kind, err := normalizeDocument(in.TaxDocument, in.DocumentType)
	if err != nil {
		return nil, err
	}
	c.TaxDocument, c.DocumentType = doc, kind

	if err := s.ensureUnique(ctx, c.Email, c.TaxDocument, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, s.writeErr(err)
	}
	s.log.Info().Str("client_id", c.ID).Str("by", caller.AccountID).Msg("client created")
	return c, nil
}

func (s *clientSvc) Update(ctx context.Context, caller access.Principal, id string, in service.UpdateInput) (*entities.Client, error) {
	if err := caller.Require(entities.ResourceClients, entities.ActionEdit); err != nil {
		return nil, err
	}
	if err := caller.RequireClient(id); err != nil {
		return nil, err
	}
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	email := c.Email
	if in.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	doc, kind := c.TaxDocument, c.DocumentType
	if in.TaxDocument != nil || in.DocumentType != nil {
		raw, want := c.TaxDocument, entities.DocumentType("")
		if in.TaxDocument != nil {
			raw = *in.TaxDocument
		}
		if in.DocumentType != nil {
			want = *in.DocumentType
		}
		if doc, kind, err = normalizeDocument(raw, want); err != nil {
			return nil, err
		}
	}
	checkEmail, checkDoc := "", ""
	if email != c.Email {
		checkEmail = email
	}
	if doc != c.TaxDocument {
		checkDoc = doc
	}
	if err := s.ensureUnique(ctx, checkEmail, checkDoc, c.ID); err != nil {
		return nil, err
	}
	c.Email, c.TaxDocument, c.DocumentType = email, doc, kind

	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = in.Address.Address()
	}
	if in.ProductionType != nil {
		c.ProductionType = *in.ProductionType
	}
	if in.TotalArea != nil {
		c.TotalArea = *in.TotalArea
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, s.writeErr(err)
	}
	return c, nil
}

func (s *clientSvc) Delete(ctx context.Context, caller access.Principal, id string) error {
	if err := caller.Require(entities.ResourceClients, entities.ActionDelete); err != nil {
		return err
	}
	if err := caller.RequireClient(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return apperr.Internal(err)
	}
	s.log.Info().Str("client_id", id).Str("by", caller.AccountID).Msg("client deleted")
	return nil
}

func (s *clientSvc) Exists(ctx context.Context, id string) error {
	_, err := s.find(ctx, id)
	return err
}

func (s *clientSvc) find(ctx context.Context, id string) (*entities.Client, error) {
	c, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

// ensureUnique checks the non-empty values. Duplicates are a 400 here.
func (s *clientSvc) ensureUnique(ctx context.Context, email, doc, exceptID string) error {
	if email != "" {
		taken, err := s.repo.EmailTaken(ctx, email, exceptID)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.ConflictAt(http.StatusBadRequest, msgEmailInUse)
		}
	}
	if doc != "" {
		taken, err := s.repo.DocumentTaken(ctx, doc, exceptID)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.ConflictAt(http.StatusBadRequest, msgDocumentUse)
		}
	}
	return nil
}

func (s *clientSvc) writeErr(err error) error {
	if database.IsUniqueViolation(err) {
		if strings.Contains(err.Error(), "cpf_cnpj") {
			return apperr.ConflictAt(http.StatusBadRequest, msgDocumentUse)
		}
		return apperr.ConflictAt(http.StatusBadRequest, msgEmailInUse)
	}
	return apperr.Internal(err)
}

// normalizeDocument trims the tax document and derives its type from the
// digit count: 11 is a CPF, 14 a CNPJ.
func normalizeDocument(raw string, want entities.DocumentType) (string, entities.DocumentType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", nil
	}
	digits := 0
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == '-' || r == '/' || r == ' ':
		default:
			return "", "", apperr.Validation("cpfCnpj contém caracteres inválidos")
		}
	}
	var kind entities.DocumentType
	switch digits {
	case 11:
		kind = entities.DocumentCPF
	case 14:
		kind = entities.DocumentCNPJ
	default:
		return "", "", apperr.Validation("cpfCnpj deve ter 11 (CPF) ou 14 (CNPJ) dígitos")
	}
	if want != "" && want != kind {
		return "", "", apperr.Validation("tipoDocumento não corresponde ao cpfCnpj informado")
	}
	return raw, kind, nil
}
