package serviceImp

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/auth/password"
	"agrovision/pkg/pagination"
	"agrovision/pkg/user/repository"
	"agrovision/pkg/user/service"
)

const (
	msgNotFound     = "Usuário não encontrado"
	msgEmailInUse   = "Email já está em uso"
	msgForbidden    = "Sem permissão para gerenciar este usuário"
	msgWrongCurrent = "Senha atual incorreta"
)

type userSvc struct {
	accounts repository.AccountRepository
	clients  service.ClientLookup
	hasher   password.Hasher
	log      zerolog.Logger
}

func New(accounts repository.AccountRepository, clients service.ClientLookup, hasher password.Hasher, log zerolog.Logger) service.UserService {
	return &userSvc{accounts: accounts, clients: clients, hasher: hasher, log: log}
}

func (s *userSvc) List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Account], error) {
	if err := caller.Require(entities.ResourceUsers, entities.ActionView); err != nil {
		return pagination.Page[entities.Account]{}, err
	}
	if !caller.IsAdmin() && !caller.IsGlobal() {
		f.Restricted, f.VisibleClients = true, caller.ClientIDs
	}
	out, total, err := s.accounts.List(ctx, f, p)
	if err != nil {
		return pagination.Page[entities.Account]{}, apperr.Internal(err)
	}
	return pagination.NewPage(out, p, total), nil
}

func (s *userSvc) Get(ctx context.Context, caller access.Principal, id string) (*entities.Account, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if id == caller.AccountID {
		return a, nil
	}
	if err := caller.Require(entities.ResourceUsers, entities.ActionView); err != nil {
		return nil, err
	}
	if !canSee(caller, a) {
		return nil, apperr.Forbidden("Acesso negado a este usuário")
	}
	return a, nil
}

func (s *userSvc) Create(ctx context.Context, caller access.Principal, in service.CreateInput) (*entities.Account, error) {
	if err := caller.Require(entities.ResourceUsers, entities.ActionCreate); err != nil {
		return nil, err
	}
	a := &entities.Account{
		Name:        strings.TrimSpace(in.Name),
		Email:       normalizeEmail(in.Email),
		Phone:       in.Phone,
		Avatar:      in.Avatar,
		Role:        in.Role,
		Status:      in.Status,
		AccessScope: in.Scope,
	}
	if a.Role == "" {
		a.Role = entities.RoleViewer
	}
	if a.Status == "" {
		a.Status = entities.AccountActive
	}
	if a.AccessScope == "" {
		a.AccessScope = entities.ScopeClient
	}
	if !canAssignRole(caller, a.Role) {
		return nil, apperr.Forbidden("Sem permissão para criar usuário com o papel " + string(a.Role))
	}
	if a.AccessScope == entities.ScopeGlobal && !(caller.IsAdmin() && caller.IsGlobal()) {
		return nil, apperr.Forbidden("Apenas administradores globais criam usuários com acesso global")
	}

	ids, err := s.linkableClients(ctx, caller, in.ClientIDs)
	if err != nil {
		return nil, err
	}
	a.ClientIDs = ids

	a.Permissions = access.DefaultPermissions(a.Role)
	if in.Permissions != nil {
		if !caller.IsAdmin() && !access.Within(*in.Permissions, caller.Permissions) {
			return nil, apperr.Forbidden("Não é possível conceder permissões que você não possui")
		}
		a.Permissions = *in.Permissions
	}

	if err := s.ensureEmailFree(ctx, a.Email, ""); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	a.PasswordHash = hash
	if caller.AccountID != "" {
		by := caller.AccountID
		a.CreatedBy = &by
	}

	if err := s.accounts.Create(ctx, a); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict(msgEmailInUse)
		}
		return nil, apperr.Internal(err)
	}
	s.log.Info().Str("account_id", a.ID).Str("role", string(a.Role)).Str("by", caller.AccountID).Msg("account created")
	return a, nil
}

func (s *userSvc) Update(ctx context.Context, caller access.Principal, id string, in service.UpdateInput) (*entities.Account, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(caller, a, entities.ActionEdit) {
		return nil, apperr.Forbidden(msgForbidden)
	}
	self := caller.AccountID == a.ID

	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != a.Email {
			if err := s.ensureEmailFree(ctx, email, a.ID); err != nil {
				return nil, err
			}
			a.Email = email
		}
	}
	if in.Phone != nil {
		a.Phone = *in.Phone
	}
	if in.Avatar != nil {
		a.Avatar = *in.Avatar
	}

	// privileged fields
	if in.Role != nil && *in.Role != a.Role {
		if (self && !caller.IsAdmin()) || !canAssignRole(caller, *in.Role) {
			return nil, apperr.Forbidden("Sem permissão para alterar o papel para " + string(*in.Role))
		}
		a.Role = *in.Role
	}
	if in.Status != nil && *in.Status != a.Status {
		if self {
			return nil, apperr.Forbidden("Não é possível alterar o próprio status")
		}
		a.Status = *in.Status
	}
	if in.Scope != nil && *in.Scope != a.AccessScope {
		if !(caller.IsAdmin() && caller.IsGlobal()) {
			return nil, apperr.Forbidden("Apenas administradores globais alteram o tipo de acesso")
		}
		a.AccessScope = *in.Scope
	}
	if in.ClientIDs != nil {
		if self && !caller.IsAdmin() {
			return nil, apperr.Forbidden("Não é possível alterar os próprios clientes vinculados")
		}
		ids, err := s.linkableClients(ctx, caller, *in.ClientIDs)
		if err != nil {
			return nil, err
		}
		a.ClientIDs = ids
	}
	if in.Permissions != nil {
		if !caller.IsAdmin() && (self || !access.Within(*in.Permissions, caller.Permissions)) {
			return nil, apperr.Forbidden("Não é possível conceder permissões que você não possui")
		}
		a.Permissions = *in.Permissions
	}

	if err := s.accounts.Save(ctx, a); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict(msgEmailInUse)
		}
		return nil, apperr.Internal(err)
	}
	s.log.Info().Str("account_id", a.ID).Str("by", caller.AccountID).Msg("account updated")
	return a, nil
}

func (s *userSvc) Delete(ctx context.Context, caller access.Principal, id string) error {
	if id == caller.AccountID {
		return apperr.Validation("Não é possível excluir a própria conta")
	}
	a, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(caller, a, entities.ActionDelete) {
		return apperr.Forbidden(msgForbidden)
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return apperr.Internal(err)
	}
	s.log.Info().Str("account_id", id).Str("by", caller.AccountID).Msg("account deleted")
	return nil
}

func (s *userSvc) ChangePassword(ctx context.Context, caller access.Principal, id string, current *string, next string) error {
	a, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if id == caller.AccountID {
		if current == nil || *current == "" {
			return apperr.Validation("Senha atual e nova senha são obrigatórias")
		}
		ok, err := s.hasher.Check(a.PasswordHash, *current)
		if err != nil {
			return apperr.Internal(err)
		}
		if !ok {
			return apperr.Unauthenticated(msgWrongCurrent)
		}
	} else if !canModify(caller, a, entities.ActionEdit) {
		return apperr.Forbidden(msgForbidden)
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(ctx, id, hash); err != nil {
		return apperr.Internal(err)
	}
	s.log.Info().Str("account_id", id).Str("by", caller.AccountID).Msg("password changed")
	return nil
}

func (s *userSvc) ListByClient(ctx context.Context, caller access.Principal, clientID string) ([]entities.Account, error) {
	if err := caller.RequireClient(clientID); err != nil {
		return nil, err
	}
	found, err := s.clients.ExistingIDs(ctx, []string{clientID})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(found) == 0 {
		return nil, apperr.NotFound("Cliente não encontrado")
	}
	out, err := s.accounts.ListActiveForClient(ctx, clientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if out == nil {
		out = []entities.Account{}
	}
	return out, nil
}

func (s *userSvc) find(ctx context.Context, id string) (*entities.Account, error) {
	a, err := s.accounts.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return a, nil
}

func (s *userSvc) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	taken, err := s.accounts.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return apperr.Internal(err)
	}
	if taken {
		return apperr.Conflict(msgEmailInUse)
	}
	return nil
}

// linkableClients dedupes ids, drops the ones a client-scoped caller does not
// hold, and rejects ids that do not exist.
func (s *userSvc) linkableClients(ctx context.Context, caller access.Principal, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(out, id) {
			continue
		}
		if !caller.IsGlobal() && !slices.Contains(caller.ClientIDs, id) {
			continue
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return out, nil
	}
	found, err := s.clients.ExistingIDs(ctx, out)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(found) != len(out) {
		var missing []string
		for _, id := range out {
			if !slices.Contains(found, id) {
				missing = append(missing, id)
			}
		}
		return nil, apperr.Validation("Clientes vinculados inexistentes", missing...)
	}
	return out, nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
