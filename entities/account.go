package entities

import (
	"slices"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleOperator, RoleViewer:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountActive    AccountStatus = "ativo"
	AccountInactive  AccountStatus = "inativo"
	AccountSuspended AccountStatus = "suspenso"
)

func (s AccountStatus) Valid() bool {
	return s == AccountActive || s == AccountInactive || s == AccountSuspended
}

type AccessScope string

const (
	ScopeGlobal AccessScope = "global"
	ScopeClient AccessScope = "cliente-especifico"
)

func (s AccessScope) Valid() bool { return s == ScopeGlobal || s == ScopeClient }

type Resource string

const (
	ResourceAreas   Resource = "areas"
	ResourceClients Resource = "clientes"
	ResourceCrops   Resource = "culturas"
	ResourceUsers   Resource = "usuarios"
	ResourceReports Resource = "relatorios"
)

type Action string

const (
	ActionView   Action = "visualizar"
	ActionCreate Action = "criar"
	ActionEdit   Action = "editar"
	ActionDelete Action = "excluir"
	ActionExport Action = "exportar"
)

type CRUDFlags struct {
	View   bool `json:"visualizar"`
	Create bool `json:"criar"`
	Edit   bool `json:"editar"`
	Delete bool `json:"excluir"`
}

func (f CRUDFlags) allows(a Action) bool {
	switch a {
	case ActionView:
		return f.View
	case ActionCreate:
		return f.Create
	case ActionEdit:
		return f.Edit
	case ActionDelete:
		return f.Delete
	}
	return false
}

type ReportFlags struct {
	View   bool `json:"visualizar"`
	Export bool `json:"exportar"`
}

// Permissions is the per-account matrix. Stored as JSON on the account row.
type Permissions struct {
	Areas   CRUDFlags   `json:"areas"`
	Clients CRUDFlags   `json:"clientes"`
	Crops   CRUDFlags   `json:"culturas"`
	Users   CRUDFlags   `json:"usuarios"`
	Reports ReportFlags `json:"relatorios"`
}

// Allows reports the flag for (r, a). Pairs outside the matrix are false.
func (p Permissions) Allows(r Resource, a Action) bool {
	switch r {
	case ResourceAreas:
		return p.Areas.allows(a)
	case ResourceClients:
		return p.Clients.allows(a)
	case ResourceCrops:
		return p.Crops.allows(a)
	case ResourceUsers:
		return p.Users.allows(a)
	case ResourceReports:
		switch a {
		case ActionView:
			return p.Reports.View
		case ActionExport:
			return p.Reports.Export
		}
	}
	return false
}

type Account struct {
	Base
	Name         string        `gorm:"size:100;not null" json:"nome"`
	Email        string        `gorm:"size:254;not null" json:"email"` // lowercase; unique among live rows
	PasswordHash string        `gorm:"not null" json:"-"`
	Phone        string        `gorm:"size:32" json:"telefone,omitempty"`
	Avatar       string        `json:"avatar,omitempty"`
	Role         Role          `gorm:"size:16;not null;default:viewer;index" json:"role"`
	Status       AccountStatus `gorm:"size:16;not null;default:ativo;index" json:"status"`
	AccessScope  AccessScope   `gorm:"size:32;not null;default:cliente-especifico" json:"tipoAcesso"`
	ClientIDs    []string      `gorm:"serializer:json" json:"clientesVinculados"`
	Permissions  Permissions   `gorm:"serializer:json" json:"permissoes"`
	LastLoginAt  *time.Time    `json:"ultimoLogin,omitempty"`
	FailedLogins int           `gorm:"not null;default:0" json:"tentativasLogin"`
	LockedUntil  *time.Time    `json:"bloqueadoAte,omitempty"`
	CreatedBy    *string       `gorm:"size:36" json:"criadoPor,omitempty"`
}

func (Account) TableName() string { return "accounts" }

func (a *Account) BeforeSave(*gorm.DB) error {
	if a.ClientIDs == nil {
		a.ClientIDs = []string{}
	}
	return nil
}

func (a *Account) IsGlobal() bool { return a.AccessScope == ScopeGlobal }

func (a *Account) IsLocked(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}

func (a *Account) HasClient(id string) bool { return slices.Contains(a.ClientIDs, id) }

// SharesClient reports whether a is linked to any of ids.
func (a *Account) SharesClient(ids []string) bool {
	return slices.ContainsFunc(ids, a.HasClient)
}
