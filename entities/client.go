package entities

type ClientStatus string

const (
	ClientActive    ClientStatus = "ativo"
	ClientInactive  ClientStatus = "inativo"
	ClientSuspended ClientStatus = "suspenso"
)

type DocumentType string

const (
	DocumentCPF  DocumentType = "CPF"
	DocumentCNPJ DocumentType = "CNPJ"
)

type Address struct {
	Street  string `gorm:"size:200" json:"rua,omitempty"`
	City    string `gorm:"size:100" json:"cidade,omitempty"`
	State   string `gorm:"size:2" json:"estado,omitempty"`
	ZipCode string `gorm:"size:9" json:"cep,omitempty"`
}

// Client is the tenant: a farm operator or producer organization.
type Client struct {
	Base
	Name           string       `gorm:"size:100;not null" json:"nome"`
	Email          string       `gorm:"size:254;not null" json:"email"`
	Phone          string       `gorm:"size:32" json:"telefone,omitempty"`
	TaxDocument    string       `gorm:"column:cpf_cnpj;size:18" json:"cpfCnpj,omitempty"`
	DocumentType   DocumentType `gorm:"size:4" json:"tipoDocumento,omitempty"`
	Address        Address      `gorm:"embedded;embeddedPrefix:endereco_" json:"endereco"`
	ProductionType string       `gorm:"size:60;index" json:"tipoProducao,omitempty"`
	TotalArea      float64      `json:"areaTotal"` // ha
	Status         ClientStatus `gorm:"size:16;not null;default:ativo;index" json:"status"`
}

func (Client) TableName() string { return "clients" }
