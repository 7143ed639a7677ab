package entities

import "time"

type PestType string

const (
	PestInsect  PestType = "inseto"
	PestFungus  PestType = "fungo"
	PestDisease PestType = "doença"
	PestWeed    PestType = "erva_daninha"
)

type Severity string

const (
	SeverityLow    Severity = "baixa"
	SeverityMedium Severity = "média"
	SeverityHigh   Severity = "alta"
)

// Pest is an infestation observed on a crop. Active while ResolvedAt is nil.
type Pest struct {
	Base
	CropID     string     `gorm:"size:36;not null;index" json:"culturaId"`
	ClientID   string     `gorm:"size:36;not null;index" json:"clienteId"`
	Name       string     `gorm:"size:100;not null" json:"nome"`
	Type       PestType   `gorm:"size:16;not null" json:"tipo"`
	Severity   Severity   `gorm:"size:8;not null;index" json:"gravidade"`
	DetectedAt time.Time  `gorm:"not null" json:"dataDeteccao"`
	AffectedHa *float64   `json:"areaAfetada,omitempty"`
	Treatment  string     `json:"tratamentoAplicado,omitempty"`
	ResolvedAt *time.Time `gorm:"index" json:"dataResolucao,omitempty"`
	Notes      string     `json:"observacoes,omitempty"`
}

func (Pest) TableName() string { return "pests" }

func (p *Pest) IsActive() bool { return p.ResolvedAt == nil }
