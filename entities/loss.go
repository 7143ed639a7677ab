package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// money goes out as a JSON number, not a quoted string
	decimal.MarshalJSONWithoutQuotes = true
}

type LossType string

const (
	LossWeather   LossType = "clima"
	LossPest      LossType = "praga"
	LossDisease   LossType = "doença"
	LossEquipment LossType = "equipamento"
	LossOther     LossType = "outro"
)

// LossTypes is the closed set in report order.
var LossTypes = []LossType{LossWeather, LossPest, LossDisease, LossEquipment, LossOther}

type Unit string

const (
	UnitKg      Unit = "kg"
	UnitTon     Unit = "ton"
	UnitSack    Unit = "sc"
	UnitPercent Unit = "percentual"
)

type LossStatus string

const (
	LossRecorded     LossStatus = "registrada"
	LossUnderReview  LossStatus = "em-analise"
	LossResolved     LossStatus = "resolvida"
	LossIrreversible LossStatus = "irreversivel"
)

// Loss is a production loss on a crop, optionally caused by a recorded pest.
type Loss struct {
	Base
	CropID         string          `gorm:"size:36;not null;index" json:"culturaId"`
	PestID         *string         `gorm:"size:36;index" json:"pragaId,omitempty"`
	ClientID       string          `gorm:"size:36;not null;index" json:"clienteId"`
	Type           LossType        `gorm:"size:16;not null;index" json:"tipo"`
	Description    string          `gorm:"size:500;not null" json:"descricao"`
	Quantity       float64         `gorm:"not null" json:"quantidadeAfetada"`
	Unit           Unit            `gorm:"size:12" json:"unidadeMedida,omitempty"`
	EstimatedValue decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"valorEstimado"`
	OccurredAt     time.Time       `gorm:"not null;index" json:"dataOcorrencia"`
	Prevention     string          `json:"medidaPreventiva,omitempty"`
	Status         LossStatus      `gorm:"size:16;not null;default:registrada;index" json:"status"`
	Notes          string          `json:"observacoes,omitempty"`
}

func (Loss) TableName() string { return "losses" }
