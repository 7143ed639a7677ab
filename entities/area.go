package entities

import "time"

type AreaType string

const (
	AreaIrrigated AreaType = "irrigada"
	AreaRainfed   AreaType = "sequeiro"
)

type CultivationStatus string

const (
	CultivationPreparing CultivationStatus = "preparando"
	CultivationPlanted   CultivationStatus = "plantado"
	CultivationGrowing   CultivationStatus = "crescimento"
	CultivationHarvest   CultivationStatus = "colheita"
	CultivationFallow    CultivationStatus = "pousio"
)

type Location struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Area is a cultivated plot of a client.
type Area struct {
	Base
	ClientID        string            `gorm:"size:36;not null;index" json:"clienteId"`
	Name            string            `gorm:"size:100;not null" json:"nome"`
	SizeHa          float64           `gorm:"not null" json:"tamanho"`
	Location        Location          `gorm:"embedded;embeddedPrefix:localizacao_" json:"localizacao"`
	Type            AreaType          `gorm:"size:16;not null;index" json:"tipo"` // irrigada|sequeiro
	Soil            string            `gorm:"size:60" json:"solo,omitempty"`
	Irrigation      bool              `json:"irrigacao"`
	CurrentCrop     string            `gorm:"size:100" json:"culturaAtual,omitempty"`
	Status          CultivationStatus `gorm:"size:16;index" json:"statusCultivo,omitempty"`
	PlantingDate    *time.Time        `json:"dataPlantio,omitempty"`
	ExpectedHarvest *time.Time        `json:"previsaoColheita,omitempty"`
	EstimatedYield  *float64          `json:"produtividadeEstimada,omitempty"`
	Slope           *float64          `json:"declive,omitempty"` // %
	SoilPH          *float64          `json:"phSolo,omitempty"`
	Notes           string            `json:"observacoes,omitempty"`
}

func (Area) TableName() string { return "areas" }
