package entities

import (
	"encoding/json"
	"time"
)

type PropertyStatus string

const (
	PropertyActive   PropertyStatus = "ativa"
	PropertyInactive PropertyStatus = "inativa"
	PropertyPlanned  PropertyStatus = "planejada"
)

type Tenure string

const (
	TenureOwned       Tenure = "propria"
	TenureLeased      Tenure = "arrendada"
	TenurePartnership Tenure = "parceria"
)

// BrazilianStates lists the federative units accepted in Property.UF.
var BrazilianStates = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG", "PA",
	"PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// Geometry is a GeoJSON Polygon or MultiPolygon. Coordinates are kept raw and
// decoded according to Type.
type Geometry struct {
	Type        string          `json:"type"` // Polygon|MultiPolygon
	Coordinates json.RawMessage `json:"coordinates"`
}

type Point struct {
	Type        string     `json:"type"` // Point
	Coordinates [2]float64 `json:"coordinates"` // lon, lat
}

// Property is a georeferenced landholding of a client.
type Property struct {
	Base
	ClientID           string         `gorm:"size:36;not null;index" json:"clienteId"`
	Name               string         `gorm:"size:150;not null" json:"nome"`
	Country            string         `gorm:"size:2;not null;default:BR" json:"pais"`
	UF                 string         `gorm:"size:2;not null;index" json:"uf"`
	Municipality       string         `gorm:"size:100;not null" json:"municipio"`
	Address            string         `gorm:"size:200" json:"endereco,omitempty"`
	ZipCode            string         `gorm:"size:9" json:"cep,omitempty"`
	Geom               Geometry       `gorm:"serializer:json" json:"geom"`
	SRID               int            `gorm:"not null;default:4326" json:"srid"`
	TotalAreaHa        float64        `json:"area_total_ha"`
	Centroid           *Point         `gorm:"serializer:json" json:"centroide,omitempty"`
	Status             PropertyStatus `gorm:"size:16;not null;default:ativa;index" json:"status"`
	OperationStart     *time.Time     `json:"data_inicio_operacao,omitempty"`
	Tenure             Tenure         `gorm:"size:16;not null;default:propria" json:"regime_posse"`
	OwnerDisplayName   string         `gorm:"size:150" json:"proprietario_exibicao,omitempty"`
	ContractStart      *time.Time     `json:"contrato_inicio,omitempty"`
	ContractEnd        *time.Time     `json:"contrato_fim,omitempty"`
	ContractIdentifier string         `gorm:"size:100" json:"contrato_identificador,omitempty"`
	CAR                string         `gorm:"size:60" json:"car,omitempty"`
	CCIR               string         `gorm:"size:60" json:"ccir,omitempty"`
	ManagerName        string         `gorm:"size:100" json:"gestor_nome,omitempty"`
	ManagerContact     string         `gorm:"size:100" json:"gestor_contato,omitempty"`
	CreatedBy          string         `gorm:"size:36" json:"created_by,omitempty"`
	UpdatedBy          string         `gorm:"size:36" json:"updated_by,omitempty"`
}

func (Property) TableName() string { return "properties" }
