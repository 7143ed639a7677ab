package entities

import "time"

type CropStage string

const (
	StagePlanted   CropStage = "plantada"
	StageGrowing   CropStage = "crescimento"
	StageFlowering CropStage = "floração"
	StageHarvested CropStage = "colhida"
)

var stageOrder = map[CropStage]int{
	StagePlanted:   0,
	StageGrowing:   1,
	StageFlowering: 2,
	StageHarvested: 3,
}

func (s CropStage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

// CanMoveTo allows staying put or moving forward, skips included.
func (s CropStage) CanMoveTo(next CropStage) bool {
	from, ok1 := stageOrder[s]
	to, ok2 := stageOrder[next]
	return ok1 && ok2 && to >= from
}

// Crop is one planting on an area. ClientID is copied from the area on create.
type Crop struct {
	Base
	AreaID       string     `gorm:"size:36;not null;index" json:"areaId"`
	ClientID     string     `gorm:"size:36;not null;index" json:"clienteId"`
	Name         string     `gorm:"size:100;not null" json:"nome"`
	Variety      string     `gorm:"size:100" json:"variedade,omitempty"`
	PlantingDate time.Time  `gorm:"not null" json:"dataPlantio"`
	HarvestDate  *time.Time `json:"dataColheita,omitempty"`
	Stage        CropStage  `gorm:"size:16;not null;default:plantada;index" json:"estadoAtual"`
	Yield        *float64   `json:"produtividade,omitempty"` // kg/ha
	Notes        string     `json:"observacoes,omitempty"`
}

func (Crop) TableName() string { return "crops" }
