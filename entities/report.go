package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReportPeriod string

const (
	PeriodDaily   ReportPeriod = "diario"
	PeriodWeekly  ReportPeriod = "semanal"
	PeriodMonthly ReportPeriod = "mensal"
)

func (p ReportPeriod) Valid() bool {
	return p == PeriodDaily || p == PeriodWeekly || p == PeriodMonthly
}

// ReportSnapshot is written by the scheduled report job.
type ReportSnapshot struct {
	Base
	Period         ReportPeriod    `gorm:"size:8;not null;index" json:"periodo"`
	TotalCrops     int64           `json:"totalCulturas"`
	ActiveCrops    int64           `json:"culturasAtivas"`
	TotalLosses    int64           `json:"totalPerdas"`
	TotalLossValue decimal.Decimal `gorm:"type:decimal(16,2)" json:"valorTotalPerdas"`
	ActivePests    int64           `json:"pragasAtivas"`
	GeneratedAt    time.Time       `gorm:"not null;index" json:"dataGeracao"`
}

func (ReportSnapshot) TableName() string { return "report_snapshots" }
