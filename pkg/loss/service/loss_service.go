package service

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/loss/repository"
	"agrovision/pkg/pagination"
)

type CropLookup interface {
	Find(ctx context.Context, id string) (*entities.Crop, error)
}

type PestLookup interface {
	Find(ctx context.Context, id string) (*entities.Pest, error)
}

type CreateInput struct {
	CropID         string              `json:"culturaId" validate:"required"`
	PestID         *string             `json:"pragaId"`
	Type           entities.LossType   `json:"tipo" validate:"required,oneof=clima praga doença equipamento outro"`
	Description    string              `json:"descricao" validate:"required,max=500"`
	Quantity       float64             `json:"quantidadeAfetada" validate:"gte=0"`
	Unit           entities.Unit       `json:"unidadeMedida" validate:"omitempty,oneof=kg ton sc percentual"`
	EstimatedValue decimal.Decimal     `json:"valorEstimado"`
	OccurredAt     string              `json:"dataOcorrencia" validate:"required"`
	Prevention     string              `json:"medidaPreventiva"`
	Status         entities.LossStatus `json:"status" validate:"omitempty,oneof=registrada em-analise resolvida irreversivel"`
	Notes          string              `json:"observacoes"`
}

type UpdateInput struct {
	CropID         *string              `json:"culturaId" validate:"omitempty,min=1"`
	PestID         *string              `json:"pragaId"` // "" detaches
	Type           *entities.LossType   `json:"tipo" validate:"omitempty,oneof=clima praga doença equipamento outro"`
	Description    *string              `json:"descricao" validate:"omitempty,min=1,max=500"`
	Quantity       *float64             `json:"quantidadeAfetada" validate:"omitempty,gte=0"`
	Unit           *entities.Unit       `json:"unidadeMedida" validate:"omitempty,oneof=kg ton sc percentual"`
	EstimatedValue *decimal.Decimal     `json:"valorEstimado"`
	OccurredAt     *string              `json:"dataOcorrencia"`
	Prevention     *string              `json:"medidaPreventiva"`
	Status         *entities.LossStatus `json:"status" validate:"omitempty,oneof=registrada em-analise resolvida irreversivel"`
	Notes          *string              `json:"observacoes"`
}

type Period struct {
	Start time.Time `json:"inicio"`
	End   time.Time `json:"fim"`
}

type TypeTotal struct {
	Value decimal.Decimal `json:"valor"`
	Count int             `json:"quantidade"`
}

// Report is the financial summary of losses in a closed date range.
type Report struct {
	Period     Period                          `json:"periodo"`
	TotalValue decimal.Decimal                 `json:"valorTotal"`
	Count      int                             `json:"quantidade"`
	ByType     map[entities.LossType]TypeTotal `json:"porTipo"`

	losses []entities.Loss
}

// Losses returns the rows the report was built from.
func (r *Report) Losses() []entities.Loss { return r.losses }

// NewReport sums losses into a report over period.
func NewReport(period Period, losses []entities.Loss) *Report {
	r := &Report{Period: period, TotalValue: decimal.Zero, ByType: map[entities.LossType]TypeTotal{}, losses: losses}
	for _, l := range losses {
		t := r.ByType[l.Type]
		t.Value = t.Value.Add(l.EstimatedValue)
		t.Count++
		r.ByType[l.Type] = t
		r.TotalValue = r.TotalValue.Add(l.EstimatedValue)
		r.Count++
	}
	return r
}

type LossService interface {
	List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Loss], error)
	Get(ctx context.Context, caller access.Principal, id string) (*entities.Loss, error)
	Create(ctx context.Context, caller access.Principal, in CreateInput) (*entities.Loss, error)
	Update(ctx context.Context, caller access.Principal, id string, in UpdateInput) (*entities.Loss, error)
	Delete(ctx context.Context, caller access.Principal, id string) error
	Report(ctx context.Context, caller access.Principal, start, end string) (*Report, error)
	// Export writes the report as an XLSX workbook.
	Export(ctx context.Context, caller access.Principal, start, end string, w io.Writer) error
}
