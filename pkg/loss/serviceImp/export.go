package serviceImp

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"agrovision/entities"
	"agrovision/pkg/loss/service"
)

const (
	SheetSummary = "Resumo"
	SheetLosses  = "Perdas"
)

// WriteWorkbook renders r as an XLSX file with a per-type summary sheet and
// one row per loss.
func WriteWorkbook(r *service.Report, w io.Writer) error {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	if _, err := x.NewSheet(SheetLosses); err != nil {
		return err
	}

	rows := [][]any{
		{"Período", r.Period.Start.Format("2006-01-02"), r.Period.End.Format("2006-01-02")},
		{},
		{"Tipo", "Quantidade", "Valor"},
	}
	for _, t := range entities.LossTypes {
		tot, ok := r.ByType[t]
		if !ok {
			continue
		}
		v, _ := tot.Value.Float64()
		rows = append(rows, []any{string(t), tot.Count, v})
	}
	total, _ := r.TotalValue.Float64()
	rows = append(rows, []any{"Total", r.Count, total})
	if err := writeRows(x, SheetSummary, rows); err != nil {
		return err
	}

	detail := [][]any{{"Data", "Tipo", "Descrição", "Quantidade", "Unidade", "Valor", "Status", "Cultura", "Cliente"}}
	for _, l := range r.Losses() {
		v, _ := l.EstimatedValue.Float64()
		detail = append(detail, []any{
			l.OccurredAt.Format("2006-01-02"), string(l.Type), l.Description,
			l.Quantity, string(l.Unit), v, string(l.Status), l.CropID, l.ClientID,
		})
	}
	if err := writeRows(x, SheetLosses, detail); err != nil {
		return err
	}

	_, err := x.WriteTo(w)
	return err
}

func writeRows(x *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
