package xslsxGenerator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/xuri/excelize/v2"
)

const (
	holdingsSheet = "Holdings"
	historySheet  = "History"
)

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := f.SetSheetName("Sheet1", holdingsSheet); err != nil {
		return nil, "", err
	}

	if err := g.fillHoldings(f, report); err != nil {
		slog.Error("got error while filling holdings sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := g.fillHistory(f, report); err != nil {
		slog.Error("got error while filling history sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XSLSXGenerator) fillHoldings(f *excelize.File, report model.Report) error {
	summary := report.Portfolio.Summary

	err := titleRow(f, holdingsSheet, "A1", "H1", fmt.Sprintf("Holdings, %s", summary.BaseCurrency), "#cfe2f3")
	if err != nil {
		return err
	}

	err = f.SetSheetRow(holdingsSheet, "A2", &[]any{"name", "type", "ticker", "quantity", "unit price", "currency", "value", "status"})
	if err != nil {
		return err
	}

	valuations := make(map[string]model.HoldingValuation, len(summary.Holdings))
	for _, v := range summary.Holdings {
		valuations[v.HoldingID.String()] = v
	}

	row := 3
	for _, h := range report.Portfolio.Holdings {
		ticker := ""
		if h.Ticker != nil {
			ticker = *h.Ticker
		}
		v := valuations[h.ID.String()]

		err = f.SetSheetRow(holdingsSheet, fmt.Sprintf("A%d", row), &[]any{
			h.DisplayName,
			string(h.AssetType),
			ticker,
			h.Quantity.InexactFloat64(),
			v.UnitPrice.InexactFloat64(),
			v.Currency,
			v.Value.InexactFloat64(),
			string(v.Status),
		})
		if err != nil {
			return err
		}
		row++
	}

	// итоги по категориям
	row++
	err = titleRow(f, holdingsSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), "Totals", "#d9ead3")
	if err != nil {
		return err
	}

	categories := make([]string, 0, len(summary.CategoryTotals))
	for at := range summary.CategoryTotals {
		categories = append(categories, string(at))
	}
	sort.Strings(categories)

	for _, category := range categories {
		row++
		total := summary.CategoryTotals[model.AssetType(category)]
		if err := f.SetSheetRow(holdingsSheet, fmt.Sprintf("A%d", row), &[]any{category, total.InexactFloat64()}); err != nil {
			return err
		}
	}

	row++
	err = f.SetSheetRow(holdingsSheet, fmt.Sprintf("A%d", row), &[]any{"TOTAL", summary.TotalValue.InexactFloat64()})
	if err != nil {
		return err
	}

	return f.SetColWidth(holdingsSheet, "A", "H", 16)
}

func (g *XSLSXGenerator) fillHistory(f *excelize.File, report model.Report) error {
	if _, err := f.NewSheet(historySheet); err != nil {
		return err
	}

	err := titleRow(f, historySheet, "A1", "D1", fmt.Sprintf("History, %s", report.Period), "#f9cb9c")
	if err != nil {
		return err
	}

	err = f.SetSheetRow(historySheet, "A2", &[]any{"date", "total value", "gain/loss", "gain/loss %"})
	if err != nil {
		return err
	}

	for i, p := range report.History {
		err = f.SetSheetRow(historySheet, fmt.Sprintf("A%d", i+3), &[]any{
			p.Date,
			p.TotalValue.InexactFloat64(),
			p.GainLoss.InexactFloat64(),
			p.GainLossPercent.InexactFloat64(),
		})
		if err != nil {
			return err
		}
	}

	return f.SetColWidth(historySheet, "A", "D", 16)
}

func titleRow(f *excelize.File, sheet, from, to, title, color string) error {
	if err := f.MergeCell(sheet, from, to); err != nil {
		return err
	}

	if err := f.SetCellStr(sheet, from, title); err != nil {
		return err
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, from, from, styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	return nil
}
