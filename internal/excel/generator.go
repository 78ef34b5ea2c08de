package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/rfp-quotation/internal/model"
)

const (
	SummarySheet = "Summary"
	LinesSheet   = "Lines"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Quotation writes a workbook with a summary sheet and one row per priced line.
func (g *Generator) Quotation(q model.Quotation) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, q); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(LinesSheet); err != nil {
		return nil, err
	}
	if err := g.writeLines(file, q); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, q model.Quotation) error {
	summary := q.PricingSummary
	rows := [][2]interface{}{
		{"Quotation ID", q.QuotationID},
		{"Generated at", formatDateTime(q.GeneratedAt)},
		{"Valid until", q.Validity},
		{"Company", q.CompanyInfo.Name},
		{"Project", q.CompanyInfo.Project},
		{"Contact", q.CompanyInfo.Contact},
		{"Subtotal", amount(summary.Subtotal)},
		{"Discount", amount(summary.DiscountAmount)},
		{"Taxable amount", amount(summary.TaxableAmount)},
		{"Tax rate, %", amount(summary.TaxRate)},
		{"Tax", amount(summary.TaxAmount)},
		{"Total due", amount(summary.FinalAmount)},
	}
	for i, row := range rows {
		if err := file.SetCellValue(SummarySheet, fmt.Sprintf("A%d", i+1), row[0]); err != nil {
			return err
		}
		if err := file.SetCellValue(SummarySheet, fmt.Sprintf("B%d", i+1), row[1]); err != nil {
			return err
		}
	}

	termsRow := len(rows) + 2
	if len(q.TermsConditions) > 0 {
		_ = file.SetCellValue(SummarySheet, fmt.Sprintf("A%d", termsRow), "Terms and conditions")
		for i, term := range q.TermsConditions {
			_ = file.SetCellValue(SummarySheet, fmt.Sprintf("B%d", termsRow+i), term)
		}
	}

	_ = file.SetColWidth(SummarySheet, "A", "A", 22)
	_ = file.SetColWidth(SummarySheet, "B", "B", 60)
	return nil
}

func (g *Generator) writeLines(file *excelize.File, q model.Quotation) error {
	headers := []string{
		"Product ID",
		"Product",
		"Quantity",
		"Unit",
		"Unit price",
		"Base cost",
		"Testing",
		"Transport",
		"Line total",
		"Match score",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(LinesSheet, cell, header); err != nil {
			return err
		}
	}

	for i, line := range q.LineItems {
		values := []interface{}{
			line.ProductID,
			line.ProductName,
			line.Quantity,
			string(line.Unit),
			amount(line.UnitPrice),
			amount(line.BaseCost),
			amount(line.TestingCharges),
			amount(line.TransportCost),
			amount(line.LineTotal),
			line.MatchScore,
		}
		if err := file.SetSheetRow(LinesSheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}

	_ = file.SetColWidth(LinesSheet, "A", "A", 20)
	_ = file.SetColWidth(LinesSheet, "B", "B", 40)
	_ = file.SetColWidth(LinesSheet, "C", "J", 14)
	return nil
}

func amount(value decimal.Decimal) float64 {
	f, _ := value.Round(2).Float64()
	return f
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
