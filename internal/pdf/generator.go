package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"github.com/nurpe/rfp-quotation/internal/model"
)

const (
	fontName  = "Helvetica"
	qrSize    = 28.0
	qrPixels  = 256
	qrImageID = "quotation-qr"
)

type Generator struct {
	issuer string
}

// NewGenerator returns a generator that prints issuer in every quotation header.
func NewGenerator(issuer string) *Generator {
	if strings.TrimSpace(issuer) == "" {
		issuer = "Electrical Supplies"
	}
	return &Generator{issuer: issuer}
}

func (g *Generator) Quotation(q model.Quotation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if err := addQRCode(pdf, q.QuotationID); err != nil {
		return nil, err
	}

	pdf.SetFont(fontName, "B", 16)
	pdf.CellFormat(0, 10, tr(g.issuer+" - Quotation"), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Quotation No. %s", q.QuotationID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", formatDate(q.GeneratedAt)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Valid until: %s", safeValue(q.Validity)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, "Customer", "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	for _, line := range []string{
		fmt.Sprintf("Company: %s", safeValue(q.CompanyInfo.Name)),
		fmt.Sprintf("Project: %s", safeValue(q.CompanyInfo.Project)),
		fmt.Sprintf("Contact: %s", safeValue(q.CompanyInfo.Contact)),
	} {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(4)

	headers := []string{"Product", "Qty", "Unit", "Unit price", "Testing", "Transport", "Total"}
	colWidths := []float64{58, 14, 16, 24, 22, 24, 22}
	drawTableRow(pdf, headers, colWidths, true)
	for _, line := range q.LineItems {
		drawTableRow(pdf, []string{
			tr(truncate(line.ProductName, 34)),
			fmt.Sprintf("%d", line.Quantity),
			string(line.Unit),
			formatAmount(line.UnitPrice),
			formatAmount(line.TestingCharges),
			formatAmount(line.TransportCost),
			formatAmount(line.LineTotal),
		}, colWidths, false)
	}
	pdf.Ln(4)

	summary := q.PricingSummary
	pdf.SetFont(fontName, "", 10)
	for _, row := range [][2]string{
		{"Subtotal", formatAmount(summary.Subtotal)},
		{"Discount", formatAmount(summary.DiscountAmount)},
		{"Taxable amount", formatAmount(summary.TaxableAmount)},
		{fmt.Sprintf("Tax (%s%%)", summary.TaxRate.String()), formatAmount(summary.TaxAmount)},
	} {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", row[0], row[1]), "", 1, "R", false, 0, "")
	}
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total due: %s", formatAmount(summary.FinalAmount)), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	if len(q.TermsConditions) > 0 {
		pdf.SetFont(fontName, "B", 12)
		pdf.CellFormat(0, 8, "Terms and conditions", "", 1, "L", false, 0, "")
		pdf.SetFont(fontName, "", 9)
		for i, term := range q.TermsConditions {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", i+1, term)), "", "L", false)
		}
	}

	return output(pdf)
}

// Text renders a plain document, used for scraped pages.
func (g *Generator) Text(title, body string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontName, "B", 14)
	pdf.MultiCell(0, 8, tr(safeValue(title)), "", "L", false)
	pdf.Ln(4)
	pdf.SetFont(fontName, "", 10)
	pdf.MultiCell(0, 5, tr(body), "", "L", false)

	return output(pdf)
}

func addQRCode(pdf *gofpdf.Fpdf, content string) error {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("generate qr code: %w", err)
	}
	png, err := code.PNG(qrPixels)
	if err != nil {
		return fmt.Errorf("encode qr code: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(qrImageID, opts, bytes.NewReader(png))

	pageWidth, _ := pdf.GetPageSize()
	_, _, right, _ := pdf.GetMargins()
	pdf.ImageOptions(qrImageID, pageWidth-right-qrSize, 12, qrSize, qrSize, false, opts, 0, "")
	return nil
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i > 2 || i == 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}
