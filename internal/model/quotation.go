package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuotationLine struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	Unit           Unit            `json:"unit"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	BaseCost       decimal.Decimal `json:"base_cost"`
	TestingCharges decimal.Decimal `json:"testing_charges"`
	TransportCost  decimal.Decimal `json:"transport_cost"`
	LineTotal      decimal.Decimal `json:"line_total"`
	MatchScore     int             `json:"match_score"`
}

type PricingSummary struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

type Quotation struct {
	QuotationID     string          `json:"quotation_id"`
	GeneratedAt     time.Time       `json:"generated_at"`
	CompanyInfo     CompanyInfo     `json:"company_info"`
	LineItems       []QuotationLine `json:"line_items"`
	PricingSummary  PricingSummary  `json:"pricing_summary"`
	Validity        string          `json:"validity"`
	TermsConditions []string        `json:"terms_conditions"`
}
