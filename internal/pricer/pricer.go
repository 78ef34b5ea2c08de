// Package pricer turns matched items into a priced quotation.
package pricer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/rfp-quotation/internal/model"
)

var ErrInvalidLine = errors.New("invalid quotation line")

var (
	TaxRate       = decimal.RequireFromString("0.18")
	TransportRate = decimal.RequireFromString("0.15")
	TestingRate   = decimal.RequireFromString("0.02")

	transportBase = decimal.NewFromInt(100)
	hundred       = decimal.NewFromInt(100)

	largeOrderThreshold  = decimal.NewFromInt(100000)
	mediumOrderThreshold = decimal.NewFromInt(50000)
	largeOrderRate       = decimal.RequireFromString("0.10")
	mediumOrderRate      = decimal.RequireFromString("0.07")
	multiItemRate        = decimal.RequireFromString("0.05")
)

const (
	ValidityDays       = 30
	multiItemThreshold = 5
	moneyPlaces        = 2
	idTimeLayout       = "20060102150405"
	validityLayout     = "2006-01-02"
)

var termsConditions = []string{
	"Prices valid for 30 days",
	"Delivery: 4-6 weeks from order confirmation",
	"Payment: 50% advance, 50% before delivery",
	"Warranty: 1 year from commissioning date",
	"Taxes extra as applicable",
}

func TermsConditions() []string {
	return append([]string(nil), termsConditions...)
}

type Option func(*Pricer)

// WithClock replaces time.Now as the source of the generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *Pricer) {
		p.now = now
	}
}

func WithIDGenerator(newID func(time.Time) string) Option {
	return func(p *Pricer) {
		p.newID = newID
	}
}

type Pricer struct {
	now   func() time.Time
	newID func(time.Time) string
}

func New(opts ...Option) *Pricer {
	p := &Pricer{
		now:   time.Now,
		newID: NewQuotationID,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewQuotationID returns "QT" + the second-resolution timestamp, followed by
// a random suffix so two quotations generated in the same second differ.
func NewQuotationID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("QT%s-%s", at.Format(idTimeLayout), suffix)
}

func (p *Pricer) Price(company model.CompanyInfo, items []model.MatchedItem) (*model.Quotation, error) {
	lines := make([]model.QuotationLine, 0, len(items))
	subtotal := decimal.Zero

	for _, item := range items {
		if item.MatchedProduct == nil {
			continue
		}
		line, err := PriceLine(item)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(line.LineTotal)
		lines = append(lines, line)
	}

	summary := Summarize(subtotal, len(lines))
	generatedAt := p.now()

	return &model.Quotation{
		QuotationID:     p.newID(generatedAt),
		GeneratedAt:     generatedAt,
		CompanyInfo:     company,
		LineItems:       lines,
		PricingSummary:  summary,
		Validity:        generatedAt.AddDate(0, 0, ValidityDays).Format(validityLayout),
		TermsConditions: TermsConditions(),
	}, nil
}

// PriceLine computes one row. Transport is a flat 15 per quantity unit
// (0.15 x 100), independent of the product cost.
func PriceLine(item model.MatchedItem) (model.QuotationLine, error) {
	product := item.MatchedProduct
	if product == nil {
		return model.QuotationLine{}, fmt.Errorf("%w: %q has no matched product", ErrInvalidLine, item.ItemName)
	}
	if item.Quantity < 1 {
		return model.QuotationLine{}, fmt.Errorf("%w: %q quantity %d", ErrInvalidLine, item.ItemName, item.Quantity)
	}
	if product.UnitPrice.IsNegative() {
		return model.QuotationLine{}, fmt.Errorf("%w: %s has negative unit price", ErrInvalidLine, product.ProductID)
	}

	quantity := decimal.NewFromInt(int64(item.Quantity))
	base := product.UnitPrice.Mul(quantity)
	testingCharge := base.Mul(TestingRate)
	transport := TransportRate.Mul(transportBase).Mul(quantity)
	total := base.Add(testingCharge).Add(transport)

	return model.QuotationLine{
		ProductID:      product.ProductID,
		ProductName:    product.Name,
		Quantity:       item.Quantity,
		Unit:           product.Unit,
		UnitPrice:      product.UnitPrice,
		BaseCost:       base.Round(moneyPlaces),
		TestingCharges: testingCharge.Round(moneyPlaces),
		TransportCost:  transport.Round(moneyPlaces),
		LineTotal:      total.Round(moneyPlaces),
		MatchScore:     item.MatchScore,
	}, nil
}

// Summarize applies the discount tier and tax to a subtotal.
func Summarize(subtotal decimal.Decimal, lineCount int) model.PricingSummary {
	subtotal = subtotal.Round(moneyPlaces)
	discount := Discount(subtotal, lineCount).Round(moneyPlaces)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(TaxRate).Round(moneyPlaces)

	return model.PricingSummary{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		TaxRate:        TaxRate.Mul(hundred),
		TaxAmount:      tax,
		FinalAmount:    taxable.Add(tax),
	}
}

// Discount picks the first matching tier; tiers do not stack.
func Discount(subtotal decimal.Decimal, itemCount int) decimal.Decimal {
	switch {
	case subtotal.GreaterThan(largeOrderThreshold):
		return subtotal.Mul(largeOrderRate)
	case subtotal.GreaterThan(mediumOrderThreshold):
		return subtotal.Mul(mediumOrderRate)
	case itemCount > multiItemThreshold:
		return subtotal.Mul(multiItemRate)
	default:
		return decimal.Zero
	}
}
