package pricer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/rfp-quotation/internal/model"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedPricer() *Pricer {
	return New(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func(at time.Time) string { return "QT" + at.Format("20060102150405") }),
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func matched(id string, price string, qty int) model.MatchedItem {
	return model.MatchedItem{
		RequestedItem: model.RequestedItem{ItemName: id, Quantity: qty, Unit: model.UnitUnit},
		MatchedProduct: &model.CatalogProduct{
			ProductID: id,
			Name:      id + " product",
			UnitPrice: dec(price),
			Unit:      model.UnitUnit,
		},
		MatchScore: 80,
		Reasoning:  "Excellent technical match",
	}
}

func assertMoney(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", field, got.StringFixed(2), want)
	}
}

func TestPriceLineBreakdown(t *testing.T) {
	line, err := PriceLine(matched("P", "100.00", 10))
	if err != nil {
		t.Fatalf("PriceLine: %v", err)
	}
	assertMoney(t, "base", line.BaseCost, "1000.00")
	assertMoney(t, "testing", line.TestingCharges, "20.00")
	assertMoney(t, "transport", line.TransportCost, "150.00")
	assertMoney(t, "total", line.LineTotal, "1170.00")
}

func TestPriceLineTransportIsFlatPerQuantity(t *testing.T) {
	cheap, _ := PriceLine(matched("A", "1.00", 4))
	dear, _ := PriceLine(matched("B", "9999.00", 4))
	assertMoney(t, "cheap transport", cheap.TransportCost, "60.00")
	assertMoney(t, "dear transport", dear.TransportCost, "60.00")
}

func TestPriceLineRoundsTotalFromExactParts(t *testing.T) {
	line, err := PriceLine(matched("PVC", "68.75", 1))
	if err != nil {
		t.Fatalf("PriceLine: %v", err)
	}
	assertMoney(t, "testing", line.TestingCharges, "1.38")
	assertMoney(t, "total", line.LineTotal, "85.13")
}

func TestDiscountTiers(t *testing.T) {
	cases := []struct {
		subtotal string
		items    int
		want     string
	}{
		{"120000", 1, "12000"},
		{"60000", 1, "4200"},
		{"10000", 6, "500"},
		{"10000", 3, "0"},
		{"100000", 6, "7000"},
		{"50000", 6, "2500"},
		{"50000", 5, "0"},
	}
	for _, tc := range cases {
		got := Discount(dec(tc.subtotal), tc.items)
		if !got.Equal(dec(tc.want)) {
			t.Fatalf("Discount(%s, %d) = %s, want %s", tc.subtotal, tc.items, got, tc.want)
		}
	}
}

func TestSummarizeTax(t *testing.T) {
	summary := Summarize(dec("120000"), 1)
	assertMoney(t, "discount", summary.DiscountAmount, "12000")
	assertMoney(t, "taxable", summary.TaxableAmount, "108000")
	assertMoney(t, "tax", summary.TaxAmount, "19440")
	assertMoney(t, "final", summary.FinalAmount, "127440")
	assertMoney(t, "rate", summary.TaxRate, "18")
}

func TestSummarizeTaxIsEighteenPercentOfTaxable(t *testing.T) {
	for _, raw := range []string{"0", "1.01", "1170", "85.13", "55555.55", "250000.99"} {
		for _, count := range []int{0, 3, 6} {
			s := Summarize(dec(raw), count)
			if !s.TaxableAmount.Equal(s.Subtotal.Sub(s.DiscountAmount)) {
				t.Fatalf("taxable mismatch for %s", raw)
			}
			if !s.TaxAmount.Equal(s.TaxableAmount.Mul(TaxRate).Round(2)) {
				t.Fatalf("tax = %s for taxable %s", s.TaxAmount, s.TaxableAmount)
			}
			if !s.FinalAmount.Equal(s.TaxableAmount.Add(s.TaxAmount)) {
				t.Fatalf("final mismatch for %s", raw)
			}
		}
	}
}

func TestPriceQuotation(t *testing.T) {
	company := model.CompanyInfo{Name: "Acme", Project: "Depot", Contact: "ops@acme.example"}
	items := []model.MatchedItem{
		matched("P", "100.00", 10),
		{RequestedItem: model.RequestedItem{ItemName: "orphan", Quantity: 3}},
	}
	q, err := fixedPricer().Price(company, items)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if q.QuotationID != "QT20260314092653" {
		t.Fatalf("id = %s", q.QuotationID)
	}
	if q.Validity != "2026-04-13" {
		t.Fatalf("validity = %s, want 2026-04-13", q.Validity)
	}
	if len(q.LineItems) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(q.LineItems))
	}
	if q.CompanyInfo != company {
		t.Fatalf("company = %+v", q.CompanyInfo)
	}
	assertMoney(t, "subtotal", q.PricingSummary.Subtotal, "1170.00")
	assertMoney(t, "discount", q.PricingSummary.DiscountAmount, "0")
	assertMoney(t, "tax", q.PricingSummary.TaxAmount, "210.60")
	assertMoney(t, "final", q.PricingSummary.FinalAmount, "1380.60")
	if len(q.TermsConditions) != 5 || q.TermsConditions[0] != "Prices valid for 30 days" {
		t.Fatalf("terms = %v", q.TermsConditions)
	}
}

func TestPriceIsDeterministicWithFixedClock(t *testing.T) {
	items := []model.MatchedItem{matched("A", "45.50", 500), matched("B", "3200.00", 40), matched("C", "68.75", 3)}
	p := fixedPricer()
	first, err := p.Price(model.CompanyInfo{Name: "X"}, items)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	second, err := p.Price(model.CompanyInfo{Name: "X"}, items)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if first.PricingSummary.FinalAmount.String() != second.PricingSummary.FinalAmount.String() {
		t.Fatalf("final differs: %s vs %s", first.PricingSummary.FinalAmount, second.PricingSummary.FinalAmount)
	}
	for i := range first.LineItems {
		if first.LineItems[i].LineTotal.String() != second.LineItems[i].LineTotal.String() {
			t.Fatalf("line %d differs", i)
		}
	}
}

func TestPriceRejectsInvalidLines(t *testing.T) {
	bad := matched("P", "10", 0)
	if _, err := fixedPricer().Price(model.CompanyInfo{}, []model.MatchedItem{bad}); !errors.Is(err, ErrInvalidLine) {
		t.Fatalf("err = %v, want ErrInvalidLine", err)
	}
	negative := matched("N", "-1", 2)
	if _, err := fixedPricer().Price(model.CompanyInfo{}, []model.MatchedItem{negative}); !errors.Is(err, ErrInvalidLine) {
		t.Fatalf("err = %v, want ErrInvalidLine", err)
	}
}

func TestPriceEmptyItems(t *testing.T) {
	q, err := fixedPricer().Price(model.CompanyInfo{}, nil)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if len(q.LineItems) != 0 || !q.PricingSummary.FinalAmount.IsZero() {
		t.Fatalf("unexpected quotation: %+v", q)
	}
}

func TestNewQuotationIDIsUniqueWithinASecond(t *testing.T) {
	a := NewQuotationID(fixedNow)
	b := NewQuotationID(fixedNow)
	if a == b {
		t.Fatalf("ids collide: %s", a)
	}
	if !strings.HasPrefix(a, "QT20260314092653-") || len(a) != len("QT20260314092653-")+8 {
		t.Fatalf("id = %s", a)
	}
}
