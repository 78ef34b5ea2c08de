// Package extractor turns raw RFP text into a structured request using
// line-oriented keyword heuristics. It never fails: every field that cannot
// be recovered from the text falls back to a fixed default.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nurpe/rfp-quotation/internal/model"
)

const (
	DefaultCompanyName    = "Unknown Company"
	DefaultProjectName    = "Electrical Project"
	DefaultContact        = "contact@company.com"
	DefaultTimeline       = "Standard delivery"
	WeeksTimeline         = "4-6 weeks"
	DefaultPaymentTerms   = "50% advance, 50% on delivery"
	DefaultWarranty       = "1 year warranty"
	DefaultDelivery       = "Standard"
	DefaultSpecifications = "Standard specifications"

	maxItems      = 3
	specWindow    = 3
	specDelimiter = " | "
)

var (
	companyLabels = []string{"COMPANY:", "Company:", "Vendor:", "Supplier:"}
	projectLabels = []string{"PROJECT:"}
	itemKeywords  = []string{"cable", "transformer", "switchgear", "light", "led"}

	digitsPattern = regexp.MustCompile(`\d+`)
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
)

// FallbackItem is returned when a document has no recognisable item lines.
func FallbackItem() model.RequestedItem {
	return model.RequestedItem{
		ItemName:             "Electrical Cable",
		Quantity:             100,
		Unit:                 model.UnitMeter,
		Specifications:       "Standard electrical cable",
		DeliveryRequirements: "2 weeks",
	}
}

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(text string) model.ExtractedData {
	return model.ExtractedData{
		CompanyInfo: model.CompanyInfo{
			Name:    labelValue(text, companyLabels, DefaultCompanyName),
			Project: labelValue(text, projectLabels, DefaultProjectName),
			Contact: contact(text),
		},
		Items: items(text),
		ProjectDetails: model.ProjectDetails{
			DeliveryTimeline:     timeline(text),
			PaymentTerms:         DefaultPaymentTerms,
			WarrantyRequirements: DefaultWarranty,
		},
	}
}

// labelValue returns the rest of the line after the first label present in
// text. Labels are tried in order; the first one found wins.
func labelValue(text string, labels []string, fallback string) string {
	for _, label := range labels {
		idx := strings.Index(text, label)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(label):]
		if end := strings.IndexByte(rest, '\n'); end >= 0 {
			rest = rest[:end]
		}
		if value := strings.TrimSpace(rest); value != "" {
			return value
		}
		return fallback
	}
	return fallback
}

func contact(text string) string {
	if email := emailPattern.FindString(text); email != "" {
		return email
	}
	return DefaultContact
}

func items(text string) []model.RequestedItem {
	lines := strings.Split(text, "\n")
	result := make([]model.RequestedItem, 0, maxItems)

	for i, line := range lines {
		if !isItemLine(line) {
			continue
		}
		result = append(result, model.RequestedItem{
			ItemName:             strings.TrimSpace(line),
			Quantity:             quantity(line),
			Unit:                 unit(line),
			Specifications:       specifications(lines, i),
			DeliveryRequirements: DefaultDelivery,
		})
		if len(result) == maxItems {
			break
		}
	}

	if len(result) == 0 {
		return []model.RequestedItem{FallbackItem()}
	}
	return result
}

func isItemLine(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range itemKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func quantity(line string) int {
	match := digitsPattern.FindString(line)
	if match == "" {
		return 1
	}
	n, err := strconv.Atoi(match)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func unit(line string) model.Unit {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "meter"):
		return model.UnitMeter
	case strings.Contains(lower, "unit"):
		return model.UnitUnit
	default:
		return model.UnitPiece
	}
}

// specifications joins the item line with the two lines after it, skipping
// blank and purely numeric lines.
func specifications(lines []string, index int) string {
	end := index + specWindow
	if end > len(lines) {
		end = len(lines)
	}
	specs := make([]string, 0, specWindow)
	for _, line := range lines[index:end] {
		line = strings.TrimSpace(line)
		if line == "" || isNumeric(line) {
			continue
		}
		specs = append(specs, line)
	}
	if len(specs) == 0 {
		return DefaultSpecifications
	}
	return strings.Join(specs, specDelimiter)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func timeline(text string) string {
	if strings.Contains(strings.ToLower(text), "week") {
		return WeeksTimeline
	}
	return DefaultTimeline
}
