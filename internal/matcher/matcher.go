// Package matcher scores catalog products against a requested item.
package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nurpe/rfp-quotation/internal/catalog"
	"github.com/nurpe/rfp-quotation/internal/model"
)

const (
	// Threshold is exclusive: a product must score strictly above it.
	Threshold     = 60
	MaxCandidates = 3
	MaxScore      = 100

	nameMatchPoints = 40
	specMatchPoints = 20
)

type noteAttribute struct {
	key   string
	label string
}

var noteAttributes = []noteAttribute{
	{key: "voltage", label: "Voltage"},
	{key: "current", label: "Current"},
}

type Matcher struct {
	catalog *catalog.Catalog
}

func New(cat *catalog.Catalog) *Matcher {
	return &Matcher{catalog: cat}
}

// Match returns at most MaxCandidates products scoring above Threshold,
// highest score first. Ties keep catalog order.
func (m *Matcher) Match(description, specText string) []model.MatchCandidate {
	var candidates []model.MatchCandidate
	for _, product := range m.catalog.Products() {
		score := Score(description, specText, product)
		if score <= Threshold {
			continue
		}
		candidates = append(candidates, model.MatchCandidate{
			Product:            product,
			MatchScore:         score,
			Reasoning:          Reasoning(score),
			CompatibilityNotes: CompatibilityNotes(specText, product),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchScore > candidates[j].MatchScore
	})
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates
}

// Score awards 40 points when any description word occurs in the product
// name and 20 points per specification value found in specText, capped at
// MaxScore.
func Score(description, specText string, product model.CatalogProduct) int {
	score := 0

	name := strings.ToLower(product.Name)
	for _, word := range strings.Fields(strings.ToLower(description)) {
		if strings.Contains(name, word) {
			score += nameMatchPoints
			break
		}
	}

	specLower := strings.ToLower(specText)
	for _, value := range product.Specifications {
		if strings.Contains(specLower, strings.ToLower(value)) {
			score += specMatchPoints
		}
	}

	if score > MaxScore {
		score = MaxScore
	}
	return score
}

func Reasoning(score int) string {
	switch {
	case score >= 80:
		return "Excellent technical match"
	case score >= 60:
		return "Good technical compatibility"
	default:
		return "Partial match - manual review recommended"
	}
}

// CompatibilityNotes lists advisory notes for attributes the request
// mentions and the product defines. Notes do not affect the score.
func CompatibilityNotes(specText string, product model.CatalogProduct) []string {
	notes := []string{}
	specLower := strings.ToLower(specText)
	for _, attr := range noteAttributes {
		if !strings.Contains(specLower, attr.key) {
			continue
		}
		if value, ok := product.Specifications[attr.key]; ok {
			notes = append(notes, fmt.Sprintf("%s: %s", attr.label, value))
		}
	}
	return notes
}
