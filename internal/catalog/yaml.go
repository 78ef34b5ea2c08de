package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/nurpe/rfp-quotation/internal/model"
)

type fileDocument struct {
	Categories []fileCategory `yaml:"categories"`
}

type fileCategory struct {
	Key      string        `yaml:"key"`
	Products []fileProduct `yaml:"products"`
}

type fileProduct struct {
	ProductID      string            `yaml:"product_id"`
	Name           string            `yaml:"name"`
	Category       string            `yaml:"category"`
	Specifications map[string]string `yaml:"specifications"`
	UnitPrice      string            `yaml:"unit_price"`
	Unit           string            `yaml:"unit"`
}

// ParseYAML decodes a catalog document of the form
//
//	categories:
//	  - key: cables
//	    products:
//	      - product_id: CABLE-XLPE-1.5
//	        unit_price: "45.50"
func ParseYAML(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog: yaml payload is empty")
	}
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("catalog: yaml defines no categories")
	}

	categories := make([]Category, 0, len(doc.Categories))
	for _, fc := range doc.Categories {
		category := Category{Key: fc.Key}
		for _, fp := range fc.Products {
			unitPrice, err := decimal.NewFromString(fp.UnitPrice)
			if err != nil {
				return nil, fmt.Errorf("catalog: product %s: invalid unit_price %q: %w", fp.ProductID, fp.UnitPrice, err)
			}
			unit, err := ParseUnit(fp.Unit)
			if err != nil {
				return nil, fmt.Errorf("catalog: product %s: %w", fp.ProductID, err)
			}
			category.Products = append(category.Products, model.CatalogProduct{
				ProductID:      fp.ProductID,
				Name:           fp.Name,
				Category:       fp.Category,
				Specifications: fp.Specifications,
				UnitPrice:      unitPrice,
				Unit:           unit,
			})
		}
		categories = append(categories, category)
	}
	return New(categories)
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return ParseYAML(data)
}

// ParseUnit maps a stored unit string onto the enumerated unit set. An empty
// value means piece.
func ParseUnit(raw string) (model.Unit, error) {
	switch model.Unit(raw) {
	case model.UnitMeter, model.UnitUnit, model.UnitPiece:
		return model.Unit(raw), nil
	case "":
		return model.UnitPiece, nil
	default:
		return "", fmt.Errorf("unknown unit %q", raw)
	}
}

