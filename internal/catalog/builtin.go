package catalog

import "github.com/nurpe/rfp-quotation/internal/model"

// Builtin returns the seeded electrical catalog: cables, transformers and
// lighting, in that order.
func Builtin() *Catalog {
	c, err := New(BuiltinCategories())
	if err != nil {
		panic(err)
	}
	return c
}

func BuiltinCategories() []Category {
	return []Category{
		{
			Key: "cables",
			Products: []model.CatalogProduct{
				{
					ProductID:      "CABLE-XLPE-1.5",
					Name:           "XLPE Insulated Copper Cable 1.5 sqmm",
					Category:       "Cables",
					Specifications: map[string]string{"voltage": "1100V", "current": "20A", "material": "Copper"},
					UnitPrice:      price("45.50"),
					Unit:           model.UnitMeter,
				},
				{
					ProductID:      "CABLE-PVC-2.5",
					Name:           "PVC Insulated Copper Cable 2.5 sqmm",
					Category:       "Cables",
					Specifications: map[string]string{"voltage": "1100V", "current": "27A", "material": "Copper"},
					UnitPrice:      price("68.75"),
					Unit:           model.UnitMeter,
				},
			},
		},
		{
			Key: "transformers",
			Products: []model.CatalogProduct{
				{
					ProductID:      "TRANSFORMER-11KV-500",
					Name:           "11KV/433V Distribution Transformer 500KVA",
					Category:       "Transformers",
					Specifications: map[string]string{"primary": "11KV", "secondary": "433V", "capacity": "500KVA"},
					UnitPrice:      price("450000.00"),
					Unit:           model.UnitUnit,
				},
			},
		},
		{
			Key: "lighting",
			Products: []model.CatalogProduct{
				{
					ProductID:      "LED-STREET-50W",
					Name:           "LED Street Light 50W",
					Category:       "Lighting",
					Specifications: map[string]string{"power": "50W", "lumen": "6000lm", "ip_rating": "IP65"},
					UnitPrice:      price("3200.00"),
					Unit:           model.UnitUnit,
				},
			},
		},
	}
}
