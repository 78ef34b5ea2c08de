package model

import "github.com/shopspring/decimal"

type CatalogProduct struct {
	ProductID      string            `json:"product_id"`
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	Specifications map[string]string `json:"specifications"`
	UnitPrice      decimal.Decimal   `json:"unit_price"`
	Unit           Unit              `json:"unit"`
}
