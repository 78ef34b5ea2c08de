package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/rfp-quotation/internal/catalog"
	"github.com/nurpe/rfp-quotation/internal/model"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type catalogProductRow struct {
	ProductID      string
	CategoryKey    string
	Name           string
	Category       string
	Specifications string
	UnitPrice      string
	Unit           string
}

// ListProducts returns active products ordered by their catalog position.
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]catalog.Row, error) {
	var rows []catalogProductRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			category_key,
			name,
			category,
			specifications::text AS specifications,
			unit_price::text AS unit_price,
			unit
		FROM catalog_products
		WHERE active
		ORDER BY position, product_id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]catalog.Row, 0, len(rows))
	for _, row := range rows {
		product, err := row.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, catalog.Row{CategoryKey: row.CategoryKey, Product: product})
	}
	return result, nil
}

func (row catalogProductRow) toModel() (model.CatalogProduct, error) {
	specs := map[string]string{}
	if row.Specifications != "" {
		if err := json.Unmarshal([]byte(row.Specifications), &specs); err != nil {
			return model.CatalogProduct{}, fmt.Errorf("product %s: decode specifications: %w", row.ProductID, err)
		}
	}
	price, err := decimal.NewFromString(row.UnitPrice)
	if err != nil {
		return model.CatalogProduct{}, fmt.Errorf("product %s: decode unit price: %w", row.ProductID, err)
	}
	unit, err := catalog.ParseUnit(row.Unit)
	if err != nil {
		return model.CatalogProduct{}, fmt.Errorf("product %s: %w", row.ProductID, err)
	}
	return model.CatalogProduct{
		ProductID:      row.ProductID,
		Name:           row.Name,
		Category:       row.Category,
		Specifications: specs,
		UnitPrice:      price,
		Unit:           unit,
	}, nil
}
