package db

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/nurpe/rfp-quotation/internal/catalog"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS catalog_products (
		product_id VARCHAR(64) PRIMARY KEY,
		category_key VARCHAR(64) NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		specifications JSONB NOT NULL DEFAULT '{}'::jsonb,
		unit_price NUMERIC(18,2) NOT NULL CHECK (unit_price >= 0),
		unit VARCHAR(16) NOT NULL DEFAULT 'piece',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_catalog_products_position ON catalog_products (position);`,
	`CREATE INDEX IF NOT EXISTS idx_catalog_products_active ON catalog_products (active) WHERE active;`,
}

const seedStatement = `INSERT INTO catalog_products
	(product_id, category_key, position, name, category, specifications, unit_price, unit)
	VALUES (?, ?, ?, ?, ?, ?::jsonb, ?, ?)
	ON CONFLICT (product_id) DO NOTHING`

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return seedCatalog(db)
}

// seedCatalog inserts the built-in products; existing rows are left alone.
func seedCatalog(db *gorm.DB) error {
	position := 0
	for _, category := range catalog.BuiltinCategories() {
		for _, product := range category.Products {
			specs, err := json.Marshal(product.Specifications)
			if err != nil {
				return err
			}
			position++
			err = db.Exec(seedStatement,
				product.ProductID,
				category.Key,
				position,
				product.Name,
				product.Category,
				string(specs),
				product.UnitPrice.StringFixed(2),
				string(product.Unit),
			).Error
			if err != nil {
				return fmt.Errorf("seed product %s: %w", product.ProductID, err)
			}
		}
	}
	return nil
}
