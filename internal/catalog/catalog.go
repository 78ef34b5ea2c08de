// Package catalog holds the read-only product catalog used for matching.
// A Catalog is built once and never mutated, so it is safe to share between
// any number of concurrent readers.
package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nurpe/rfp-quotation/internal/model"
)

type Category struct {
	Key      string
	Products []model.CatalogProduct
}

type Catalog struct {
	categories []Category
	products   []model.CatalogProduct
	byID       map[string]int
}

// New builds a catalog from ordered categories. Product ids must be unique
// and non-empty, prices non-negative.
func New(categories []Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		byID:       make(map[string]int),
	}
	for _, category := range categories {
		key := strings.TrimSpace(category.Key)
		if key == "" {
			return nil, fmt.Errorf("catalog: category key is required")
		}
		products := make([]model.CatalogProduct, 0, len(category.Products))
		for _, product := range category.Products {
			if err := validateProduct(product); err != nil {
				return nil, err
			}
			if _, exists := c.byID[product.ProductID]; exists {
				return nil, fmt.Errorf("catalog: duplicate product id %q", product.ProductID)
			}
			product = cloneProduct(product)
			products = append(products, product)
			c.byID[product.ProductID] = len(c.products)
			c.products = append(c.products, product)
		}
		c.categories = append(c.categories, Category{Key: key, Products: products})
	}
	return c, nil
}

// FromProducts groups flat product rows by category key, keeping the order
// in which each category and product first appears.
func FromProducts(rows []Row) (*Catalog, error) {
	index := make(map[string]int)
	var categories []Category
	for _, row := range rows {
		pos, ok := index[row.CategoryKey]
		if !ok {
			categories = append(categories, Category{Key: row.CategoryKey})
			pos = len(categories) - 1
			index[row.CategoryKey] = pos
		}
		categories[pos].Products = append(categories[pos].Products, row.Product)
	}
	return New(categories)
}

// Row is a product tagged with the key of the category it belongs to.
type Row struct {
	CategoryKey string
	Product     model.CatalogProduct
}

// Products returns every product in iteration order: category order, then
// list order within the category.
func (c *Catalog) Products() []model.CatalogProduct {
	result := make([]model.CatalogProduct, len(c.products))
	for i, product := range c.products {
		result[i] = cloneProduct(product)
	}
	return result
}

func (c *Catalog) Categories() []string {
	keys := make([]string, len(c.categories))
	for i, category := range c.categories {
		keys[i] = category.Key
	}
	return keys
}

func (c *Catalog) Lookup(productID string) (model.CatalogProduct, bool) {
	pos, ok := c.byID[productID]
	if !ok {
		return model.CatalogProduct{}, false
	}
	return cloneProduct(c.products[pos]), true
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func validateProduct(p model.CatalogProduct) error {
	if strings.TrimSpace(p.ProductID) == "" {
		return fmt.Errorf("catalog: product id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("catalog: product %s: name is required", p.ProductID)
	}
	if p.UnitPrice.IsNegative() {
		return fmt.Errorf("catalog: product %s: unit price must not be negative", p.ProductID)
	}
	return nil
}

func cloneProduct(p model.CatalogProduct) model.CatalogProduct {
	specs := make(map[string]string, len(p.Specifications))
	for k, v := range p.Specifications {
		specs[k] = v
	}
	p.Specifications = specs
	return p
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
