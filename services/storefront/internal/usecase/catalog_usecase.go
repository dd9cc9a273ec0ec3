package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

// CatalogFilter narrows the category listing. Query matches category or
// product names, Category matches a category id or name; both ignore case.
type CatalogFilter struct {
	Query    string
	Category string
}

type CatalogUsecase struct {
	catalog provider.Catalog
	logger  *zap.Logger
}

// NewCatalogUsecase creates the catalog usecase
func NewCatalogUsecase(catalog provider.Catalog, logger *zap.Logger) *CatalogUsecase {
	return &CatalogUsecase{catalog: catalog, logger: logger}
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return u.catalog.GetProduct(ctx, id)
}

// ListCategories returns the category-wise listing. Categories left with no
// matching product are dropped.
func (u *CatalogUsecase) ListCategories(ctx context.Context, filter CatalogFilter) ([]entity.Category, error) {
	categories, err := u.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	category := strings.ToLower(strings.TrimSpace(filter.Category))
	if category == "all" {
		category = ""
	}
	if query == "" && category == "" {
		return categories, nil
	}

	out := make([]entity.Category, 0, len(categories))
	for _, c := range categories {
		if category != "" && strings.ToLower(c.ID) != category && strings.ToLower(c.CategoryName) != category {
			continue
		}
		if query == "" || strings.Contains(strings.ToLower(c.CategoryName), query) {
			out = append(out, c)
			continue
		}

		var matched []entity.Product
		for _, p := range c.Products {
			if strings.Contains(strings.ToLower(p.Name), query) {
				matched = append(matched, p)
			}
		}
		if len(matched) > 0 {
			c.Products = matched
			out = append(out, c)
		}
	}
	return out, nil
}
