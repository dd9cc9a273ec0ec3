package backend

import (
	"context"
	"net/url"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

var _ provider.Catalog = (*Client)(nil)

func (c *Client) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	if err := c.getJSON(ctx, "get product", "/products/product/show/"+url.PathEscape(id), "", &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	if err := c.getJSON(ctx, "list categories", "/products/product/category-wise/products", "", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
