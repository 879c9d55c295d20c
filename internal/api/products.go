package api

import (
	"context"
	"net/http"

	"github.com/alextreichler/gizmogrid/internal/models"
)

// AllProducts returns the whole catalog.
func (c *Client) AllProducts(ctx context.Context) ([]models.Product, error) {
	var out models.ProductPage
	if err := c.do(ctx, http.MethodGet, "/api/products/all", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// ListProducts returns one page of products matching search.
func (c *Client) ListProducts(ctx context.Context, page, limit int, search string) (*models.ProductPage, error) {
	var out models.ProductPage
	path := "/api/products/" + pageQuery(page, limit, "search", search)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, p models.Product) error {
	return c.do(ctx, http.MethodPost, "/api/products", token, p, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, p models.Product) error {
	return c.do(ctx, http.MethodPatch, "/api/products/"+segment(id), token, p, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+segment(id), token, nil, nil)
}
