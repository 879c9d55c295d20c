package api

import (
	"context"
	"net/http"

	"github.com/alextreichler/gizmogrid/internal/models"
)

func (c *Client) CountOrders(ctx context.Context) (int, error) {
	var out models.OrderCount
	if err := c.do(ctx, http.MethodGet, "/api/orders/count", "", nil, &out); err != nil {
		return 0, err
	}
	return out.TotalOrders, nil
}

// OrdersByEmail returns the order history of one customer.
func (c *Client) OrdersByEmail(ctx context.Context, token, email string) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+segment(email), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOrders is admin-only. An empty status lists every order.
func (c *Client) ListOrders(ctx context.Context, token string, page, limit int, status string) (*models.OrderPage, error) {
	var out models.OrderPage
	path := "/api/orders/" + pageQuery(page, limit, "status", status)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, token string, o models.Order) error {
	return c.do(ctx, http.MethodPost, "/api/orders", token, o, nil)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, id, status string) error {
	body := struct {
		Status string `json:"status"`
	}{Status: status}
	return c.do(ctx, http.MethodPatch, "/api/orders/"+segment(id), token, body, nil)
}
