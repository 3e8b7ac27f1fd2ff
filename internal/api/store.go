package api

import (
	"context"
	"fmt"

	"omniorder/internal/models"
)

// PlaceOrderModifier names one selected modifier option on a checkout line.
type PlaceOrderModifier struct {
	OptionID string `json:"optionId"`
}

// PlaceOrderItem is one checkout line in the order POST body.
type PlaceOrderItem struct {
	ID        string               `json:"id"`
	Qty       int                  `json:"qty"`
	Modifiers []PlaceOrderModifier `json:"modifiers"`
	Notes     string               `json:"notes,omitempty"`
}

// PlaceOrderRequest is the body of POST /api/v1/store/orders.
type PlaceOrderRequest struct {
	CustomerName string           `json:"customer_name"`
	TableNumber  string           `json:"table_number,omitempty"`
	Items        []PlaceOrderItem `json:"items"`
}

// GetConfig retrieves the tenant's branding configuration.
func (c *Client) GetConfig(ctx context.Context) (*models.TenantConfig, error) {
	var cfg models.TenantConfig
	if err := c.get(ctx, "/api/v1/store/config", &cfg, false); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetMenu retrieves the ranked category list with nested available items.
// Records failing boundary validation reject the whole response; shape-free
// data does not travel past this point.
func (c *Client) GetMenu(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.get(ctx, "/api/v1/store/menu", &categories, false); err != nil {
		return nil, err
	}
	for i := range categories {
		if err := categories[i].Validate(); err != nil {
			return nil, fmt.Errorf("menu: %w", err)
		}
	}
	return categories, nil
}

// PlaceOrder submits a checkout. A 429 response surfaces as ErrRateLimited.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	if req.CustomerName == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order has no items")
	}
	var order models.Order
	if err := c.post(ctx, "/api/v1/store/orders", req, &order, false); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches a single order's current state. A 404 surfaces as
// ErrNotFound, signalling the remembered reference is stale.
func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.get(ctx, "/api/v1/store/orders/"+id, &order, false); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders fetches the full active order list, the KDS baseline snapshot.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.get(ctx, "/api/v1/store/orders", &orders, true); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := orders[i].Validate(); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateOrderStatus issues the staff status-transition request.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	body := struct {
		Status models.OrderStatus `json:"status"`
	}{Status: status}
	return c.put(ctx, "/api/v1/store/orders/"+id+"/status", body, nil, true)
}
