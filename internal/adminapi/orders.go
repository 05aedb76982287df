package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListOrders returns a filtered page of orders.
func (c *Client) ListOrders(ctx context.Context, page PageRequest, filter OrderFilter) (*Page[Order], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("unknown order status %q", filter.Status)
	}
	q := url.Values{}
	page.apply(q)
	setString(q, "status", string(filter.Status))
	setString(q, "userEmail", filter.UserEmail)
	setString(q, "startDate", filter.StartDate)
	setString(q, "endDate", filter.EndDate)

	var out Page[Order]
	if err := c.doJSON(ctx, http.MethodGet, "/admin/orders", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*Order, error) {
	var out Order
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/admin/orders/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrderStatus moves an order to status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	var out Order
	body := map[string]OrderStatus{"status": status}
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/orders/%d/status", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
