package adminapi

import (
	"context"
	"net/http"
)

// DashboardSummary returns the entity counts shown on the console's landing page.
func (c *Client) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var out DashboardSummary
	if err := c.doJSON(ctx, http.MethodGet, "/dashboard/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
