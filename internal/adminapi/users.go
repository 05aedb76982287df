package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListUsers returns a filtered page of users.
func (c *Client) ListUsers(ctx context.Context, page PageRequest, filter UserFilter) (*Page[User], error) {
	q := url.Values{}
	page.apply(q)
	setString(q, "email", filter.Email)
	setString(q, "firstName", filter.FirstName)
	setString(q, "lastName", filter.LastName)
	setBool(q, "active", filter.Active)

	var out Page[User]
	if err := c.doJSON(ctx, http.MethodGet, "/users", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetUserStatus activates or deactivates the account identified by email.
func (c *Client) SetUserStatus(ctx context.Context, email string, active bool) error {
	path := fmt.Sprintf("/users/%s/status", url.PathEscape(email))
	return c.doJSON(ctx, http.MethodPatch, path, nil, map[string]bool{"active": active}, nil)
}
