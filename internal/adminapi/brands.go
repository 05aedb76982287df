package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListBrands returns a filtered page of brands.
func (c *Client) ListBrands(ctx context.Context, page PageRequest, filter BrandFilter) (*Page[Brand], error) {
	q := url.Values{}
	page.apply(q)
	setString(q, "name", filter.Name)
	setBool(q, "active", filter.Active)

	var out Page[Brand]
	if err := c.doJSON(ctx, http.MethodGet, "/brands", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllActiveBrands returns every active brand without pagination.
func (c *Client) AllActiveBrands(ctx context.Context) ([]Brand, error) {
	page, err := c.ListBrands(ctx, PageRequest{Size: allPageSize}, BrandFilter{Active: Bool(true)})
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *Client) GetBrand(ctx context.Context, id int64) (*Brand, error) {
	var out Brand
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/brands/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBrand(ctx context.Context, form BrandForm) (*Brand, error) {
	var out Brand
	if err := c.doJSON(ctx, http.MethodPost, "/brands", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBrand(ctx context.Context, id int64, form BrandForm) (*Brand, error) {
	var out Brand
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/brands/%d", id), nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBrand(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/brands/%d", id), nil, nil, nil)
}

// SetBrandStatus activates or deactivates a brand.
func (c *Client) SetBrandStatus(ctx context.Context, id int64, active bool) error {
	q := url.Values{"active": {strconv.FormatBool(active)}}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/brands/%d/status", id), q, nil, nil)
}

// UploadBrandLogo replaces the brand's logo.
func (c *Client) UploadBrandLogo(ctx context.Context, id int64, file Upload) (*Brand, error) {
	var out Brand
	if err := c.doMultipart(ctx, fmt.Sprintf("/brands/%d/upload-logo", id), nil, map[string]Upload{"file": file}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBrandImage(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/brands/%d/image", id), nil, nil, nil)
}
