package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListCategories returns a filtered page of categories.
func (c *Client) ListCategories(ctx context.Context, page PageRequest, filter CategoryFilter) (*Page[Category], error) {
	q := url.Values{}
	page.apply(q)
	setString(q, "name", filter.Name)
	setBool(q, "active", filter.Active)

	var out Page[Category]
	if err := c.doJSON(ctx, http.MethodGet, "/categories", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllActiveCategories returns every active category without pagination.
func (c *Client) AllActiveCategories(ctx context.Context) ([]Category, error) {
	page, err := c.ListCategories(ctx, PageRequest{Size: allPageSize}, CategoryFilter{Active: Bool(true)})
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *Client) GetCategory(ctx context.Context, id int64) (*Category, error) {
	var out Category
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/categories/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCategory(ctx context.Context, form CategoryForm) (*Category, error) {
	var out Category
	if err := c.doJSON(ctx, http.MethodPost, "/categories", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, form CategoryForm) (*Category, error) {
	var out Category
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil, nil)
}

func (c *Client) SetCategoryStatus(ctx context.Context, id int64, active bool) error {
	q := url.Values{"active": {strconv.FormatBool(active)}}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/categories/%d/status", id), q, nil, nil)
}

func (c *Client) UploadCategoryImage(ctx context.Context, id int64, file Upload) (*Category, error) {
	var out Category
	if err := c.doMultipart(ctx, fmt.Sprintf("/categories/%d/upload-image", id), nil, map[string]Upload{"file": file}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategoryImage(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d/image", id), nil, nil, nil)
}
