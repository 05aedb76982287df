package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListProducts returns a filtered page of products.
func (c *Client) ListProducts(ctx context.Context, page PageRequest, filter ProductFilter) (*Page[Product], error) {
	q := url.Values{}
	setString(q, "name", filter.Name)
	setInt64(q, "categoryId", filter.CategoryID)
	setInt64(q, "brandId", filter.BrandID)
	setString(q, "flavor", filter.Flavor)
	setBool(q, "active", filter.Active)
	setFloat(q, "minPrice", filter.MinPrice)
	setFloat(q, "maxPrice", filter.MaxPrice)
	page.apply(q)

	var out Page[Product]
	if err := c.doJSON(ctx, http.MethodGet, "/products", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var out Product
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct creates a product from form fields, optionally with a first image.
func (c *Client) CreateProduct(ctx context.Context, req ProductRequest, image *Upload) (*Product, error) {
	fields := map[string]string{
		"name":        req.Name,
		"description": req.Description,
		"categoryId":  strconv.FormatInt(req.CategoryID, 10),
		"brandId":     strconv.FormatInt(req.BrandID, 10),
		"price":       strconv.FormatFloat(req.Price, 'f', -1, 64),
		"stock":       strconv.Itoa(req.Stock),
		"weightGrams": strconv.Itoa(req.WeightGrams),
		"flavor":      req.Flavor,
	}
	var files map[string]Upload
	if image != nil {
		files = map[string]Upload{"image": *image}
	}

	var out Product
	if err := c.doMultipart(ctx, "/products", fields, files, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, req ProductRequest) (*Product, error) {
	var out Product
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil, nil)
}

func (c *Client) SetProductStatus(ctx context.Context, id int64, active bool) error {
	q := url.Values{"active": {strconv.FormatBool(active)}}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/products/%d/status", id), q, nil, nil)
}

// UploadProductImage appends an image to the product's gallery.
func (c *Client) UploadProductImage(ctx context.Context, id int64, file Upload) (*ProductImage, error) {
	var out ProductImage
	if err := c.doMultipart(ctx, fmt.Sprintf("/products/%d/upload-image", id), nil, map[string]Upload{"file": file}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProductImage(ctx context.Context, productID, imageID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/products/%d/images/%d", productID, imageID), nil, nil, nil)
}
