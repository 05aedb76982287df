package adminapi

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// StandardResponse is the envelope every admin API endpoint answers with.
type StandardResponse[T any] struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	TraceID   string `json:"traceId"`
	Data      T      `json:"data"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

const (
	DefaultPageSize = 10
	// allPageSize is what the console uses to fetch "everything" for dropdowns.
	allPageSize = 999
)

// PageRequest selects a page. A zero Size means DefaultPageSize.
type PageRequest struct {
	Page int
	Size int
	Sort string
}

func (p PageRequest) apply(q url.Values) {
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(size))
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
}

// Bool returns a pointer to b, for optional filter fields.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f, for optional filter fields.
func Float(f float64) *float64 { return &f }

func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setBool(q url.Values, key string, value *bool) {
	if value != nil {
		q.Set(key, strconv.FormatBool(*value))
	}
}

func setInt64(q url.Values, key string, value int64) {
	if value != 0 {
		q.Set(key, strconv.FormatInt(value, 10))
	}
}

func setFloat(q url.Values, key string, value *float64) {
	if value != nil {
		q.Set(key, strconv.FormatFloat(*value, 'f', -1, 64))
	}
}

// Brand is a product brand.
type Brand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logoUrl"`
	Active      bool   `json:"active"`
}

// BrandForm is the create/update payload for brands.
type BrandForm struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
}

// BrandFilter narrows ListBrands.
type BrandFilter struct {
	Name   string
	Active *bool
}

// Category is a product category.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Active      bool   `json:"active"`
}

// CategoryForm is the create/update payload for categories.
type CategoryForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryFilter narrows ListCategories.
type CategoryFilter struct {
	Name   string
	Active *bool
}

// ProductImage is one image attached to a product.
type ProductImage struct {
	ID           int64  `json:"id"`
	ImageURL     string `json:"imageUrl"`
	DisplayOrder int    `json:"displayOrder"`
}

// Product is a catalog entry.
type Product struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	CategoryID   int64          `json:"categoryId"`
	CategoryName string         `json:"categoryName"`
	BrandID      int64          `json:"brandId"`
	BrandName    string         `json:"brandName"`
	Price        float64        `json:"price"`
	Stock        int            `json:"stock"`
	WeightGrams  int            `json:"weightGrams"`
	Flavor       string         `json:"flavor"`
	Images       []ProductImage `json:"images"`
	Active       bool           `json:"active"`
}

// ProductRequest is the create/update payload for products.
type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  int64   `json:"categoryId"`
	BrandID     int64   `json:"brandId"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	WeightGrams int     `json:"weightGrams"`
	Flavor      string  `json:"flavor"`
}

// ProductFilter narrows ListProducts.
type ProductFilter struct {
	Name       string
	CategoryID int64
	BrandID    int64
	Flavor     string
	Active     *bool
	MinPrice   *float64
	MaxPrice   *float64
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderPaid       OrderStatus = "PAID"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderPaid, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductName  string  `json:"productName"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit"`
	ImageURL     string  `json:"imageUrl,omitempty"`
}

// Order is a customer order.
type Order struct {
	ID          int64       `json:"id"`
	UserEmail   string      `json:"userEmail,omitempty"`
	TotalAmount float64     `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   string      `json:"createdAt"`
	Items       []OrderItem `json:"items"`
}

// OrderFilter narrows ListOrders. Dates are ISO yyyy-mm-dd.
type OrderFilter struct {
	Status    OrderStatus
	UserEmail string
	StartDate string
	EndDate   string
}

// User is a storefront account.
type User struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role,omitempty"`
	Active    bool   `json:"active"`
}

// UserFilter narrows ListUsers.
type UserFilter struct {
	Email     string
	FirstName string
	LastName  string
	Active    *bool
}

// DashboardSummary holds the headline counts of the console.
type DashboardSummary struct {
	Products   int64 `json:"products"`
	Brands     int64 `json:"brands"`
	Categories int64 `json:"categories"`
	Orders     int64 `json:"orders"`
	Users      int64 `json:"users"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the credential pair returned by login and refresh.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// rawResponse defers decoding of data until the caller's type is known.
type rawResponse = StandardResponse[json.RawMessage]
