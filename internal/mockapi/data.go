package mockapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dvcrn/storefront-admin/internal/adminapi"
)

const (
	roleAdmin    = "ADMIN"
	roleCustomer = "CUSTOMER"
)

type account struct {
	adminapi.User
	passwordHash []byte
}

// catalog holds the in-memory entities. It has its own lock and never takes Server.mu.
type catalog struct {
	mu         sync.Mutex
	nextID     int64
	cost       int
	brands     map[int64]*adminapi.Brand
	categories map[int64]*adminapi.Category
	products   map[int64]*adminapi.Product
	orders     map[int64]*adminapi.Order
	users      map[string]*account
}

func newCatalog(cost int) *catalog {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &catalog{
		cost:       cost,
		brands:     make(map[int64]*adminapi.Brand),
		categories: make(map[int64]*adminapi.Category),
		products:   make(map[int64]*adminapi.Product),
		orders:     make(map[int64]*adminapi.Order),
		users:      make(map[string]*account),
	}
}

func (c *catalog) id() int64 {
	c.nextID++
	return c.nextID
}

func (c *catalog) addUser(email, password, firstName, lastName, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[strings.ToLower(email)] = &account{
		User:         adminapi.User{Email: email, FirstName: firstName, LastName: lastName, Role: role, Active: true},
		passwordHash: hash,
	}
	return nil
}

func (c *catalog) user(email string) (adminapi.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.users[strings.ToLower(email)]
	if !ok {
		return adminapi.User{}, false
	}
	return a.User, true
}

// authenticate checks email and password and returns the account.
func (c *catalog) authenticate(email, password string) (adminapi.User, bool) {
	c.mu.Lock()
	a, ok := c.users[strings.ToLower(email)]
	c.mu.Unlock()
	if !ok || !a.Active {
		return adminapi.User{}, false
	}
	if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) != nil {
		return adminapi.User{}, false
	}
	return a.User, true
}

func (c *catalog) seed() {
	_ = c.addUser("admin@example.com", "admin123", "Ada", "Admin", roleAdmin)
	_ = c.addUser("jane@example.com", "customer123", "Jane", "Doe", roleCustomer)
	_ = c.addUser("john@example.com", "customer123", "John", "Smith", roleCustomer)

	c.mu.Lock()
	defer c.mu.Unlock()

	brands := []adminapi.Brand{
		{Name: "Optimum Nutrition", Description: "Whey and more", Active: true},
		{Name: "MyProtein", Description: "Budget supplements", Active: true},
		{Name: "Legacy Labs", Description: "Discontinued line", Active: false},
	}
	for i := range brands {
		b := brands[i]
		b.ID = c.id()
		c.brands[b.ID] = &b
	}

	categories := []adminapi.Category{
		{Name: "Protein", Description: "Protein powders", Active: true},
		{Name: "Pre-Workout", Description: "Energy before training", Active: true},
	}
	for i := range categories {
		cat := categories[i]
		cat.ID = c.id()
		c.categories[cat.ID] = &cat
	}

	brandIDs := sortedKeys(c.brands)
	categoryIDs := sortedKeys(c.categories)
	products := []adminapi.Product{
		{Name: "Gold Standard Whey", CategoryID: categoryIDs[0], BrandID: brandIDs[0], Price: 59.9, Stock: 40, WeightGrams: 2270, Flavor: "Chocolate", Active: true},
		{Name: "Impact Whey", CategoryID: categoryIDs[0], BrandID: brandIDs[1], Price: 34.5, Stock: 120, WeightGrams: 1000, Flavor: "Vanilla", Active: true},
		{Name: "Pump Fuel", CategoryID: categoryIDs[1], BrandID: brandIDs[1], Price: 24, Stock: 0, WeightGrams: 300, Flavor: "Berry", Active: false},
	}
	for i := range products {
		p := products[i]
		p.ID = c.id()
		p.BrandName = c.brands[p.BrandID].Name
		p.CategoryName = c.categories[p.CategoryID].Name
		p.Images = []adminapi.ProductImage{}
		c.products[p.ID] = &p
	}

	orders := []adminapi.Order{
		{UserEmail: "jane@example.com", Status: adminapi.OrderPaid, CreatedAt: "2024-05-02T10:15:00Z",
			Items: []adminapi.OrderItem{{ProductName: "Gold Standard Whey", Quantity: 1, PricePerUnit: 59.9}}},
		{UserEmail: "john@example.com", Status: adminapi.OrderPending, CreatedAt: "2024-05-10T08:00:00Z",
			Items: []adminapi.OrderItem{{ProductName: "Impact Whey", Quantity: 2, PricePerUnit: 34.5}}},
		{UserEmail: "jane@example.com", Status: adminapi.OrderDelivered, CreatedAt: "2024-04-21T17:30:00Z",
			Items: []adminapi.OrderItem{{ProductName: "Impact Whey", Quantity: 1, PricePerUnit: 34.5}}},
	}
	for i := range orders {
		o := orders[i]
		o.ID = c.id()
		for _, item := range o.Items {
			o.TotalAmount += float64(item.Quantity) * item.PricePerUnit
		}
		c.orders[o.ID] = &o
	}
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// paginate slices items according to the page and size query parameters.
func paginate[T any](r *http.Request, items []T) adminapi.Page[T] {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = adminapi.DefaultPageSize
	}

	total := len(items)
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	content := make([]T, 0, end-start)
	content = append(content, items[start:end]...)
	return adminapi.Page[T]{
		Content:       content,
		TotalPages:    (total + size - 1) / size,
		TotalElements: int64(total),
		Number:        page,
		Size:          size,
	}
}

func containsFold(haystack, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// boolFilter parses an optional boolean query parameter.
func boolFilter(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &v, nil
}

// orderDay returns the yyyy-mm-dd part of an order timestamp.
func orderDay(createdAt string) string {
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		return t.UTC().Format(time.DateOnly)
	}
	return createdAt
}
