package mockapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dvcrn/storefront-admin/internal/adminapi"
	"github.com/dvcrn/storefront-admin/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func call(t *testing.T, srv *Server, method, path, token string, body interface{}) (int, adminapi.StandardResponse[json.RawMessage]) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var envelope adminapi.StandardResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return rec.Code, envelope
}

func login(t *testing.T, srv *Server, email, password string) adminapi.LoginResponse {
	t.Helper()
	code, env := call(t, srv, http.MethodPost, "/api/auth/login", "", adminapi.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, code)
	var tokens adminapi.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	return tokens
}

func TestLogin(t *testing.T) {
	srv := New(Options{Seed: true, PasswordCost: bcrypt.MinCost})

	tokens := login(t, srv, "admin@example.com", "admin123")
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, int64(DefaultAccessTTL/time.Second), tokens.ExpiresIn)

	code, env := call(t, srv, http.MethodPost, "/api/auth/login", "", adminapi.LoginRequest{Email: "admin@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_BAD_CREDENTIALS", env.ErrorCode)
	assert.NotEmpty(t, env.TraceID)
	assert.Equal(t, "/api/auth/login", env.Path)

	code, _ = call(t, srv, http.MethodPost, "/api/auth/login", "", adminapi.LoginRequest{Email: "jane@example.com", Password: "customer123"})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestProtectedRoutesRequireValidToken(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	srv := New(Options{Seed: true, PasswordCost: bcrypt.MinCost, AccessTTL: time.Minute, Now: clock})
	tokens := login(t, srv, "admin@example.com", "admin123")

	code, _ := call(t, srv, http.MethodGet, "/api/dashboard/summary", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, srv, http.MethodGet, "/api/dashboard/summary", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := call(t, srv, http.MethodGet, "/api/dashboard/summary", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	var summary adminapi.DashboardSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, adminapi.DashboardSummary{Products: 3, Brands: 3, Categories: 2, Orders: 3, Users: 3}, summary)

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()
	code, env = call(t, srv, http.MethodGet, "/api/dashboard/summary", tokens.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_INVALID_TOKEN", env.ErrorCode)
}

func TestExpireAccessTokens(t *testing.T) {
	srv := New(Options{Seed: true, PasswordCost: bcrypt.MinCost})
	tokens := login(t, srv, "admin@example.com", "admin123")

	srv.ExpireAccessTokens()
	code, _ := call(t, srv, http.MethodGet, "/api/brands", tokens.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	fresh := login(t, srv, "admin@example.com", "admin123")
	code, _ = call(t, srv, http.MethodGet, "/api/brands", fresh.AccessToken, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRefreshRotatesSingleUseTokens(t *testing.T) {
	srv := New(Options{Seed: true, PasswordCost: bcrypt.MinCost})
	tokens := login(t, srv, "admin@example.com", "admin123")

	body := map[string]string{"refreshToken": tokens.RefreshToken}
	code, env := call(t, srv, http.MethodPost, "/api/auth/refresh", "", body)
	require.Equal(t, http.StatusOK, code)
	var rotated adminapi.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &rotated))
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, rotated.AccessToken)

	code, env = call(t, srv, http.MethodPost, "/api/auth/refresh", "", body)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_REFRESH_EXPIRED", env.ErrorCode)
	assert.Equal(t, 2, srv.RefreshCalls())
}

func TestRefreshHooks(t *testing.T) {
	srv := New(Options{Seed: true, PasswordCost: bcrypt.MinCost})
	tokens := login(t, srv, "admin@example.com", "admin123")
	body := map[string]string{"refreshToken": tokens.RefreshToken}

	srv.FailRefresh(true)
	code, _ := call(t, srv, http.MethodPost, "/api/auth/refresh", "", body)
	assert.Equal(t, http.StatusUnauthorized, code)
	srv.FailRefresh(false)

	release := srv.HoldRefresh()
	done := make(chan int, 1)
	go func() {
		code, _ := call(t, srv, http.MethodPost, "/api/auth/refresh", "", body)
		done <- code
	}()

	select {
	case <-done:
		t.Fatal("refresh answered while held")
	case <-time.After(50 * time.Millisecond):
	}
	release()
	assert.Equal(t, http.StatusOK, <-done)
}

func TestListFiltersAndPagination(t *testing.T) {
	srv := New(Options{Seed: true, PasswordCost: bcrypt.MinCost})
	token := login(t, srv, "admin@example.com", "admin123").AccessToken

	testCases := []struct {
		name      string
		path      string
		wantTotal int64
		wantSize  int
	}{
		{name: "active brands", path: "/api/brands?active=true", wantTotal: 2, wantSize: 10},
		{name: "brand name", path: "/api/brands?name=legacy", wantTotal: 1, wantSize: 10},
		{name: "products by price", path: "/api/products?minPrice=30&maxPrice=40", wantTotal: 1, wantSize: 10},
		{name: "products paged", path: "/api/products?page=1&size=2", wantTotal: 3, wantSize: 2},
		{name: "orders by status", path: "/api/admin/orders?status=PAID", wantTotal: 1, wantSize: 10},
		{name: "orders by date", path: "/api/admin/orders?startDate=2024-05-01&endDate=2024-05-31", wantTotal: 2, wantSize: 10},
		{name: "users by email", path: "/api/users?email=jane", wantTotal: 1, wantSize: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := call(t, srv, http.MethodGet, tc.path, token, nil)
			require.Equal(t, http.StatusOK, code)
			var page adminapi.Page[json.RawMessage]
			require.NoError(t, json.Unmarshal(env.Data, &page))
			assert.Equal(t, tc.wantTotal, page.TotalElements)
			assert.Equal(t, tc.wantSize, page.Size)
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	req := httptest.NewRequest(http.MethodGet, "/x?page=2&size=2", nil)
	page := paginate(req, items)
	assert.Equal(t, []int{5}, page.Content)
	assert.Equal(t, 3, page.TotalPages)

	req = httptest.NewRequest(http.MethodGet, "/x?page=9", nil)
	page = paginate(req, items)
	assert.Empty(t, page.Content)
	assert.Equal(t, adminapi.DefaultPageSize, page.Size)
}

func TestPasswordCost(t *testing.T) {
	srv := New(Options{PasswordCost: bcrypt.MinCost})
	require.NoError(t, srv.AddUser("ops@example.com", "secret", "Op", "Erator", roleAdmin))

	a := srv.data.users["ops@example.com"]
	cost, err := bcrypt.Cost(a.passwordHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.Equal(t, bcrypt.DefaultCost, New(Options{}).data.cost)
}
