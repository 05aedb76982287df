// Package mockapi is an in-memory stand-in for the storefront admin API. It backs the
// package tests and the storefront-admin-mock command.
package mockapi

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/dvcrn/storefront-admin/internal/adminapi"
	"github.com/dvcrn/storefront-admin/internal/logger"
)

const (
	issuer = "storefront-admin-mock"

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Options configures a Server.
type Options struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Now overrides the clock used for token issuing and validation.
	Now func() time.Time
	// Seed controls whether the demo catalog is loaded.
	Seed bool
	// PasswordCost is the bcrypt cost for account passwords. Zero means bcrypt.DefaultCost.
	PasswordCost int
}

// Server implements the admin API over in-memory data.
type Server struct {
	router     *mux.Router
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	mu            sync.Mutex
	generation    int64
	refreshTokens map[string]refreshGrant
	data          *catalog

	refreshCalls atomic.Int32
	failRefresh  atomic.Bool
	refreshHold  atomic.Pointer[chan struct{}]
}

type ctxKey int

const claimsKey ctxKey = iota

// New builds a Server.
func New(opts Options) *Server {
	s := &Server{
		router:        mux.NewRouter(),
		secret:        opts.Secret,
		accessTTL:     opts.AccessTTL,
		refreshTTL:    opts.RefreshTTL,
		now:           opts.Now,
		refreshTokens: make(map[string]refreshGrant),
		data:          newCatalog(opts.PasswordCost),
	}
	if len(s.secret) == 0 {
		s.secret = []byte("storefront-admin-mock-secret")
	}
	if s.accessTTL <= 0 {
		s.accessTTL = DefaultAccessTTL
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = DefaultRefreshTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Seed {
		s.data.seed()
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(loggingMiddleware)
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)

	protected.HandleFunc("/dashboard/summary", s.handleDashboard).Methods(http.MethodGet)

	protected.HandleFunc("/brands", s.handleListBrands).Methods(http.MethodGet)
	protected.HandleFunc("/brands", s.handleCreateBrand).Methods(http.MethodPost)
	protected.HandleFunc("/brands/{id:[0-9]+}", s.handleGetBrand).Methods(http.MethodGet)
	protected.HandleFunc("/brands/{id:[0-9]+}", s.handleUpdateBrand).Methods(http.MethodPut)
	protected.HandleFunc("/brands/{id:[0-9]+}", s.handleDeleteBrand).Methods(http.MethodDelete)
	protected.HandleFunc("/brands/{id:[0-9]+}/status", s.handleBrandStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/brands/{id:[0-9]+}/upload-logo", s.handleBrandLogo).Methods(http.MethodPost)
	protected.HandleFunc("/brands/{id:[0-9]+}/image", s.handleDeleteBrandImage).Methods(http.MethodDelete)

	protected.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)
	protected.HandleFunc("/categories", s.handleCreateCategory).Methods(http.MethodPost)
	protected.HandleFunc("/categories/{id:[0-9]+}", s.handleGetCategory).Methods(http.MethodGet)
	protected.HandleFunc("/categories/{id:[0-9]+}", s.handleUpdateCategory).Methods(http.MethodPut)
	protected.HandleFunc("/categories/{id:[0-9]+}", s.handleDeleteCategory).Methods(http.MethodDelete)
	protected.HandleFunc("/categories/{id:[0-9]+}/status", s.handleCategoryStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/categories/{id:[0-9]+}/upload-image", s.handleCategoryImage).Methods(http.MethodPost)
	protected.HandleFunc("/categories/{id:[0-9]+}/image", s.handleDeleteCategoryImage).Methods(http.MethodDelete)

	protected.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	protected.HandleFunc("/products", s.handleCreateProduct).Methods(http.MethodPost)
	protected.HandleFunc("/products/{id:[0-9]+}", s.handleGetProduct).Methods(http.MethodGet)
	protected.HandleFunc("/products/{id:[0-9]+}", s.handleUpdateProduct).Methods(http.MethodPut)
	protected.HandleFunc("/products/{id:[0-9]+}", s.handleDeleteProduct).Methods(http.MethodDelete)
	protected.HandleFunc("/products/{id:[0-9]+}/status", s.handleProductStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/products/{id:[0-9]+}/upload-image", s.handleProductImage).Methods(http.MethodPost)
	protected.HandleFunc("/products/{id:[0-9]+}/images/{imageId:[0-9]+}", s.handleDeleteProductImage).Methods(http.MethodDelete)

	protected.HandleFunc("/admin/orders", s.handleListOrders).Methods(http.MethodGet)
	protected.HandleFunc("/admin/orders/{id:[0-9]+}", s.handleGetOrder).Methods(http.MethodGet)
	protected.HandleFunc("/admin/orders/{id:[0-9]+}/status", s.handleOrderStatus).Methods(http.MethodPut)

	protected.HandleFunc("/users", s.handleListUsers).Methods(http.MethodGet)
	protected.HandleFunc("/users/{email}/status", s.handleUserStatus).Methods(http.MethodPatch)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no such endpoint")
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on addr until the listener fails.
func (s *Server) Start(addr string) error {
	logger.Get().Info().Msgf("Starting mock admin API on %s", addr)
	return http.ListenAndServe(addr, s)
}

// AddUser registers an account that can log in with password.
func (s *Server) AddUser(email, password, firstName, lastName, role string) error {
	return s.data.addUser(email, password, firstName, lastName, role)
}

// IssueTokens logs email in without a password, for tests.
func (s *Server) IssueTokens(email string) (adminapi.LoginResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role := roleAdmin
	if u, ok := s.data.user(email); ok {
		role = u.Role
	}
	return s.issuePairLocked(email, role)
}

// ExpireAccessTokens invalidates every access token issued so far. Refresh tokens stay valid.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
}

// RevokeRefreshTokens invalidates every outstanding refresh token.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	s.refreshTokens = make(map[string]refreshGrant)
	s.mu.Unlock()
}

// RefreshCalls returns how many times the refresh endpoint was hit.
func (s *Server) RefreshCalls() int {
	return int(s.refreshCalls.Load())
}

// FailRefresh makes the refresh endpoint reject every call while on is true.
func (s *Server) FailRefresh(on bool) {
	s.failRefresh.Store(on)
}

// HoldRefresh parks refresh calls until the returned release func is called.
func (s *Server) HoldRefresh() (release func()) {
	ch := make(chan struct{})
	s.refreshHold.Store(&ch)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.refreshHold.Store(nil)
			close(ch)
		})
	}
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeError(w, r, http.StatusUnauthorized, "AUTH_MISSING_TOKEN", "authentication required")
			return
		}
		claims, err := s.verifyAccess(raw)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "AUTH_INVALID_TOKEN", "access token expired or invalid")
			return
		}
		if claims.Role != roleAdmin {
			writeError(w, r, http.StatusForbidden, "AUTH_FORBIDDEN", "admin role required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.For("mockapi")

		log.Debug().
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Str("remote_addr", r.RemoteAddr).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Msg("Incoming request")

		next.ServeHTTP(w, r)

		log.Debug().
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Dur("duration", time.Since(start)).
			Msg("Finished request")
	})
}
