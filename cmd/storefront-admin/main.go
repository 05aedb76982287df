package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dvcrn/storefront-admin/internal/adminapi"
	"github.com/dvcrn/storefront-admin/internal/authclient"
	"github.com/dvcrn/storefront-admin/internal/config"
	"github.com/dvcrn/storefront-admin/internal/logger"
	"github.com/dvcrn/storefront-admin/internal/metrics"
)

const (
	exitOK             = 0
	exitError          = 1
	exitSessionExpired = 2
)

const usage = `usage: storefront-admin <command> [flags]

commands:
  login -email E -password P   sign in and store the session
  logout                       forget the stored session
  status                       show the stored session
  dashboard                    show entity counts
  overview                     dashboard plus first page of products, brands and categories
  products [-name -active -page -size]
  brands [-name -active -page -size]
  categories [-name -active -page -size]
  orders [-status -email -from -to -page -size]
  users [-email -active -page -size]
  set-order-status -id N -status S
`

// app is what every command runs against.
type app struct {
	cfg     config.Config
	api     *adminapi.Client
	auth    *authclient.Client
	expired atomic.Bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		fmt.Fprint(os.Stderr, usage)
		return exitError
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return exitError
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Get().Error().Err(err).Msg("Invalid configuration")
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.Credentials)
	if err != nil {
		logger.Get().Error().Err(err).Str("backend", cfg.Credentials.Backend).Msg("Failed to open credentials store")
		return exitError
	}
	defer closeStore()

	a := &app{cfg: cfg}
	rec := a.startMetrics()

	a.auth, err = authclient.New(authclient.Options{
		Store:          store,
		RefreshURL:     cfg.API.RefreshURL(),
		Timeout:        cfg.API.HTTPTimeout,
		RefreshTimeout: cfg.API.RefreshTimeout,
		Metrics:        rec,
		OnLogout: func(cause error) {
			a.expired.Store(true)
			logger.Get().Warn().Err(cause).Msg("session expired, run login again")
		},
	})
	if err != nil {
		logger.Get().Error().Err(err).Msg("Failed to create API client")
		return exitError
	}
	a.api = adminapi.NewClient(cfg.API.BaseURL, a.auth.HTTP, store)

	err = cmd(ctx, a, args[1:])
	switch {
	case a.expired.Load():
		return exitSessionExpired
	case errors.Is(err, errUsage):
		return exitError
	case err != nil:
		var apiErr *adminapi.APIError
		if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
			logger.Get().Error().Msg("not logged in, run login first")
			return exitSessionExpired
		}
		logger.Get().Error().Err(err).Msg("Command failed")
		return exitError
	}
	return exitOK
}

// startMetrics serves /metrics when ADMIN_METRICS_ADDR is set and returns the recorder to use.
func (a *app) startMetrics() metrics.Recorder {
	if a.cfg.MetricsAddr == "" {
		return metrics.NewNoop()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	rec := metrics.NewPrometheus(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	go func() {
		logger.Get().Info().Msgf("Serving metrics on %s", a.cfg.MetricsAddr)
		if err := http.ListenAndServe(a.cfg.MetricsAddr, mux); err != nil {
			logger.Get().Error().Err(err).Msg("Metrics server stopped")
		}
	}()
	return rec
}
