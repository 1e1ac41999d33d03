// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/amstore/ams-go/internal/cache"
	"github.com/amstore/ams-go/internal/config"
	"github.com/amstore/ams-go/internal/demo"
	"github.com/amstore/ams-go/internal/handler"
	"github.com/amstore/ams-go/internal/handler/api"
	"github.com/amstore/ams-go/internal/logging"
	"github.com/amstore/ams-go/internal/middleware"
	"github.com/amstore/ams-go/internal/render"
	"github.com/amstore/ams-go/internal/session"
	"github.com/amstore/ams-go/internal/state"
	"github.com/amstore/ams-go/internal/store"
	"github.com/amstore/ams-go/internal/version"
	"github.com/amstore/ams-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "AMS - Amazing Store\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AMS_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AMS_DB_PATH           SQLite database path (default: ./data/ams.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AMS_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AMS_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AMS_REDIS_URL         Redis URL for the fragment cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AMS_DEMO_MODE         Periodically reset demo data (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Info{
			Version:   appVersion,
			GitCommit: appGitCommit,
			BuildTime: appBuildTime,
		}
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.SetupDefault(cfg.LogLevel)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	st := store.New(db)

	// Seed default data on first run
	ctx := context.Background()
	if err := st.Seed(ctx); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize shared state (settings snapshot, current user, cart)
	stateManager := state.NewManager(st, sessionManager)
	if err := stateManager.Init(ctx); err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// Fragment cache: Redis when configured, in-process memory otherwise
	fragments := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	defer func() {
		if err := fragments.Close(); err != nil {
			slog.Error("error closing fragment cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("fragment cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("fragment cache initialized", "backend", "memory")
	}

	// Initialize template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		State:       stateManager,
		Fragments:   fragments,
		IsDev:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Demo mode: periodic wipe-and-reseed
	if cfg.DemoMode {
		resetter := demo.NewResetter(st, stateManager)
		if err := resetter.Start(cfg.DemoResetSchedule); err != nil {
			return fmt.Errorf("starting demo resetter: %w", err)
		}
		defer resetter.Stop()
	}

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadUser(stateManager))

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	// Initialize handlers
	authHandler := handler.NewAuthHandler(stateManager, renderer)
	frontendHandler := handler.NewFrontendHandler(stateManager, renderer)
	adminHandler := handler.NewAdminHandler(stateManager, renderer)
	apiHandler := api.NewHandler(st)

	// Public storefront routes (closed during maintenance, admins excepted)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Maintenance(stateManager))
		r.Use(csrfMiddleware)

		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteProductBySlug, frontendHandler.Product)
		r.Get(handler.RouteCart, frontendHandler.CartPage)
		r.Post(handler.RouteCartAdd, frontendHandler.CartAdd)
		r.Post(handler.RouteCartRemove, frontendHandler.CartRemove)
		r.Get(handler.RouteCheckout, frontendHandler.CheckoutForm)
		r.Post(handler.RouteCheckout, frontendHandler.Checkout)
		r.Get(handler.RouteBlog, frontendHandler.Blog)
		r.Get(handler.RouteBlogPost, frontendHandler.BlogPost)
	})

	// Auth routes (public, with CSRF)
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Get(handler.RouteAdminLogin, authHandler.LoginForm)
		r.Post(handler.RouteAdminLogin, authHandler.Login)
		r.Get(handler.RouteAdminLogout, authHandler.Logout)
		r.Post(handler.RouteAdminLogout, authHandler.Logout)
	})

	// Back-office routes (authenticated staff only)
	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.RequireUser)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, handler.RouteAdminDashboard, http.StatusSeeOther)
		})
		r.Get("/dashboard", adminHandler.Dashboard)
		r.Get("/products", adminHandler.Products)
		r.Get("/products/new", adminHandler.ProductForm)
		r.Post("/products/new", adminHandler.ProductSave)
		r.Get("/products/{id}", adminHandler.ProductForm)
		r.Post("/products/{id}", adminHandler.ProductSave)
		r.Post("/products/{id}/delete", adminHandler.ProductDelete)
		r.Get("/orders", adminHandler.Orders)
		r.Get("/settings", adminHandler.SettingsForm)
		r.Post("/settings", adminHandler.SettingsSave)
		r.Get("/change-password", authHandler.ChangePasswordForm)
		r.Post("/change-password", authHandler.ChangePassword)
	})

	// REST API v1 routes (read-only, rate limited per client IP)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIRateLimit(float64(cfg.APIRateLimit), cfg.APIRateBurst))

		r.Get("/products", apiHandler.Products)
		r.Get("/products/{slug}", apiHandler.ProductBySlug)
		r.Get("/posts", apiHandler.Posts)
	})
	slog.Info("REST API v1 mounted at /api/v1")

	// Static file serving
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
