package main

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/miradev/mira/internal"
	"github.com/miradev/mira/internal/adminflow"
	"github.com/miradev/mira/internal/auth"
	"github.com/miradev/mira/internal/cart"
	"github.com/miradev/mira/internal/catalog"
	"github.com/miradev/mira/internal/email"
	"github.com/miradev/mira/internal/handler"
	adminhandler "github.com/miradev/mira/internal/handler/admin"
	"github.com/miradev/mira/internal/handler/storefront"
	"github.com/miradev/mira/internal/middleware"
	"github.com/miradev/mira/internal/postgres"
	"github.com/miradev/mira/internal/router"
	"github.com/miradev/mira/internal/routes"
	"github.com/miradev/mira/internal/storage"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	productStore := postgres.NewProductStore(pool)
	accountStore := postgres.NewAccountStore(pool)
	roleStore := postgres.NewRoleStore(pool)
	settingsStore := postgres.NewSettingsStore(pool)

	// Initialize email delivery
	sender := email.NewSMTPSender(cfg.Email, logger)
	mailer := email.NewService(sender, cfg.Email.FromName, cfg.BaseURL)

	// Initialize authentication
	authService := auth.NewService(accountStore, mailer, logger)
	unsubscribe := authService.Subscribe(func(change auth.Change) {
		switch change.Event {
		case auth.EventSignedIn:
			logger.Info("account signed in", "email", change.Session.Email)
		case auth.EventSignedOut:
			logger.Info("account signed out")
		}
	})
	defer unsubscribe()

	// Initialize image storage
	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "provider", cfg.Storage.Provider)

	// Initialize in-memory state
	carts := cart.NewManager()
	wizards := adminflow.NewWizards()
	feed := catalog.NewFeed(productStore)

	// Load templates with renderer
	logger.Info("Loading templates...")
	renderer, err := handler.NewRenderer("web/templates")
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	logger.Info("Templates loaded successfully")

	secure := cfg.Env == "prod"

	// Admin browser session: gate flag and flash messages
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	// CSRF protection for admin forms
	csrfKey := sha256.Sum256([]byte(cfg.SessionSecret))
	var csrfProtect router.Middleware = csrf.Protect(csrfKey[:],
		csrf.Secure(secure),
		csrf.Path("/"),
	)

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("mira")

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	storefrontDeps := routes.StorefrontDeps{
		Handler: storefront.NewHandler(feed, productStore, settingsStore, carts,
			renderer, cfg.WhatsAppNumber, secure),
	}

	adminDeps := routes.AdminDeps{
		Handler: adminhandler.NewHandler(authService, wizards, productStore, feed,
			settingsStore, store, sessionStore, renderer,
			cfg.AccessPassword, cfg.WhatsAppNumber, secure),
		Gate: middleware.WithGate(sessionStore, roleStore),
		CSRF: csrfProtect,
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.WithSession(authService),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	// Static files and locally stored uploads
	r.Static("/static/", "./web/static")
	if cfg.Storage.Provider == "local" || cfg.Storage.Provider == "" {
		r.Static(cfg.Storage.LocalURL, cfg.Storage.LocalPath)
	}

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterAdminRoutes(r, adminDeps)

	// ==========================================================================
	// Start server
	// ==========================================================================

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr, "env", cfg.Env)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
