package main

import (
	"log"
	"net/http"

	httphandlers "finmind/internal/interfaces/http"
	"finmind/internal/shared/config"
	"finmind/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Static pages (dev only)
	mux.HandleFunc("/", httphandlers.HandleLoginPage)
	mux.HandleFunc("/login", httphandlers.HandleLoginPage)
	mux.HandleFunc("/dashboard", httphandlers.HandleDashboard)

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/users/me", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleMe)))
	mux.Handle("/api/assets", authMiddleware(http.HandlerFunc(deps.AssetHandler.HandleAssets)))
	mux.Handle("/api/assets/{id}", authMiddleware(http.HandlerFunc(deps.AssetHandler.HandleAssetByID)))
	mux.Handle("/api/liabilities", authMiddleware(http.HandlerFunc(deps.LiabilityHandler.HandleLiabilities)))
	mux.Handle("/api/liabilities/{id}", authMiddleware(http.HandlerFunc(deps.LiabilityHandler.HandleLiabilityByID)))
	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactions)))
	mux.Handle("/api/transactions/{id}", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactionByID)))
	mux.Handle("/api/advisor/insights", authMiddleware(http.HandlerFunc(deps.AdvisorHandler.HandleInsights)))
	mux.Handle("/api/billing/confirm", authMiddleware(http.HandlerFunc(deps.BillingHandler.HandleConfirm)))
	mux.Handle("/api/billing/entitlement", authMiddleware(http.HandlerFunc(deps.BillingHandler.HandleEntitlement)))

	// Apply global middleware
	handler := middleware.Logging(middleware.Tracing(middleware.CORS(cfg.Server.AllowedHosts)(mux)))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
