package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"finmind/internal/domain/advisor"
	"finmind/internal/domain/asset"
	"finmind/internal/domain/entitlement"
	"finmind/internal/domain/liability"
	"finmind/internal/domain/transaction"
	"finmind/internal/domain/user"
	"finmind/internal/infrastructure/memory"
	httphandlers "finmind/internal/interfaces/http"
	"finmind/internal/shared/auth"
	"finmind/internal/shared/middleware"
)

// Demo server: in-memory store seeded with a sample portfolio so the
// dashboard and insights can be explored without a database or any
// environment setup.

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	email := flag.String("email", "demo@finmind.local", "Demo account email")
	password := flag.String("password", "demo1234", "Demo account password")
	flag.Parse()

	if err := run(*addr, *email, *password); err != nil {
		log.Fatalf("Demo error: %v", err)
	}
}

func run(addr, email, password string) error {
	userRepo := memory.NewUserRepository()
	assetRepo := memory.NewAssetRepository()
	liabilityRepo := memory.NewLiabilityRepository()
	transactionRepo := memory.NewTransactionRepository()
	entitlementRepo := memory.NewEntitlementRepository()

	assetService := asset.NewService(assetRepo)
	liabilityService := liability.NewService(liabilityRepo)
	transactionService := transaction.NewService(transactionRepo)
	entitlementService := entitlement.NewService(entitlementRepo)
	advisorService := advisor.NewService(assetRepo, liabilityRepo, transactionRepo, entitlementService, nil)

	ctx := context.Background()
	if err := seed(ctx, userRepo, entitlementService, assetService, liabilityService, transactionService, email, password); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	log.Printf("Demo account ready: %s / %s", email, password)

	jwt := auth.NewJWT("demo-secret-not-for-production")
	authMiddleware := middleware.Auth(jwt)

	authHandler := httphandlers.NewAuthHandler(userRepo, entitlementService, jwt)
	userHandler := httphandlers.NewUserHandler(userRepo)
	assetHandler := httphandlers.NewAssetHandler(assetService)
	liabilityHandler := httphandlers.NewLiabilityHandler(liabilityService)
	transactionHandler := httphandlers.NewTransactionHandler(transactionService)
	advisorHandler := httphandlers.NewAdvisorHandler(advisorService)
	billingHandler := httphandlers.NewBillingHandler(entitlementService)

	mux := http.NewServeMux()
	mux.HandleFunc("/", httphandlers.HandleLoginPage)
	mux.HandleFunc("/login", httphandlers.HandleLoginPage)
	mux.HandleFunc("/dashboard", httphandlers.HandleDashboard)
	mux.HandleFunc("/health", httphandlers.HandleHealth)
	mux.HandleFunc("/api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", authHandler.HandleLogout)
	mux.Handle("/api/users/me", authMiddleware(http.HandlerFunc(userHandler.HandleMe)))
	mux.Handle("/api/assets", authMiddleware(http.HandlerFunc(assetHandler.HandleAssets)))
	mux.Handle("/api/assets/{id}", authMiddleware(http.HandlerFunc(assetHandler.HandleAssetByID)))
	mux.Handle("/api/liabilities", authMiddleware(http.HandlerFunc(liabilityHandler.HandleLiabilities)))
	mux.Handle("/api/liabilities/{id}", authMiddleware(http.HandlerFunc(liabilityHandler.HandleLiabilityByID)))
	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(transactionHandler.HandleTransactions)))
	mux.Handle("/api/transactions/{id}", authMiddleware(http.HandlerFunc(transactionHandler.HandleTransactionByID)))
	mux.Handle("/api/advisor/insights", authMiddleware(http.HandlerFunc(advisorHandler.HandleInsights)))
	mux.Handle("/api/billing/confirm", authMiddleware(http.HandlerFunc(billingHandler.HandleConfirm)))
	mux.Handle("/api/billing/entitlement", authMiddleware(http.HandlerFunc(billingHandler.HandleEntitlement)))

	srv := &http.Server{
		Addr:         addr,
		Handler:      middleware.Logging(middleware.CORS(nil)(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Demo server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Demo server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Demo server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seed creates the demo user on the plus plan with a portfolio that
// trips several rules: a high debt ratio and a concentrated expense
// category make the insights view interesting out of the box.
func seed(
	ctx context.Context,
	users user.Repository,
	entitlements *entitlement.Service,
	assets *asset.Service,
	liabilities *liability.Service,
	transactions *transaction.Service,
	email, password string,
) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u, err := users.Create(ctx, user.CreateUserParams{
		Email:        email,
		Name:         "Demo User",
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	if _, err := entitlements.SignUp(ctx, u.ID, entitlement.PlanPlus); err != nil {
		return err
	}

	cash := "cash"
	invest := "investment"
	if _, err := assets.Create(ctx, asset.CreateParams{OwnerID: u.ID, Name: "Checking account", Tag: &cash, Value: decimal.NewFromInt(4200)}); err != nil {
		return err
	}
	if _, err := assets.Create(ctx, asset.CreateParams{OwnerID: u.ID, Name: "Index funds", Tag: &invest, Value: decimal.NewFromInt(18500)}); err != nil {
		return err
	}
	if _, err := liabilities.Create(ctx, liability.CreateParams{OwnerID: u.ID, Name: "Car loan", Value: decimal.NewFromInt(13100)}); err != nil {
		return err
	}
	if _, err := liabilities.Create(ctx, liability.CreateParams{OwnerID: u.ID, Name: "Credit card", Value: decimal.NewFromInt(2300)}); err != nil {
		return err
	}

	now := time.Now()
	flows := []struct {
		daysAgo  int
		title    string
		category string
		kind     transaction.Kind
		amount   int64
	}{
		{3, "Salary", "Salary", transaction.KindIncome, 4800},
		{33, "Salary", "Salary", transaction.KindIncome, 4800},
		{2, "Rent", "Housing", transaction.KindExpense, -1900},
		{32, "Rent", "Housing", transaction.KindExpense, -1900},
		{5, "Supermarket", "groceries", transaction.KindExpense, -430},
		{12, "Supermarket", "groceries", transaction.KindExpense, -385},
		{7, "Restaurant week", "dining", transaction.KindExpense, -260},
		{9, "Gas", "car", transaction.KindExpense, -95},
		{15, "Streaming", "subscriptions", transaction.KindExpense, -45},
		{21, "Pharmacy", "health", transaction.KindExpense, -60},
		{25, "Concert tickets", "", transaction.KindExpense, -140},
	}
	for _, f := range flows {
		var category *string
		if f.category != "" {
			c := f.category
			category = &c
		}
		_, err := transactions.Create(ctx, transaction.CreateParams{
			OwnerID:    u.ID,
			Title:      f.title,
			Category:   category,
			Kind:       f.kind,
			Amount:     decimal.NewFromInt(f.amount),
			OccurredOn: now.AddDate(0, 0, -f.daysAgo),
		})
		if err != nil {
			return err
		}
	}

	return nil
}
