package main

import (
	"log"

	"finmind/internal/domain/advisor"
	"finmind/internal/domain/asset"
	"finmind/internal/domain/entitlement"
	"finmind/internal/domain/liability"
	"finmind/internal/domain/transaction"
	"finmind/internal/domain/user"
	"finmind/internal/infrastructure/llm"
	"finmind/internal/infrastructure/memory"
	"finmind/internal/infrastructure/postgres"
	httphandlers "finmind/internal/interfaces/http"
	"finmind/internal/shared/auth"
	"finmind/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB // nil when running on the memory store

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	AssetHandler       *httphandlers.AssetHandler
	LiabilityHandler   *httphandlers.LiabilityHandler
	TransactionHandler *httphandlers.TransactionHandler
	AdvisorHandler     *httphandlers.AdvisorHandler
	BillingHandler     *httphandlers.BillingHandler

	// Auth
	JWT *auth.JWT
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	var (
		db              *postgres.DB
		userRepo        user.Repository
		assetRepo       asset.Repository
		liabilityRepo   liability.Repository
		transactionRepo transaction.Repository
		entitlementRepo entitlement.Repository
	)

	switch cfg.Store.Driver {
	case "memory":
		log.Println("Using in-memory store (data is lost on restart)")
		userRepo = memory.NewUserRepository()
		assetRepo = memory.NewAssetRepository()
		liabilityRepo = memory.NewLiabilityRepository()
		transactionRepo = memory.NewTransactionRepository()
		entitlementRepo = memory.NewEntitlementRepository()
	default:
		var err error
		db, err = postgres.New(cfg.Database.ConnectionString())
		if err != nil {
			return nil, err
		}
		log.Println("Connected to database")

		userRepo = postgres.NewUserRepository(db)
		assetRepo = postgres.NewAssetRepository(db)
		liabilityRepo = postgres.NewLiabilityRepository(db)
		transactionRepo = postgres.NewTransactionRepository(db)
		entitlementRepo = postgres.NewEntitlementRepository(db)
	}

	// Initialize domain services
	assetService := asset.NewService(assetRepo)
	liabilityService := liability.NewService(liabilityRepo)
	transactionService := transaction.NewService(transactionRepo)
	entitlementService := entitlement.NewService(entitlementRepo)

	// The LLM generator is optional: without an API key, insights are
	// served from metrics and rules alone.
	var generator advisor.Generator
	if cfg.Advisor.APIKey != "" {
		generator = llm.NewClient(cfg.Advisor.APIKey, cfg.Advisor.BaseURL, cfg.Advisor.Model)
		log.Printf("LLM advice generator enabled (model=%s)", cfg.Advisor.Model)
	} else {
		log.Println("LLM advice generator disabled (no ADVISOR_API_KEY)")
	}

	advisorService := advisor.NewService(assetRepo, liabilityRepo, transactionRepo, entitlementService, generator)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        httphandlers.NewAuthHandler(userRepo, entitlementService, jwt),
		UserHandler:        httphandlers.NewUserHandler(userRepo),
		AssetHandler:       httphandlers.NewAssetHandler(assetService),
		LiabilityHandler:   httphandlers.NewLiabilityHandler(liabilityService),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionService),
		AdvisorHandler:     httphandlers.NewAdvisorHandler(advisorService),
		BillingHandler:     httphandlers.NewBillingHandler(entitlementService),
		JWT:                jwt,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
