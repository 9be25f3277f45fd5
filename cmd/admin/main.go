package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"finmind/internal/domain/entitlement"
	"finmind/internal/infrastructure/postgres"
	"finmind/internal/shared/config"
)

const usage = `FinMind Admin CLI - Management commands for the FinMind API

Usage:
  admin <command> [options]

Commands:
  grant-plan      Apply a paid plan to a user's entitlement
  normalize       Sweep entitlements and downgrade lapsed trials and plans

Examples:
  # Grant the plus plan to a user
  admin grant-plan --user-id=1 --plan=plus

  # Normalize specific users
  admin normalize --user-id=1,2,3

  # Normalize every user with custom concurrency
  admin normalize --all --workers=8 --timeout=5m
`

const defaultWorkerCount = 4

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage, "\n")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "grant-plan":
		runGrantPlan(os.Args[2:])
	case "normalize":
		runNormalize(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage, "\n")
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage, "\n")
		os.Exit(1)
	}
}

func runGrantPlan(args []string) {
	fs := flag.NewFlagSet("grant-plan", flag.ExitOnError)

	userID := fs.Int64("user-id", 0, "User ID to grant the plan to")
	plan := fs.String("plan", "", "Plan to apply (plus or prime)")

	fs.Usage = func() {
		fmt.Println("Usage: admin grant-plan [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Println("  admin grant-plan --user-id=1 --plan=plus")
		fmt.Println("  admin grant-plan --user-id=42 --plan=prime")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *userID <= 0 || *plan == "" {
		fmt.Println("Error: must specify --user-id and --plan")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	entitlementService := entitlement.NewService(postgres.NewEntitlementRepository(db))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	acct, err := entitlementService.ConfirmPurchase(ctx, *userID, entitlement.Plan(*plan))
	if err != nil {
		log.Fatalf("Failed to grant plan: %v", err)
	}

	fmt.Printf("User %d is now on %s (expires %s, quota %d)\n",
		acct.UserID, acct.Plan, acct.PlanExpiresAt.Format(time.RFC3339), acct.AIQuotaRemaining)
}

func runNormalize(args []string) {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)

	userIDStr := fs.String("user-id", "", "User ID(s) to normalize (comma-separated for multiple)")
	allUsers := fs.Bool("all", false, "Normalize all users")
	workers := fs.Int("workers", defaultWorkerCount, "Number of concurrent workers")
	timeoutStr := fs.String("timeout", "30m", "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin normalize [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Println("  admin normalize --user-id=1")
		fmt.Println("  admin normalize --user-id=1,2,3")
		fmt.Println("  admin normalize --all --workers=8 --timeout=1h")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *userIDStr == "" && !*allUsers {
		fmt.Println("Error: must specify --user-id or --all")
		fs.Usage()
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	entitlementRepo := postgres.NewEntitlementRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var userIDs []int64

	if *allUsers {
		userRepo := postgres.NewUserRepository(db)
		userIDs, err = userRepo.ListIDs(ctx)
		if err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}
		log.Printf("Found %d users", len(userIDs))
	} else {
		for _, p := range strings.Split(*userIDStr, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			id, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				log.Fatalf("Invalid user ID '%s': %v", p, err)
			}
			userIDs = append(userIDs, id)
		}
	}

	if len(userIDs) == 0 {
		log.Println("No users to process")
		return
	}

	log.Printf("Starting entitlement sweep for %d user(s) with %d workers", len(userIDs), *workers)
	startTime := time.Now()

	var (
		mu         sync.Mutex
		downgraded int
		failures   []string
	)

	jobs := make(chan int64)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for uid := range jobs {
				changed, err := entitlementRepo.DowngradeLapsed(ctx, uid, time.Now())
				mu.Lock()
				if err != nil {
					failures = append(failures, fmt.Sprintf("user %d: %v", uid, err))
				} else if changed {
					downgraded++
				}
				mu.Unlock()
			}
		}()
	}

	for _, uid := range userIDs {
		jobs <- uid
	}
	close(jobs)
	wg.Wait()

	fmt.Printf("\n=== Entitlement sweep ===\n")
	fmt.Printf("  Users checked:    %d\n", len(userIDs))
	fmt.Printf("  Users downgraded: %d\n", downgraded)

	if len(failures) > 0 {
		fmt.Printf("  Errors:           %d\n", len(failures))
		for i, e := range failures {
			if i >= 5 {
				fmt.Printf("    ... and %d more errors\n", len(failures)-5)
				break
			}
			fmt.Printf("    - %s\n", e)
		}
	}

	log.Printf("Entitlement sweep completed in %v", time.Since(startTime))
}
