package advisor

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"finmind/internal/domain/asset"
	"finmind/internal/domain/entitlement"
	"finmind/internal/domain/liability"
	"finmind/internal/domain/transaction"
)

var tracer = otel.Tracer("finmind.advisor")

// transactionFetchLimit bounds how many records feed one insights request.
const transactionFetchLimit = 1000

// Insights is the response of one insights computation.
type Insights struct {
	Period    string    `json:"period"`
	Lang      string    `json:"lang"`
	Metrics   *Snapshot `json:"metrics"`
	Rules     []Finding `json:"rules"`
	LLMAdvice *string   `json:"llm_advice"`
}

// Service orchestrates one insights request: entitlement normalization,
// the quota gate, record fetching, aggregation, rule evaluation, and the
// optional advice generator.
type Service struct {
	assets       asset.Repository
	liabilities  liability.Repository
	transactions transaction.Repository
	entitlements *entitlement.Service
	generator    Generator
	now          func() time.Time
}

// NewService creates a new advisor service. generator may be nil, in
// which case llm_advice is always null.
func NewService(assets asset.Repository, liabilities liability.Repository, transactions transaction.Repository, entitlements *entitlement.Service, generator Generator) *Service {
	return &Service{
		assets:       assets,
		liabilities:  liabilities,
		transactions: transactions,
		entitlements: entitlements,
		generator:    generator,
		now:          time.Now,
	}
}

// Insights computes the metrics snapshot and rule findings for one user
// and period. Returns entitlement.ErrNotFound, ErrPlanRequired or
// ErrQuotaExhausted when the gate denies the request. Any persistence
// failure is fatal to the request; the service never retries internally.
func (s *Service) Insights(ctx context.Context, userID int64, period, lang string) (*Insights, error) {
	ctx, span := tracer.Start(ctx, "advisor.Insights")
	defer span.End()
	span.SetAttributes(attribute.String("advisor.period", period))

	acct, err := s.entitlements.Normalize(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.entitlements.Authorize(acct); err != nil {
		return nil, err
	}

	assets, err := s.assets.ListByOwnerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	liabilities, err := s.liabilities.ListByOwnerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities: %w", err)
	}
	transactions, err := s.transactions.ListByOwnerID(ctx, userID, transactionFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	snapshot := Aggregate(assets, liabilities, transactions, period, s.now())
	findings := Evaluate(snapshot)

	// The request is committed from here on. The quota decrement happens
	// exactly once, before the optional advice call, so a generator
	// failure can neither block the response nor spend a second unit.
	if err := s.entitlements.Consume(ctx, acct); err != nil {
		return nil, err
	}

	out := &Insights{
		Period:  period,
		Lang:    lang,
		Metrics: snapshot,
		Rules:   findings,
	}

	if s.generator != nil {
		advice, err := s.generator.Generate(ctx, snapshot, findings, lang)
		if err != nil {
			log.Printf("Advice generator failed for user %d: %v", userID, err)
		} else if advice != "" {
			out.LLMAdvice = &advice
		}
	}

	return out, nil
}
