package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"finmind/internal/domain/asset"
	"finmind/internal/domain/entitlement"
	"finmind/internal/domain/liability"
	"finmind/internal/domain/transaction"
)

// MockAssetRepository is a mock implementation of asset.Repository
type MockAssetRepository struct {
	CreateFunc        func(ctx context.Context, params asset.CreateParams) (*asset.Asset, error)
	GetByIDFunc       func(ctx context.Context, id string) (*asset.Asset, error)
	ListByOwnerIDFunc func(ctx context.Context, ownerID int64) ([]*asset.Asset, error)
	UpdateFunc        func(ctx context.Context, id string, params asset.UpdateParams) (*asset.Asset, error)
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockAssetRepository) Create(ctx context.Context, params asset.CreateParams) (*asset.Asset, error) {
	return m.CreateFunc(ctx, params)
}
func (m *MockAssetRepository) GetByID(ctx context.Context, id string) (*asset.Asset, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *MockAssetRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*asset.Asset, error) {
	return m.ListByOwnerIDFunc(ctx, ownerID)
}
func (m *MockAssetRepository) Update(ctx context.Context, id string, params asset.UpdateParams) (*asset.Asset, error) {
	return m.UpdateFunc(ctx, id, params)
}
func (m *MockAssetRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

// MockLiabilityRepository is a mock implementation of liability.Repository
type MockLiabilityRepository struct {
	CreateFunc        func(ctx context.Context, params liability.CreateParams) (*liability.Liability, error)
	GetByIDFunc       func(ctx context.Context, id string) (*liability.Liability, error)
	ListByOwnerIDFunc func(ctx context.Context, ownerID int64) ([]*liability.Liability, error)
	UpdateFunc        func(ctx context.Context, id string, params liability.UpdateParams) (*liability.Liability, error)
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockLiabilityRepository) Create(ctx context.Context, params liability.CreateParams) (*liability.Liability, error) {
	return m.CreateFunc(ctx, params)
}
func (m *MockLiabilityRepository) GetByID(ctx context.Context, id string) (*liability.Liability, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *MockLiabilityRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*liability.Liability, error) {
	return m.ListByOwnerIDFunc(ctx, ownerID)
}
func (m *MockLiabilityRepository) Update(ctx context.Context, id string, params liability.UpdateParams) (*liability.Liability, error) {
	return m.UpdateFunc(ctx, id, params)
}
func (m *MockLiabilityRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

// MockTransactionRepository is a mock implementation of transaction.Repository
type MockTransactionRepository struct {
	CreateFunc        func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	GetByIDFunc       func(ctx context.Context, id string) (*transaction.Transaction, error)
	ListByOwnerIDFunc func(ctx context.Context, ownerID int64, limit int) ([]*transaction.Transaction, error)
	UpdateFunc        func(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error)
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockTransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	return m.CreateFunc(ctx, params)
}
func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *MockTransactionRepository) ListByOwnerID(ctx context.Context, ownerID int64, limit int) ([]*transaction.Transaction, error) {
	return m.ListByOwnerIDFunc(ctx, ownerID, limit)
}
func (m *MockTransactionRepository) Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	return m.UpdateFunc(ctx, id, params)
}
func (m *MockTransactionRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

// MockEntitlementRepository is a mock implementation of entitlement.Repository
type MockEntitlementRepository struct {
	CreateFunc          func(ctx context.Context, params entitlement.CreateParams) (*entitlement.Account, error)
	GetByUserIDFunc     func(ctx context.Context, userID int64) (*entitlement.Account, error)
	ApplyPlanFunc       func(ctx context.Context, userID int64, params entitlement.ApplyPlanParams) (*entitlement.Account, error)
	DowngradeLapsedFunc func(ctx context.Context, userID int64, now time.Time) (bool, error)
	ConsumeQuotaFunc    func(ctx context.Context, userID int64) (bool, error)
}

func (m *MockEntitlementRepository) Create(ctx context.Context, params entitlement.CreateParams) (*entitlement.Account, error) {
	return m.CreateFunc(ctx, params)
}
func (m *MockEntitlementRepository) GetByUserID(ctx context.Context, userID int64) (*entitlement.Account, error) {
	return m.GetByUserIDFunc(ctx, userID)
}
func (m *MockEntitlementRepository) ApplyPlan(ctx context.Context, userID int64, params entitlement.ApplyPlanParams) (*entitlement.Account, error) {
	return m.ApplyPlanFunc(ctx, userID, params)
}
func (m *MockEntitlementRepository) DowngradeLapsed(ctx context.Context, userID int64, now time.Time) (bool, error) {
	return m.DowngradeLapsedFunc(ctx, userID, now)
}
func (m *MockEntitlementRepository) ConsumeQuota(ctx context.Context, userID int64) (bool, error) {
	return m.ConsumeQuotaFunc(ctx, userID)
}

// MockGenerator is a mock implementation of Generator
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, snapshot *Snapshot, findings []Finding, lang string) (string, error)
}

func (m *MockGenerator) Generate(ctx context.Context, snapshot *Snapshot, findings []Finding, lang string) (string, error) {
	return m.GenerateFunc(ctx, snapshot, findings, lang)
}

func emptyRecordMocks() (*MockAssetRepository, *MockLiabilityRepository, *MockTransactionRepository) {
	assets := &MockAssetRepository{
		ListByOwnerIDFunc: func(ctx context.Context, ownerID int64) ([]*asset.Asset, error) {
			return assetsOf("75000"), nil
		},
	}
	liabilities := &MockLiabilityRepository{
		ListByOwnerIDFunc: func(ctx context.Context, ownerID int64) ([]*liability.Liability, error) {
			return liabilitiesOf("20000"), nil
		},
	}
	transactions := &MockTransactionRepository{
		ListByOwnerIDFunc: func(ctx context.Context, ownerID int64, limit int) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{
				tx(transaction.KindIncome, "5000", "", time.Now()),
				tx(transaction.KindExpense, "-1800", "Rent", time.Now()),
			}, nil
		},
	}
	return assets, liabilities, transactions
}

func plusAccount(remaining int) *entitlement.Account {
	expires := time.Now().AddDate(0, 1, 0)
	return &entitlement.Account{
		UserID:           1,
		Plan:             entitlement.PlanPlus,
		PlanExpiresAt:    &expires,
		AIQuota:          10,
		AIQuotaRemaining: remaining,
	}
}

func TestInsights_QuotaConsumedOnce(t *testing.T) {
	assets, liabilities, transactions := emptyRecordMocks()

	consumes := 0
	entRepo := &MockEntitlementRepository{
		GetByUserIDFunc: func(ctx context.Context, userID int64) (*entitlement.Account, error) {
			return plusAccount(5), nil
		},
		DowngradeLapsedFunc: func(ctx context.Context, userID int64, now time.Time) (bool, error) {
			return false, nil
		},
		ConsumeQuotaFunc: func(ctx context.Context, userID int64) (bool, error) {
			consumes++
			return true, nil
		},
	}

	generatorCalls := 0
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, snapshot *Snapshot, findings []Finding, lang string) (string, error) {
			generatorCalls++
			if consumes == 0 {
				t.Error("generator ran before the quota decrement")
			}
			return "spend less on rent", nil
		},
	}

	svc := NewService(assets, liabilities, transactions, entitlement.NewService(entRepo), gen)
	got, err := svc.Insights(context.Background(), 1, PeriodLast30Days, "en")
	if err != nil {
		t.Fatalf("Insights() error = %v", err)
	}

	if consumes != 1 {
		t.Errorf("quota consumed %d times, want exactly 1", consumes)
	}
	if generatorCalls != 1 {
		t.Errorf("generator called %d times, want 1", generatorCalls)
	}
	if got.LLMAdvice == nil || *got.LLMAdvice != "spend less on rent" {
		t.Errorf("llm_advice = %v, want the generated text", got.LLMAdvice)
	}
	if got.Metrics == nil || got.Metrics.TransactionCount != 2 {
		t.Errorf("metrics missing or wrong count: %+v", got.Metrics)
	}
	if got.Rules == nil {
		t.Error("rules must be a non-nil slice")
	}
}

func TestInsights_GeneratorFailureIsNotFatal(t *testing.T) {
	assets, liabilities, transactions := emptyRecordMocks()

	entRepo := &MockEntitlementRepository{
		GetByUserIDFunc: func(ctx context.Context, userID int64) (*entitlement.Account, error) {
			return plusAccount(5), nil
		},
		DowngradeLapsedFunc: func(ctx context.Context, userID int64, now time.Time) (bool, error) {
			return false, nil
		},
		ConsumeQuotaFunc: func(ctx context.Context, userID int64) (bool, error) {
			return true, nil
		},
	}
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, snapshot *Snapshot, findings []Finding, lang string) (string, error) {
			return "", errors.New("upstream timeout")
		},
	}

	svc := NewService(assets, liabilities, transactions, entitlement.NewService(entRepo), gen)
	got, err := svc.Insights(context.Background(), 1, PeriodLast30Days, "en")
	if err != nil {
		t.Fatalf("Insights() error = %v, want success with absent advice", err)
	}
	if got.LLMAdvice != nil {
		t.Errorf("llm_advice = %q, want nil", *got.LLMAdvice)
	}
}

func TestInsights_NilGenerator(t *testing.T) {
	assets, liabilities, transactions := emptyRecordMocks()

	entRepo := &MockEntitlementRepository{
		GetByUserIDFunc: func(ctx context.Context, userID int64) (*entitlement.Account, error) {
			return plusAccount(5), nil
		},
		DowngradeLapsedFunc: func(ctx context.Context, userID int64, now time.Time) (bool, error) {
			return false, nil
		},
		ConsumeQuotaFunc: func(ctx context.Context, userID int64) (bool, error) {
			return true, nil
		},
	}

	svc := NewService(assets, liabilities, transactions, entitlement.NewService(entRepo), nil)
	got, err := svc.Insights(context.Background(), 1, PeriodLast30Days, "en")
	if err != nil {
		t.Fatalf("Insights() error = %v", err)
	}
	if got.LLMAdvice != nil {
		t.Errorf("llm_advice = %q, want nil without a generator", *got.LLMAdvice)
	}
}

func TestInsights_GateDenials(t *testing.T) {
	assets, liabilities, transactions := emptyRecordMocks()

	tests := []struct {
		name    string
		account *entitlement.Account
		wantErr error
	}{
		{
			name:    "missing account",
			account: nil,
			wantErr: entitlement.ErrNotFound,
		},
		{
			name:    "free plan",
			account: &entitlement.Account{UserID: 1, Plan: entitlement.PlanFree},
			wantErr: entitlement.ErrPlanRequired,
		},
		{
			name:    "plus with spent quota",
			account: plusAccount(0),
			wantErr: entitlement.ErrQuotaExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entRepo := &MockEntitlementRepository{
				GetByUserIDFunc: func(ctx context.Context, userID int64) (*entitlement.Account, error) {
					return tt.account, nil
				},
				DowngradeLapsedFunc: func(ctx context.Context, userID int64, now time.Time) (bool, error) {
					return false, nil
				},
				ConsumeQuotaFunc: func(ctx context.Context, userID int64) (bool, error) {
					t.Error("quota must not be touched on a denied request")
					return false, nil
				},
			}

			svc := NewService(assets, liabilities, transactions, entitlement.NewService(entRepo), nil)
			_, err := svc.Insights(context.Background(), 1, PeriodLast30Days, "en")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Insights() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInsights_LostQuotaRace(t *testing.T) {
	assets, liabilities, transactions := emptyRecordMocks()

	entRepo := &MockEntitlementRepository{
		GetByUserIDFunc: func(ctx context.Context, userID int64) (*entitlement.Account, error) {
			return plusAccount(1), nil
		},
		DowngradeLapsedFunc: func(ctx context.Context, userID int64, now time.Time) (bool, error) {
			return false, nil
		},
		ConsumeQuotaFunc: func(ctx context.Context, userID int64) (bool, error) {
			// Another request spent the last unit between the gate check
			// and the decrement.
			return false, nil
		},
	}

	svc := NewService(assets, liabilities, transactions, entitlement.NewService(entRepo), nil)
	_, err := svc.Insights(context.Background(), 1, PeriodLast30Days, "en")
	if !errors.Is(err, entitlement.ErrQuotaExhausted) {
		t.Errorf("Insights() error = %v, want ErrQuotaExhausted", err)
	}
}

func TestInsights_PersistenceFailureIsFatal(t *testing.T) {
	assets, liabilities, transactions := emptyRecordMocks()
	transactions.ListByOwnerIDFunc = func(ctx context.Context, ownerID int64, limit int) ([]*transaction.Transaction, error) {
		return nil, errors.New("connection reset")
	}

	consumed := false
	entRepo := &MockEntitlementRepository{
		GetByUserIDFunc: func(ctx context.Context, userID int64) (*entitlement.Account, error) {
			return plusAccount(5), nil
		},
		DowngradeLapsedFunc: func(ctx context.Context, userID int64, now time.Time) (bool, error) {
			return false, nil
		},
		ConsumeQuotaFunc: func(ctx context.Context, userID int64) (bool, error) {
			consumed = true
			return true, nil
		},
	}

	svc := NewService(assets, liabilities, transactions, entitlement.NewService(entRepo), nil)
	_, err := svc.Insights(context.Background(), 1, PeriodLast30Days, "en")
	if err == nil {
		t.Fatal("Insights() error = nil, want fetch failure")
	}
	if consumed {
		t.Error("quota spent on a failed request")
	}
}

func TestInsights_FetchLimitPassedThrough(t *testing.T) {
	assets, liabilities, transactions := emptyRecordMocks()

	var gotLimit int
	transactions.ListByOwnerIDFunc = func(ctx context.Context, ownerID int64, limit int) ([]*transaction.Transaction, error) {
		gotLimit = limit
		return nil, nil
	}

	entRepo := &MockEntitlementRepository{
		GetByUserIDFunc: func(ctx context.Context, userID int64) (*entitlement.Account, error) {
			return plusAccount(5), nil
		},
		DowngradeLapsedFunc: func(ctx context.Context, userID int64, now time.Time) (bool, error) {
			return false, nil
		},
		ConsumeQuotaFunc: func(ctx context.Context, userID int64) (bool, error) {
			return true, nil
		},
	}

	svc := NewService(assets, liabilities, transactions, entitlement.NewService(entRepo), nil)
	if _, err := svc.Insights(context.Background(), 1, PeriodLast30Days, "en"); err != nil {
		t.Fatalf("Insights() error = %v", err)
	}
	if gotLimit != transactionFetchLimit {
		t.Errorf("fetch limit = %d, want %d", gotLimit, transactionFetchLimit)
	}
}
