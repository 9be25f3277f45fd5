package advisor

import (
	"time"

	"github.com/shopspring/decimal"

	"finmind/internal/domain/asset"
	"finmind/internal/domain/liability"
	"finmind/internal/domain/transaction"
)

func init() {
	// Monetary values serialize as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// UncategorizedBucket collects expenses that carry no category.
const UncategorizedBucket = "Uncategorized"

// Snapshot is the derived metrics view of one account over one period.
// It is fully determined by its inputs, computed per request, and never
// persisted.
type Snapshot struct {
	Period              string                     `json:"period"`
	AssetTotal          decimal.Decimal            `json:"assetTotal"`
	LiabilityTotal      decimal.Decimal            `json:"liabilityTotal"`
	NetWorth            decimal.Decimal            `json:"netWorth"`
	DebtToAssetRatio    *decimal.Decimal           `json:"debtToAssetRatio"`
	TotalIncome         decimal.Decimal            `json:"totalIncome"`
	TotalExpense        decimal.Decimal            `json:"totalExpense"`
	SavingsAmount       decimal.Decimal            `json:"savingsAmount"`
	SavingsRate         *decimal.Decimal           `json:"savingsRate"`
	ExpenseByCategory   map[string]decimal.Decimal `json:"expenseByCategory"`
	AverageDailyExpense decimal.Decimal            `json:"averageDailyExpense"`
	MonthlyBurn         decimal.Decimal            `json:"monthlyBurn"`
	TransactionCount    int                        `json:"transactionCount"`
}

var thirty = decimal.NewFromInt(30)

// Aggregate reduces the full balance sets and the period-filtered
// transaction set into a metrics snapshot.
//
// Asset and liability totals are point-in-time balances computed over
// the unfiltered lists; only flow metrics respect the period window.
// That asymmetry is intentional.
func Aggregate(assets []*asset.Asset, liabilities []*liability.Liability, txs []*transaction.Transaction, period string, now time.Time) *Snapshot {
	win := ResolvePeriod(period, now)

	assetTotal := decimal.Zero
	for _, a := range assets {
		assetTotal = assetTotal.Add(a.Value)
	}
	liabilityTotal := decimal.Zero
	for _, l := range liabilities {
		liabilityTotal = liabilityTotal.Add(l.Value)
	}

	var debtRatio *decimal.Decimal
	if assetTotal.IsPositive() {
		r := liabilityTotal.Div(assetTotal)
		debtRatio = &r
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	count := 0

	for _, tx := range txs {
		if !win.Contains(tx.EffectiveDate()) {
			continue
		}
		count++

		// The sign already encodes the kind; flows sum magnitudes.
		amount := tx.Amount.Abs()
		switch tx.Kind {
		case transaction.KindIncome:
			totalIncome = totalIncome.Add(amount)
		case transaction.KindExpense:
			totalExpense = totalExpense.Add(amount)
			cat := UncategorizedBucket
			if tx.Category != nil && *tx.Category != "" {
				cat = *tx.Category
			}
			byCategory[cat] = byCategory[cat].Add(amount)
		}
	}

	savings := totalIncome.Sub(totalExpense)
	var savingsRate *decimal.Decimal
	if totalIncome.IsPositive() {
		r := savings.Div(totalIncome)
		savingsRate = &r
	}

	avgDaily := totalExpense.Div(decimal.NewFromInt(int64(win.Days)))

	return &Snapshot{
		Period:              period,
		AssetTotal:          assetTotal,
		LiabilityTotal:      liabilityTotal,
		NetWorth:            assetTotal.Sub(liabilityTotal),
		DebtToAssetRatio:    debtRatio,
		TotalIncome:         totalIncome,
		TotalExpense:        totalExpense,
		SavingsAmount:       savings,
		SavingsRate:         savingsRate,
		ExpenseByCategory:   byCategory,
		AverageDailyExpense: avgDaily,
		MonthlyBurn:         avgDaily.Mul(thirty),
		TransactionCount:    count,
	}
}
