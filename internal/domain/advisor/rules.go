package advisor

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Severity grades a finding.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Finding is one advisory observation produced by the rule catalog.
// The ID is a catalog key, not an instance identifier; it appears at
// most once per evaluation.
type Finding struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Tags     []string `json:"tags"`
}

// rule pairs a predicate with its finding text. The eval func returns
// the message and whether the rule fired.
type rule struct {
	id       string
	severity Severity
	title    string
	tags     []string
	eval     func(s *Snapshot) (string, bool)
}

// Rule thresholds.
var (
	debtRatioCritical  = decimal.NewFromFloat(0.9)
	debtRatioWarning   = decimal.NewFromFloat(0.5)
	lowSavingsRate     = decimal.NewFromFloat(0.1)
	runwayMonths       = decimal.NewFromInt(3)
	concentrationShare = decimal.NewFromFloat(0.4)
	hundred            = decimal.NewFromInt(100)
)

// catalog is evaluated strictly in declaration order so identical
// snapshots always yield findings in the same order.
var catalog = []rule{
	{
		id: "no-assets", severity: SeverityCritical,
		title: "No assets recorded", tags: []string{"assets", "debt"},
		eval: func(s *Snapshot) (string, bool) {
			if s.AssetTotal.IsZero() && s.LiabilityTotal.IsPositive() {
				return "You carry debt but have no recorded assets. Record your assets or start building a buffer.", true
			}
			return "", false
		},
	},
	{
		id: "debt-ratio-critical", severity: SeverityCritical,
		title: "Debt dangerously high", tags: []string{"debt"},
		eval: func(s *Snapshot) (string, bool) {
			r := s.DebtToAssetRatio
			if r != nil && r.GreaterThanOrEqual(debtRatioCritical) {
				return fmt.Sprintf("Your liabilities are %s%% of your assets. Reducing debt should be the first priority.", percent(*r)), true
			}
			return "", false
		},
	},
	{
		id: "debt-ratio-warning", severity: SeverityWarning,
		title: "Debt is elevated", tags: []string{"debt"},
		eval: func(s *Snapshot) (string, bool) {
			// Only the band below the critical threshold; the two debt
			// rules never fire together.
			r := s.DebtToAssetRatio
			if r != nil && r.GreaterThan(debtRatioWarning) && r.LessThan(debtRatioCritical) {
				return fmt.Sprintf("Your liabilities are %s%% of your assets. Keep an eye on new debt.", percent(*r)), true
			}
			return "", false
		},
	},
	{
		id: "low-savings-rate", severity: SeverityWarning,
		title: "Low savings rate", tags: []string{"savings"},
		eval: func(s *Snapshot) (string, bool) {
			r := s.SavingsRate
			if r != nil && r.LessThan(lowSavingsRate) {
				return fmt.Sprintf("You are saving %s%% of your income this period; 10%% or more is a common target.", percent(*r)), true
			}
			return "", false
		},
	},
	{
		id: "negative-savings", severity: SeverityCritical,
		title: "Spending exceeds income", tags: []string{"savings"},
		eval: func(s *Snapshot) (string, bool) {
			r := s.SavingsRate
			if r != nil && r.IsNegative() {
				return "You spent more than you earned this period and are drawing down reserves.", true
			}
			return "", false
		},
	},
	{
		id: "expense-over-income", severity: SeverityWarning,
		title: "Expenses above income", tags: []string{"spending"},
		eval: func(s *Snapshot) (string, bool) {
			if s.TotalExpense.GreaterThan(s.TotalIncome) && s.TotalIncome.IsPositive() {
				return fmt.Sprintf("Expenses (%s) exceed income (%s) in this period.", s.TotalExpense, s.TotalIncome), true
			}
			return "", false
		},
	},
	{
		id: "short-runway", severity: SeverityWarning,
		title: "Short runway", tags: []string{"runway", "spending"},
		eval: func(s *Snapshot) (string, bool) {
			if s.NetWorth.IsPositive() && s.MonthlyBurn.IsPositive() {
				months := s.NetWorth.Div(s.MonthlyBurn)
				if months.LessThan(runwayMonths) {
					return fmt.Sprintf("At the current burn rate your net worth covers about %s months of expenses.", months.Round(1)), true
				}
			}
			return "", false
		},
	},
	{
		id: "expense-concentration", severity: SeverityInfo,
		title: "Spending concentrated in one category", tags: []string{"spending"},
		eval: func(s *Snapshot) (string, bool) {
			name, share, ok := topExpenseCategory(s.ExpenseByCategory)
			if ok && share.GreaterThan(concentrationShare) {
				return fmt.Sprintf("%s accounts for %s%% of your expenses in this period.", name, share.Mul(hundred).Round(0)), true
			}
			return "", false
		},
	},
}

// Evaluate runs the rule catalog against a snapshot. Pure function;
// callers get a fresh slice every time.
func Evaluate(s *Snapshot) []Finding {
	findings := make([]Finding, 0, 4)
	for _, r := range catalog {
		if msg, ok := r.eval(s); ok {
			findings = append(findings, Finding{
				ID:       r.id,
				Severity: r.severity,
				Title:    r.title,
				Message:  msg,
				Tags:     r.tags,
			})
		}
	}
	return findings
}

// topExpenseCategory returns the category with the largest total and its
// share of all category expenses. Ties resolve by name so the result is
// stable for identical input.
func topExpenseCategory(byCategory map[string]decimal.Decimal) (string, decimal.Decimal, bool) {
	if len(byCategory) == 0 {
		return "", decimal.Zero, false
	}

	names := make([]string, 0, len(byCategory))
	total := decimal.Zero
	for name, amount := range byCategory {
		names = append(names, name)
		total = total.Add(amount)
	}
	if !total.IsPositive() {
		return "", decimal.Zero, false
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := byCategory[names[i]], byCategory[names[j]]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return names[i] < names[j]
	})

	top := names[0]
	return top, byCategory[top].Div(total), true
}

func percent(ratio decimal.Decimal) decimal.Decimal {
	return ratio.Mul(hundred).Round(1)
}
