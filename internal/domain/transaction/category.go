package transaction

import "strings"

// canonicalCategories maps lowercased aliases to the display name used
// across metrics and insights. Free-form input is allowed; this only
// folds common spellings into one bucket so per-category aggregation
// does not split "food" and "Food & Drink" apart.
var canonicalCategories = map[string]string{
	"food":           "Food",
	"food & drink":   "Food",
	"groceries":      "Food",
	"dining":         "Dining",
	"restaurants":    "Dining",
	"rent":           "Housing",
	"housing":        "Housing",
	"mortgage":       "Housing",
	"utilities":      "Utilities",
	"transport":      "Transport",
	"transportation": "Transport",
	"car":            "Transport",
	"health":         "Health",
	"healthcare":     "Health",
	"entertainment":  "Entertainment",
	"subscriptions":  "Entertainment",
	"travel":         "Travel",
	"shopping":       "Shopping",
	"education":      "Education",
	"salary":         "Salary",
	"income":         "Salary",
	"investments":    "Investments",
}

// NormalizeCategory trims a client-supplied category and folds known
// aliases into their canonical bucket. Empty input normalizes to nil,
// which aggregation reports as Uncategorized. Unknown categories pass
// through with their original spelling.
func NormalizeCategory(category *string) *string {
	if category == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*category)
	if trimmed == "" {
		return nil
	}

	if canonical, ok := canonicalCategories[strings.ToLower(trimmed)]; ok {
		return &canonical
	}
	return &trimmed
}
