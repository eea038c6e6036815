package stats

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const monthKeyLayout = "2006-01"

// MonthlyBudgets maps "YYYY-MM" keys to the amount budgeted for that month.
// A nil map is valid and budgets nothing.
type MonthlyBudgets map[string]decimal.Decimal

// MonthKey formats the budget key for year and month.
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// ParseMonthKey validates a "YYYY-MM" key.
func ParseMonthKey(key string) (int, time.Month, error) {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t.Year(), t.Month(), nil
}

// Amount returns the budget for one month, zero when unset.
func (b MonthlyBudgets) Amount(year int, month time.Month) decimal.Decimal {
	if v, ok := b[MonthKey(year, month)]; ok {
		return v
	}
	return decimal.Zero
}

// AnnualTotal sums the twelve months of year.
func (b MonthlyBudgets) AnnualTotal(year int) decimal.Decimal {
	total := decimal.Zero
	for m := time.January; m <= time.December; m++ {
		total = total.Add(b.Amount(year, m))
	}
	return total
}

// Months returns the twelve monthly amounts of year, January first.
func (b MonthlyBudgets) Months(year int) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, b.Amount(year, m))
	}
	return out
}
