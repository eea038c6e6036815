// Package stats derives journal figures from expense records: elapsed support
// days, lifetime and yearly totals, per-category sums, budget remainders and
// countdowns.
//
// Every function reads only its arguments. Records whose timestamp cannot be
// placed on a calendar are skipped by the date-dependent functions and
// reported through the logger; they never abort the computation.
package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"idoljournal/internal/logger"
)

const day = 24 * time.Hour

// Record is the slice of an expense the engine works on. Amount is already
// validated upstream; the engine does not re-check it.
type Record struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	// RecordedAt is read in its own location when deciding the calendar year.
	// The zero time marks a record whose stored timestamp was unusable.
	RecordedAt time.Time `json:"recorded_at"`
}

// CategoryTotal is the sum and count of records in one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// ElapsedDays returns the whole days between start and now, rounded up.
// The distance is absolute, so a start date in the future counts the days
// until it. A zero start yields 0.
func ElapsedDays(start, now time.Time) int {
	if start.IsZero() {
		return 0
	}
	d := now.Sub(start)
	if d < 0 {
		d = -d
	}
	return ceilDays(d)
}

// DaysUntil returns the signed number of days from now to target, rounded up.
// It turns negative once target has passed.
func DaysUntil(target, now time.Time) int {
	return ceilDays(target.Sub(now))
}

// ceilDays rounds d up to whole days. Integer division truncates toward zero,
// which is already the ceiling for negative durations.
func ceilDays(d time.Duration) int {
	days := d / day
	if d > 0 && d%day != 0 {
		days++
	}
	return int(days)
}

// AvailableYears lists the calendar years from now back to start, newest
// first. A zero start yields only the current year.
func AvailableYears(start, now time.Time) []int {
	current := now.Year()
	if start.IsZero() {
		return []int{current}
	}
	first := start.In(now.Location()).Year()
	if first > current {
		return []int{current}
	}
	years := make([]int, 0, current-first+1)
	for y := current; y >= first; y-- {
		years = append(years, y)
	}
	return years
}

// TotalOf sums every record's amount.
func TotalOf(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// InYear returns the records recorded during year. Records without a usable
// timestamp are logged and left out.
func InYear(records []Record, year int) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.RecordedAt.IsZero() {
			logger.Get().Warnw("skipping record without a usable timestamp",
				"record_id", r.ID,
				"year", year,
			)
			continue
		}
		if r.RecordedAt.Year() == year {
			out = append(out, r)
		}
	}
	return out
}

// YearlyTotal sums the records recorded during year.
func YearlyTotal(records []Record, year int) decimal.Decimal {
	return TotalOf(InYear(records, year))
}

// CategoryBreakdown sums amounts per category. The result depends only on the
// multiset of records, not on their order.
func CategoryBreakdown(records []Record) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, r := range records {
		out[r.Category] = out[r.Category].Add(r.Amount)
	}
	return out
}

// Categories returns per-category totals and counts in a deterministic order:
// categories named in order come first, in that order, followed by any other
// category sorted by name. Categories with no records are omitted.
func Categories(records []Record, order []string) []CategoryTotal {
	byName := make(map[string]*CategoryTotal)
	for _, r := range records {
		ct, ok := byName[r.Category]
		if !ok {
			ct = &CategoryTotal{Category: r.Category, Total: decimal.Zero}
			byName[r.Category] = ct
		}
		ct.Total = ct.Total.Add(r.Amount)
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(byName))
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if ct, ok := byName[name]; ok && !seen[name] {
			out = append(out, *ct)
			seen[name] = true
		}
	}

	var rest []string
	for name := range byName {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, *byName[name])
	}
	return out
}

// RemainingBudget is the annual budget of year minus what was spent in it.
// A negative result means the year is over budget.
func RemainingBudget(yearlyTotal decimal.Decimal, budgets MonthlyBudgets, year int) decimal.Decimal {
	return budgets.AnnualTotal(year).Sub(yearlyTotal)
}
