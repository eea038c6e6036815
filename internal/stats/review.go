package stats

import "github.com/shopspring/decimal"

// YearReview summarises one calendar year of spending.
type YearReview struct {
	Year         int             `json:"year"`
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
	Average      decimal.Decimal `json:"average"`
	Highest      *Record         `json:"highest,omitempty"`
	Categories   []CategoryTotal `json:"categories"`
	MostFrequent *CategoryTotal  `json:"most_frequent,omitempty"`
}

// Review computes the yearly review for year. order fixes the category order
// as in Categories; ties for the highest expense and the most frequent
// category go to the earlier entry.
func Review(records []Record, year int, order []string) YearReview {
	inYear := InYear(records, year)
	review := YearReview{
		Year:       year,
		Total:      decimal.Zero,
		Average:    decimal.Zero,
		Categories: []CategoryTotal{},
	}
	if len(inYear) == 0 {
		return review
	}

	review.Count = len(inYear)
	review.Total = TotalOf(inYear)
	review.Average = review.Total.Div(decimal.NewFromInt(int64(review.Count))).Round(2)

	highest := inYear[0]
	for _, r := range inYear[1:] {
		if r.Amount.GreaterThan(highest.Amount) {
			highest = r
		}
	}
	review.Highest = &highest

	review.Categories = Categories(inYear, order)
	for i := range review.Categories {
		if review.MostFrequent == nil || review.Categories[i].Count > review.MostFrequent.Count {
			ct := review.Categories[i]
			review.MostFrequent = &ct
		}
	}
	return review
}
