// Package summary computes the per-user dashboard totals over expenses and yields.
package summary

// CategoryTotal is the amount spent in one expense category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// CropTotal aggregates the harvests of one crop.
type CropTotal struct {
	Crop     string  `json:"crop"`
	Revenue  float64 `json:"revenue"`
	Harvests int     `json:"harvests"`
}

// Display carries the totals formatted in the configured currency.
type Display struct {
	TotalExpenses string `json:"totalExpenses"`
	TotalRevenue  string `json:"totalRevenue"`
	Net           string `json:"net"`
}

// Summary is the dashboard view for one user and date range.
type Summary struct {
	From               string          `json:"from,omitempty"`
	To                 string          `json:"to,omitempty"`
	Currency           string          `json:"currency"`
	TotalExpenses      float64         `json:"totalExpenses"`
	TotalRevenue       float64         `json:"totalRevenue"`
	Net                float64         `json:"net"`
	ExpensesByCategory []CategoryTotal `json:"expensesByCategory"`
	RevenueByCrop      []CropTotal     `json:"revenueByCrop"`
	Display            Display         `json:"display"`
}
