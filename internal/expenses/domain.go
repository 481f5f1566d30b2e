package expenses

import (
	"strings"
	"time"

	"github.com/kisanlog/kisanlog/internal/shared"
)

// Categories accepted for an expense.
var Categories = []string{"seeds", "fertilizer", "pesticide", "labour", "machinery", "irrigation", "transport", "other"}

// Expense is money spent on the farm by one user.
type Expense struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"-"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Date        string    `json:"date"`
	Crop        string    `json:"crop"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Input is the payload accepted when creating or replacing an expense.
type Input struct {
	Category    string  `json:"category" validate:"required,oneof=seeds fertilizer pesticide labour machinery irrigation transport other"`
	Amount      float64 `json:"amount" validate:"gt=0,lte=999999999999.99"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Crop        string  `json:"crop" validate:"max=100"`
	Description string  `json:"description" validate:"max=500"`
}

// Normalize trims text fields and lowercases the category.
func (in *Input) Normalize() {
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	in.Date = strings.TrimSpace(in.Date)
	in.Crop = strings.TrimSpace(in.Crop)
	in.Description = strings.TrimSpace(in.Description)
}

// ListFilter narrows an expense listing.
type ListFilter struct {
	Page     int
	PerPage  int
	Category string
	Crop     string
	Range    shared.DateRange
}
