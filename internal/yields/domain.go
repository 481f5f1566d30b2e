package yields

import (
	"math"
	"strings"
	"time"

	"github.com/kisanlog/kisanlog/internal/shared"
)

// Units accepted for harvested quantities.
var Units = []string{"kg", "quintal", "tonne"}

// Yield is one harvest recorded by a user.
type Yield struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"-"`
	Crop         string    `json:"crop"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	HarvestDate  string    `json:"harvestDate"`
	PricePerUnit float64   `json:"pricePerUnit"`
	Revenue      float64   `json:"revenue"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Input is the payload accepted when creating or replacing a yield.
type Input struct {
	Crop         string  `json:"crop" validate:"required,max=100"`
	Quantity     float64 `json:"quantity" validate:"gt=0,lte=99999999999.999"`
	Unit         string  `json:"unit" validate:"required,oneof=kg quintal tonne"`
	HarvestDate  string  `json:"harvestDate" validate:"required,datetime=2006-01-02"`
	PricePerUnit float64 `json:"pricePerUnit" validate:"gte=0,lte=999999999999.99"`
	Notes        string  `json:"notes" validate:"max=500"`
}

// Normalize trims text fields and lowercases the unit.
func (in *Input) Normalize() {
	in.Crop = strings.TrimSpace(in.Crop)
	in.Unit = strings.ToLower(strings.TrimSpace(in.Unit))
	in.HarvestDate = strings.TrimSpace(in.HarvestDate)
	in.Notes = strings.TrimSpace(in.Notes)
}

// Revenue returns quantity times price rounded to two decimals.
func Revenue(quantity, pricePerUnit float64) float64 {
	return math.Round(quantity*pricePerUnit*100) / 100
}

// withRevenue fills the derived revenue field.
func (y Yield) withRevenue() Yield {
	y.Revenue = Revenue(y.Quantity, y.PricePerUnit)
	return y
}

// ListFilter narrows a yield listing.
type ListFilter struct {
	Page    int
	PerPage int
	Crop    string
	Range   shared.DateRange
}
