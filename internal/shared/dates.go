package shared

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// DateRange is an optional inclusive range of calendar dates. Empty bounds are open.
type DateRange struct {
	From string
	To   string
}

// ParseDateRange validates optional from/to query values.
func ParseDateRange(from, to string) (DateRange, error) {
	var start, end time.Time
	var err error
	if from != "" {
		if start, err = time.Parse(DateLayout, from); err != nil {
			return DateRange{}, fmt.Errorf("%w: from must be a date (YYYY-MM-DD)", ErrValidation)
		}
	}
	if to != "" {
		if end, err = time.Parse(DateLayout, to); err != nil {
			return DateRange{}, fmt.Errorf("%w: to must be a date (YYYY-MM-DD)", ErrValidation)
		}
	}
	if from != "" && to != "" && end.Before(start) {
		return DateRange{}, fmt.Errorf("%w: from must not be after to", ErrValidation)
	}
	return DateRange{From: from, To: to}, nil
}

// Key renders the range for cache keys.
func (r DateRange) Key() string {
	return r.From + ".." + r.To
}
