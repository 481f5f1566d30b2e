package summary

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = "INR"

// Formatter renders amounts with a currency symbol.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewFormatter parses an ISO 4217 code such as "INR" or "USD".
func NewFormatter(code string) (*Formatter, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("summary: unknown currency %q: %w", code, err)
	}
	return &Formatter{unit: unit, printer: message.NewPrinter(language.English)}, nil
}

// Code returns the ISO code of the formatter's currency.
func (f *Formatter) Code() string {
	return f.unit.String()
}

// Format renders amount with the currency symbol.
func (f *Formatter) Format(amount float64) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(amount)))
}
