package valueobject

import (
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/shared"
)

// Percent is a percentage value constrained to the [0, 100] range.
// Document rates (discount, VAT, withholding) are always carried as Percent.
type Percent struct {
	value decimal.Decimal
}

// ZeroPercent is the zero rate
func ZeroPercent() Percent {
	return Percent{value: decimal.Zero}
}

// NewPercent creates a Percent from a decimal, validating the range
func NewPercent(value decimal.Decimal) (Percent, error) {
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
		return Percent{}, shared.NewDomainErrorf("INVALID_AMOUNT", "Percentage %s is outside [0, 100]", value.String())
	}
	return Percent{value: value}, nil
}

// NewPercentFromString parses and validates a percentage string
func NewPercentFromString(s string) (Percent, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Percent{}, shared.NewDomainErrorf("INVALID_AMOUNT", "Invalid percentage value: %s", s)
	}
	return NewPercent(d)
}

// Value returns the underlying decimal
func (p Percent) Value() decimal.Decimal {
	return p.value
}

// IsZero returns true if the rate is zero
func (p Percent) IsZero() bool {
	return p.value.IsZero()
}

// Fraction returns the rate as a fraction (e.g. 22% -> 0.22)
func (p Percent) Fraction() decimal.Decimal {
	return p.value.Div(decimal.NewFromInt(100))
}

// String returns the percentage as a plain decimal string
func (p Percent) String() string {
	return p.value.String()
}
