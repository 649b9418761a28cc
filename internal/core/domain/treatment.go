package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// TreatmentNameMaxLen bounds the human-readable treatment name.
const TreatmentNameMaxLen = 150

var (
	ErrTreatmentNotFound = errors.New("treatment not found")
	ErrTreatmentName     = errors.New("treatment name is required and must be at most 150 characters")
	ErrInvalidPrice      = errors.New("price must be a non-negative amount with at most 2 decimal places")
)

// Treatment is a service offered by the clinic. Name and Description are
// stored uppercase; Price is an exact fixed-point amount.
type Treatment struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
}

// NormalizeText trims surrounding whitespace and uppercases, matching how
// all free-text clinic fields are persisted.
func NormalizeText(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidatePrice enforces the price invariant: non-negative and exactly
// representable with two fraction digits. The check compares values, so
// trailing zeros ("10.100") do not disqualify an otherwise exact amount.
func ValidatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return ErrInvalidPrice
	}
	if !p.Equal(p.Round(2)) {
		return ErrInvalidPrice
	}
	return nil
}
