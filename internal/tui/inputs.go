package tui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parsePositive parses a form value as a positive decimal.
func parsePositive(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("must be a valid number")
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("must be greater than zero")
	}
	return d, nil
}

func validatePositive(s string) error {
	_, err := parsePositive(s)
	return err
}

func validateWhole(s string) error {
	d, err := parsePositive(s)
	if err != nil {
		return err
	}
	if !d.Equal(d.Truncate(0)) {
		return fmt.Errorf("must be a whole number")
	}
	return nil
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}
