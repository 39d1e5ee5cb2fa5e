package handlers

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	errs = appendNameErrors(errs, p.Name)
	errs = appendPriceErrors(errs, p.Price)
	errs = appendStockErrors(errs, p.Stock)
	return errs
}

func validateProductPatch(p ProductPatchRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if p.Name != nil {
		errs = appendNameErrors(errs, *p.Name)
	}
	if p.Price != nil {
		errs = appendPriceErrors(errs, *p.Price)
	}
	if p.Stock != nil {
		errs = appendStockErrors(errs, *p.Stock)
	}
	return errs
}

func appendNameErrors(errs []ProductValidationError, name string) []ProductValidationError {
	if strings.TrimSpace(name) == "" {
		errs = append(errs, ProductValidationError{Field: "Name", Description: "Name is required"})
	}
	return errs
}

func appendPriceErrors(errs []ProductValidationError, price decimal.Decimal) []ProductValidationError {
	if !price.IsPositive() {
		errs = append(errs, ProductValidationError{Field: "Price", Description: "Price must be greater than zero"})
	}
	if !price.Equal(price.Round(2)) {
		errs = append(errs, ProductValidationError{Field: "Price", Description: "Price must have at most 2 decimal places"})
	}
	return errs
}

func appendStockErrors(errs []ProductValidationError, stock int) []ProductValidationError {
	if stock < 0 {
		errs = append(errs, ProductValidationError{Field: "Stock", Description: "Stock cannot be negative"})
	}
	return errs
}
