package repo

import "github.com/shopspring/decimal"

// DefaultLimit caps every product page.
const DefaultLimit = 100

type ProductFilter struct {
	Name     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MinStock *int
	MaxStock *int
	Offset   *int
	Limit    *int
}

// ProductUpdate holds the fields to overwrite; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
}

func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Stock == nil
}

func effectiveLimit(limit *int) int {
	if limit == nil || *limit <= 0 {
		return DefaultLimit
	}
	return min(*limit, DefaultLimit)
}

func effectiveOffset(offset *int) int {
	if offset == nil || *offset < 0 {
		return 0
	}
	return *offset
}
