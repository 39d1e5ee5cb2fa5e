package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a recorded sale. TotalPrice always equals the sum of
// Quantity * Price over Items.
type Transaction struct {
	ID         int               `json:"id"`
	UserID     int               `json:"user_id"`
	CreatedAt  time.Time         `json:"created_at"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	Items      []TransactionItem `json:"items"`
}

// TransactionItem is one sold line. Price is the product's unit price at the
// moment of the sale and does not follow later catalog changes.
type TransactionItem struct {
	ID            int             `json:"id"`
	TransactionID int             `json:"transaction_id"`
	ProductID     int             `json:"product_id"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
}

// LineTotal returns Quantity * Price.
func (i TransactionItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
