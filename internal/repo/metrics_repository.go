package repo

import (
	"context"

	"github.com/shopspring/decimal"
)

type BestSeller struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
}

type Metrics struct {
	TotalProducts     int             `json:"total_products"`
	TotalTransactions int             `json:"total_transactions"`
	Revenue           decimal.Decimal `json:"revenue"`
	OutOfStockCount   int             `json:"out_of_stock_count"`
	BestSeller        BestSeller      `json:"best_seller"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
