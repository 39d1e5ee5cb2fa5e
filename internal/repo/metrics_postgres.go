package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COALESCE(SUM(total_price), 0) FROM transactions),
			(SELECT COUNT(*) FROM products WHERE stock = 0)
	`).Scan(&m.TotalProducts, &m.TotalTransactions, &m.Revenue, &m.OutOfStockCount)
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to read metrics: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, SUM(ti.quantity) AS units
		FROM transaction_items ti
		JOIN products p ON ti.product_id = p.id
		GROUP BY p.id, p.name
		ORDER BY units DESC, p.id
		LIMIT 1
	`).Scan(&m.BestSeller.ProductID, &m.BestSeller.Name, &m.BestSeller.UnitsSold)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Metrics{}, fmt.Errorf("failed to read best seller: %w", err)
	}

	return m, nil
}
