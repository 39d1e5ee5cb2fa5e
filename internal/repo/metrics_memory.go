package repo

import (
	"context"

	"github.com/shopspring/decimal"
)

type InMemoryMetricsRepository struct {
	productRepo     *InMemoryProductRepository
	transactionRepo *InMemoryTransactionRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (m *InMemoryMetricsRepository) SetRepositories(
	productRepo *InMemoryProductRepository,
	transactionRepo *InMemoryTransactionRepository,
) {
	m.productRepo = productRepo
	m.transactionRepo = transactionRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (m *InMemoryMetricsRepository) GetDashboardMetrics(_ context.Context) (Metrics, error) {
	out := Metrics{Revenue: decimal.Zero}

	m.productRepo.mu.RLock()
	products := m.productRepo.products
	out.TotalProducts = len(products)
	names := make(map[int]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
		if p.Stock == 0 {
			out.OutOfStockCount++
		}
	}
	m.productRepo.mu.RUnlock()

	m.transactionRepo.mu.RLock()
	defer m.transactionRepo.mu.RUnlock()

	out.TotalTransactions = len(m.transactionRepo.transactions)
	for _, t := range m.transactionRepo.transactions {
		out.Revenue = out.Revenue.Add(t.TotalPrice)
	}

	sold := map[int]int{}
	for _, it := range m.transactionRepo.items {
		sold[it.ProductID] += it.Quantity
	}
	for id, units := range sold {
		best := out.BestSeller
		if units > best.UnitsSold || (units == best.UnitsSold && id < best.ProductID) {
			out.BestSeller = BestSeller{ProductID: id, Name: names[id], UnitsSold: units}
		}
	}

	return out, nil
}
