package repo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/shopspring/decimal"
)

type InMemoryTransactionRepository struct {
	mu           sync.RWMutex
	transactions []models.Transaction
	items        []models.TransactionItem
	nextID       int
	nextItemID   int
}

func NewInMemoryTransactionRepository() *InMemoryTransactionRepository {
	return &InMemoryTransactionRepository{
		transactions: []models.Transaction{},
		items:        []models.TransactionItem{},
		nextID:       1,
		nextItemID:   1,
	}
}

func (r *InMemoryTransactionRepository) CreateHeader(_ context.Context, userID int, createdAt time.Time) (models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := models.Transaction{
		ID:         r.nextID,
		UserID:     userID,
		CreatedAt:  createdAt,
		TotalPrice: decimal.Zero,
	}
	r.nextID++
	r.transactions = append(r.transactions, t)
	t.Items = []models.TransactionItem{}
	return t, nil
}

func (r *InMemoryTransactionRepository) AddItem(_ context.Context, item models.TransactionItem) (models.TransactionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(item.TransactionID) < 0 {
		return models.TransactionItem{}, ErrTransactionNotFound
	}
	item.ID = r.nextItemID
	r.nextItemID++
	r.items = append(r.items, item)
	return item, nil
}

func (r *InMemoryTransactionRepository) SetTotal(_ context.Context, id int, total decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrTransactionNotFound
	}
	r.transactions[i].TotalPrice = total
	return nil
}

func (r *InMemoryTransactionRepository) GetByID(_ context.Context, id int) (models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Transaction{}, ErrTransactionNotFound
	}
	t := r.transactions[i]
	t.Items = []models.TransactionItem{}
	for _, it := range r.items {
		if it.TransactionID == id {
			t.Items = append(t.Items, it)
		}
	}
	return t, nil
}

func (r *InMemoryTransactionRepository) ListByUser(_ context.Context, userID int, offset, limit int) ([]models.Transaction, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := []models.Transaction{}
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if r.transactions[i].UserID == userID {
			owned = append(owned, r.transactions[i])
		}
	}

	start := clamp(effectiveOffset(&offset), 0, len(owned))
	end := clamp(start+effectiveLimit(&limit), start, len(owned))
	return owned[start:end], len(owned), nil
}

// References reports whether any item points at productID. It backs the
// product repository's delete check.
func (r *InMemoryTransactionRepository) References(productID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.ContainsFunc(r.items, func(it models.TransactionItem) bool { return it.ProductID == productID })
}

// Count returns the number of stored headers and items.
func (r *InMemoryTransactionRepository) Count() (transactions, items int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.transactions), len(r.items)
}

// Items returns a copy of every stored item.
func (r *InMemoryTransactionRepository) Items() []models.TransactionItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items)
}

// Snapshot implements Snapshotter.
func (r *InMemoryTransactionRepository) Snapshot() func() {
	r.mu.RLock()
	transactions := slices.Clone(r.transactions)
	items := slices.Clone(r.items)
	nextID, nextItemID := r.nextID, r.nextItemID
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.transactions = transactions
		r.items = items
		r.nextID = nextID
		r.nextItemID = nextItemID
	}
}

func (r *InMemoryTransactionRepository) indexOf(id int) int {
	return slices.IndexFunc(r.transactions, func(t models.Transaction) bool { return t.ID == id })
}
