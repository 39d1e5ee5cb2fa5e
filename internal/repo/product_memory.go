package repo

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/rogerio-castellano/pos-manager/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int
	// referenced reports whether transaction items point at a product.
	referenced func(productID int) bool
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

// SetReferenceCheck installs the foreign-key check used by Delete.
func (r *InMemoryProductRepository) SetReferenceCheck(fn func(productID int) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.referenced = fn
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Name)) {
		return false
	}
	if pf.MinPrice != nil && p.Price.LessThan(*pf.MinPrice) {
		return false
	}
	if pf.MaxPrice != nil && p.Price.GreaterThan(*pf.MaxPrice) {
		return false
	}
	if pf.MinStock != nil && p.Stock < *pf.MinStock {
		return false
	}
	if pf.MaxStock != nil && p.Stock > *pf.MaxStock {
		return false
	}
	return true
}

func (r *InMemoryProductRepository) Filter(_ context.Context, pf ProductFilter) ([]models.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Product{}
	for _, p := range r.products {
		if matchesFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}

	start := clamp(effectiveOffset(pf.Offset), 0, len(filtered))
	end := clamp(start+effectiveLimit(pf.Limit), start, len(filtered))

	return slices.Clone(filtered[start:end]), len(filtered), nil
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	if product.Stock < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, product)
	return product, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	return r.products[i], nil
}

// GetForUpdate is GetByID; atomic sections are already serialized by
// InMemoryUnitOfWork.
func (r *InMemoryProductRepository) GetForUpdate(ctx context.Context, id int) (models.Product, error) {
	return r.GetByID(ctx, id)
}

// Update overwrites the supplied fields of an existing product.
func (r *InMemoryProductRepository) Update(_ context.Context, id int, u ProductUpdate) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}

	p := r.products[i]
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		if *u.Stock < 0 {
			return models.Product{}, ErrInvalidQuantityChange
		}
		p.Stock = *u.Stock
	}
	r.products[i] = p
	return p, nil
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	if r.referenced != nil && r.referenced(id) {
		return ErrProductInUse
	}
	r.products = slices.Delete(r.products, i, i+1)
	return nil
}

func (r *InMemoryProductRepository) DecrementStock(_ context.Context, id int, quantity int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	if r.products[i].Stock-quantity < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}
	r.products[i].Stock -= quantity
	return r.products[i], nil
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}

// Snapshot implements Snapshotter.
func (r *InMemoryProductRepository) Snapshot() func() {
	r.mu.RLock()
	saved := slices.Clone(r.products)
	nextID := r.nextID
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.products = saved
		r.nextID = nextID
	}
}

func (r *InMemoryProductRepository) indexOf(id int) int {
	return slices.IndexFunc(r.products, func(p models.Product) bool { return p.ID == id })
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
