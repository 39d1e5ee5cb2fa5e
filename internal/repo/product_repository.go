package repo

import (
	"context"

	"github.com/rogerio-castellano/pos-manager/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	// GetForUpdate reads a product and, inside a unit of work, locks it until
	// the unit ends.
	GetForUpdate(ctx context.Context, id int) (models.Product, error)
	Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error)
	Update(ctx context.Context, id int, u ProductUpdate) (models.Product, error)
	Delete(ctx context.Context, id int) error
	DecrementStock(ctx context.Context, id int, quantity int) (models.Product, error)
}
