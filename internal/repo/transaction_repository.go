package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/shopspring/decimal"
)

// TransactionRepository stores sale headers and their items. Headers and
// items are written separately; GetByID assembles them.
type TransactionRepository interface {
	CreateHeader(ctx context.Context, userID int, createdAt time.Time) (models.Transaction, error)
	AddItem(ctx context.Context, item models.TransactionItem) (models.TransactionItem, error)
	SetTotal(ctx context.Context, id int, total decimal.Decimal) error
	GetByID(ctx context.Context, id int) (models.Transaction, error)
	// ListByUser returns headers only, newest first.
	ListByUser(ctx context.Context, userID int, offset, limit int) ([]models.Transaction, int, error)
}
