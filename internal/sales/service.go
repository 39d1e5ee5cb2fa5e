package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/rogerio-castellano/pos-manager/internal/repo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type LineItem struct {
	ProductID int
	Quantity  int
}

type Service struct {
	uow          repo.UnitOfWork
	products     repo.ProductRepository
	transactions repo.TransactionRepository
	now          func() time.Time
}

func NewService(uow repo.UnitOfWork, products repo.ProductRepository, transactions repo.TransactionRepository) *Service {
	return &Service{
		uow:          uow,
		products:     products,
		transactions: transactions,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateTransaction records a sale of items for userID. Stock checks, stock
// decrements, item rows and the total are written in one unit of work, so on
// any error nothing is persisted. Items are processed in order; repeating a
// product id draws on the stock left by the earlier lines.
func (s *Service) CreateTransaction(ctx context.Context, userID int, items []LineItem) (models.Transaction, error) {
	for i, it := range items {
		if it.Quantity <= 0 {
			return models.Transaction{}, &ValidationError{Index: i, Reason: "quantity must be greater than 0"}
		}
	}

	var transactionID int
	var total decimal.Decimal

	err := s.uow.RunAtomic(ctx, func(ctx context.Context) error {
		header, err := s.transactions.CreateHeader(ctx, userID, s.now())
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		transactionID = header.ID
		total = decimal.Zero

		for _, it := range items {
			product, err := s.products.GetForUpdate(ctx, it.ProductID)
			if errors.Is(err, repo.ErrProductNotFound) {
				return &ProductNotFoundError{ProductID: it.ProductID}
			}
			if err != nil {
				return err
			}

			if it.Quantity > product.Stock {
				return &InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: it.Quantity,
					Available: product.Stock,
				}
			}

			item := models.TransactionItem{
				TransactionID: header.ID,
				ProductID:     product.ID,
				Quantity:      it.Quantity,
				Price:         product.Price,
			}
			total = total.Add(item.LineTotal())

			if _, err := s.transactions.AddItem(ctx, item); err != nil {
				return fmt.Errorf("failed to add item for product %d: %w", product.ID, err)
			}
			if _, err := s.products.DecrementStock(ctx, product.ID, it.Quantity); err != nil {
				return fmt.Errorf("failed to decrement stock of product %d: %w", product.ID, err)
			}
		}

		return s.transactions.SetTotal(ctx, header.ID, total)
	})
	if err != nil {
		zap.L().Warn("transaction rejected",
			zap.Int("user_id", userID),
			zap.Int("items", len(items)),
			zap.Error(err),
		)
		return models.Transaction{}, err
	}

	zap.L().Info("transaction recorded",
		zap.Int("transaction_id", transactionID),
		zap.Int("user_id", userID),
		zap.Int("items", len(items)),
		zap.String("total", total.StringFixed(2)),
	)

	t, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to load transaction %d: %w", transactionID, err)
	}
	return t, nil
}

// GetTransaction returns the transaction only when it belongs to userID.
func (s *Service) GetTransaction(ctx context.Context, userID, id int) (models.Transaction, error) {
	t, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return models.Transaction{}, err
	}
	if t.UserID != userID {
		return models.Transaction{}, repo.ErrTransactionNotFound
	}
	return t, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID, offset, limit int) ([]models.Transaction, int, error) {
	return s.transactions.ListByUser(ctx, userID, offset, limit)
}
