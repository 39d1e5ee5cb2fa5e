package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

func (r *PostgresTransactionRepository) CreateHeader(ctx context.Context, userID int, createdAt time.Time) (models.Transaction, error) {
	query := `INSERT INTO transactions (user_id, created_at, total_price) VALUES ($1, $2, 0) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	t := models.Transaction{
		UserID:     userID,
		CreatedAt:  createdAt,
		TotalPrice: decimal.Zero,
		Items:      []models.TransactionItem{},
	}
	if err := executorFrom(ctx, r.db).QueryRowContext(ctx, query, userID, createdAt).Scan(&t.ID); err != nil {
		return models.Transaction{}, fmt.Errorf("failed to insert transaction: %w", err)
	}
	return t, nil
}

func (r *PostgresTransactionRepository) AddItem(ctx context.Context, item models.TransactionItem) (models.TransactionItem, error) {
	query := `INSERT INTO transaction_items (transaction_id, product_id, quantity, price) VALUES ($1, $2, $3, $4) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := executorFrom(ctx, r.db).QueryRowContext(ctx, query, item.TransactionID, item.ProductID, item.Quantity, item.Price).
		Scan(&item.ID)
	if err != nil {
		if hasPgCode(err, pgForeignKeyViolation) {
			return models.TransactionItem{}, ErrProductNotFound
		}
		return models.TransactionItem{}, fmt.Errorf("failed to insert transaction item: %w", err)
	}
	return item, nil
}

func (r *PostgresTransactionRepository) SetTotal(ctx context.Context, id int, total decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := executorFrom(ctx, r.db).ExecContext(ctx, `UPDATE transactions SET total_price = $1 WHERE id = $2`, total, id)
	if err != nil {
		return fmt.Errorf("failed to set transaction total: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// GetByID loads a transaction header with its items. Outside a unit of work
// both reads run concurrently.
func (r *PostgresTransactionRepository) GetByID(ctx context.Context, id int) (models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	exec := executorFrom(ctx, r.db)

	var (
		header models.Transaction
		items  []models.TransactionItem
	)

	if _, inTx := exec.(*sql.Tx); inTx {
		var err error
		if header, err = loadHeader(ctx, exec, id); err != nil {
			return models.Transaction{}, err
		}
		if items, err = loadItems(ctx, exec, id); err != nil {
			return models.Transaction{}, err
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			header, err = loadHeader(gctx, exec, id)
			return err
		})
		g.Go(func() error {
			var err error
			items, err = loadItems(gctx, exec, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return models.Transaction{}, err
		}
	}

	header.Items = items
	return header, nil
}

func loadHeader(ctx context.Context, exec executor, id int) (models.Transaction, error) {
	var t models.Transaction
	err := exec.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, total_price FROM transactions WHERE id = $1`, id).
		Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.TotalPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	return t, nil
}

func loadItems(ctx context.Context, exec executor, transactionID int) ([]models.TransactionItem, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT id, transaction_id, product_id, quantity, price FROM transaction_items WHERE transaction_id = $1 ORDER BY id`,
		transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items of transaction %d: %w", transactionID, err)
	}
	defer rows.Close()

	items := []models.TransactionItem{}
	for rows.Next() {
		var it models.TransactionItem
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PostgresTransactionRepository) ListByUser(ctx context.Context, userID int, offset, limit int) ([]models.Transaction, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	exec := executorFrom(ctx, r.db)

	var total int
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	rows, err := exec.QueryContext(ctx, `
		SELECT id, user_id, created_at, total_price
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, effectiveLimit(&limit), effectiveOffset(&offset))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.TotalPrice); err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}
