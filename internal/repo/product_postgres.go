package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	models "github.com/rogerio-castellano/pos-manager/internal/models"
)

const productColumns = `id, name, description, price, stock`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func scanProduct(row interface{ Scan(dest ...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock)
	return p, err
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO products (name, description, price, stock) VALUES ($1, $2, $3, $4) RETURNING id, price`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := executorFrom(ctx, r.db).QueryRowContext(ctx, query, p.Name, p.Description, p.Price, p.Stock).Scan(&p.ID, &p.Price)
	if err != nil {
		if hasPgCode(err, pgCheckViolation) {
			return models.Product{}, ErrInvalidQuantityChange
		}
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	return r.getByID(ctx, id, false)
}

func (r *PostgresProductRepository) GetForUpdate(ctx context.Context, id int) (models.Product, error) {
	return r.getByID(ctx, id, true)
}

func (r *PostgresProductRepository) getByID(ctx context.Context, id int, lock bool) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(executorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	conditions, args, argIdx := filterConditions(pf)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	exec := executorFrom(ctx, r.db)

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM products WHERE 1=1" + conditions
	if err := exec.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	query += conditions
	query += " ORDER BY id"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, effectiveLimit(pf.Limit), effectiveOffset(pf.Offset))

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, totalCount, nil
}

func filterConditions(pf ProductFilter) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if pf.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+pf.Name+"%")
		argIdx++
	}
	if pf.MinPrice != nil {
		query += fmt.Sprintf(" AND price >= $%d", argIdx)
		args = append(args, *pf.MinPrice)
		argIdx++
	}
	if pf.MaxPrice != nil {
		query += fmt.Sprintf(" AND price <= $%d", argIdx)
		args = append(args, *pf.MaxPrice)
		argIdx++
	}
	if pf.MinStock != nil {
		query += fmt.Sprintf(" AND stock >= $%d", argIdx)
		args = append(args, *pf.MinStock)
		argIdx++
	}
	if pf.MaxStock != nil {
		query += fmt.Sprintf(" AND stock <= $%d", argIdx)
		args = append(args, *pf.MaxStock)
		argIdx++
	}

	return query, args, argIdx
}

func (r *PostgresProductRepository) Update(ctx context.Context, id int, u ProductUpdate) (models.Product, error) {
	if u.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Price != nil {
		add("price", *u.Price)
	}
	if u.Stock != nil {
		add("stock", *u.Stock)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), productColumns)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(executorFrom(ctx, r.db).QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Product{}, ErrProductNotFound
	case hasPgCode(err, pgCheckViolation):
		return models.Product{}, ErrInvalidQuantityChange
	case err != nil:
		return models.Product{}, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := executorFrom(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		if hasPgCode(err, pgForeignKeyViolation) {
			return ErrProductInUse
		}
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock lowers stock by quantity, refusing to go below zero.
func (r *PostgresProductRepository) DecrementStock(ctx context.Context, id int, quantity int) (models.Product, error) {
	query := `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2 AND stock - $1 >= 0
		RETURNING ` + productColumns
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(executorFrom(ctx, r.db).QueryRowContext(ctx, query, quantity, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrInvalidQuantityChange
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to decrement stock of product %d: %w", id, err)
	}
	return p, nil
}
