package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrProductInUse is returned when deleting a product that transaction items
// still point at. ErrInvalidQuantityChange guards the stock >= 0 invariant.
var (
	ErrProductNotFound       = errors.New("product not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
	ErrProductInUse          = errors.New("product is referenced by transactions")
	ErrInvalidQuantityChange = errors.New("stock cannot be negative")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
