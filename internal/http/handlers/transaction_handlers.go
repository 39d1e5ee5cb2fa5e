package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/rogerio-castellano/pos-manager/internal/repo"
	"github.com/rogerio-castellano/pos-manager/internal/sales"
)

func toTransactionResponse(t models.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:         t.ID,
		UserID:     t.UserID,
		CreatedAt:  t.CreatedAt,
		TotalPrice: t.TotalPrice,
		Items:      make([]TransactionItemResponse, len(t.Items)),
	}
	for i, it := range t.Items {
		resp.Items[i] = TransactionItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}
	return resp
}

// userOrUnauthorized writes 401 when the token's user no longer exists.
func userOrUnauthorized(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, err := currentUser(r)
	if errors.Is(err, repo.ErrUserNotFound) {
		http.Error(w, "unknown user", http.StatusUnauthorized)
		return models.User{}, false
	}
	if err != nil {
		internalError(w, r, "could not resolve user", err)
		return models.User{}, false
	}
	return user, true
}

// CreateTransactionHandler godoc
// @Summary Record a sale
// @Description Checks stock, decrements it and stores the items atomically
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body TransactionRequest true "Items to sell"
// @Success 201 {object} TransactionResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Failure 409 {object} InsufficientStockResponse
// @Failure 500 {string} string "Internal error"
// @Router /transactions [post]
func CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	items := make([]sales.LineItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = sales.LineItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	t, err := salesService.CreateTransaction(r.Context(), user.ID, items)

	var validationErr *sales.ValidationError
	var notFoundErr *sales.ProductNotFoundError
	var stockErr *sales.InsufficientStockError
	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
		return
	case errors.As(err, &notFoundErr):
		http.Error(w, notFoundErr.Error(), http.StatusNotFound)
		return
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, InsufficientStockResponse{
			Error:       "insufficient stock",
			ProductID:   stockErr.ProductID,
			ProductName: stockErr.Name,
			Requested:   stockErr.Requested,
			Available:   stockErr.Available,
		})
		return
	case err != nil:
		internalError(w, r, "could not create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

// GetTransactionsHandler godoc
// @Summary List the caller's transactions, newest first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination (max 100)"
// @Success 200 {object} TransactionsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /transactions [get]
func GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userOrUnauthorized(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	offset, err1 := parseIntPtr(q.Get("offset"))
	limit, err2 := parseIntPtr(q.Get("limit"))
	if err := errors.Join(err1, err2); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if limit != nil && *limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	if offset != nil && *offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}

	o, l := 0, repo.DefaultLimit
	if offset != nil {
		o = *offset
	}
	if limit != nil {
		l = *limit
	}

	list, total, err := salesService.ListTransactions(r.Context(), user.ID, o, l)
	if err != nil {
		internalError(w, r, "could not list transactions", err)
		return
	}

	resp := TransactionsSearchResult{
		Data: make([]TransactionResponse, len(list)),
		Meta: Meta{TotalCount: total},
	}
	for i, t := range list {
		resp.Data[i] = toTransactionResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetTransactionByIDHandler godoc
// @Summary Get one of the caller's transactions with its items
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /transactions/{id} [get]
func GetTransactionByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid transaction ID", http.StatusBadRequest)
		return
	}

	user, ok := userOrUnauthorized(w, r)
	if !ok {
		return
	}

	t, err := salesService.GetTransaction(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, repo.ErrTransactionNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		internalError(w, r, "could not fetch transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}
