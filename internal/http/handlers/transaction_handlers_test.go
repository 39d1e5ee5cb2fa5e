package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/rogerio-castellano/pos-manager/internal/auth"
	handler "github.com/rogerio-castellano/pos-manager/internal/http/handlers"
	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/shopspring/decimal"
)

func TestCreateTransactionHandler_Success(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.seedProduct(t, "Coffee", "2.50", 10)
	p2 := ts.seedProduct(t, "Sandwich", "9.99", 5)

	w := ts.do(http.MethodPost, "/transactions", handler.TransactionRequest{
		Items: []handler.TransactionItemRequest{
			{ProductID: p1.ID, Quantity: 3},
			{ProductID: p2.ID, Quantity: 1},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[handler.TransactionResponse](t, w)
	if !resp.TotalPrice.Equal(decimal.RequireFromString("17.49")) {
		t.Errorf("expected total 17.49, got %s", resp.TotalPrice)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[0].ProductID != p1.ID || resp.Items[0].Quantity != 3 || !resp.Items[0].Price.Equal(p1.Price) {
		t.Errorf("unexpected first item %+v", resp.Items[0])
	}
	if resp.UserID != 1 {
		t.Errorf("expected user 1, got %d", resp.UserID)
	}

	if got := ts.stock(t, p1.ID); got != 7 {
		t.Errorf("expected Coffee stock 7, got %d", got)
	}
	if got := ts.stock(t, p2.ID); got != 4 {
		t.Errorf("expected Sandwich stock 4, got %d", got)
	}
}

func TestCreateTransactionHandler_InsufficientStock(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.seedProduct(t, "Coffee", "2.50", 10)

	w := ts.do(http.MethodPost, "/transactions", handler.TransactionRequest{
		Items: []handler.TransactionItemRequest{{ProductID: p1.ID, Quantity: 20}},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", w.Code)
	}

	resp := decode[handler.InsufficientStockResponse](t, w)
	want := handler.InsufficientStockResponse{
		Error:       "insufficient stock",
		ProductID:   p1.ID,
		ProductName: "Coffee",
		Requested:   20,
		Available:   10,
	}
	if resp != want {
		t.Errorf("expected %+v, got %+v", want, resp)
	}

	if got := ts.stock(t, p1.ID); got != 10 {
		t.Errorf("expected stock unchanged at 10, got %d", got)
	}
	if n, _ := ts.transactions.Count(); n != 0 {
		t.Errorf("expected no transactions, got %d", n)
	}
}

func TestCreateTransactionHandler_Errors(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.seedProduct(t, "Coffee", "2.50", 10)

	tests := []struct {
		name  string
		items []handler.TransactionItemRequest
		code  int
	}{
		{"unknown product", []handler.TransactionItemRequest{{ProductID: p1.ID, Quantity: 1}, {ProductID: 999, Quantity: 1}}, http.StatusNotFound},
		{"zero quantity", []handler.TransactionItemRequest{{ProductID: p1.ID, Quantity: 0}}, http.StatusBadRequest},
		{"negative quantity", []handler.TransactionItemRequest{{ProductID: p1.ID, Quantity: -2}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(http.MethodPost, "/transactions", handler.TransactionRequest{Items: tt.items})
			if w.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, w.Code)
			}
		})
	}

	if got := ts.stock(t, p1.ID); got != 10 {
		t.Errorf("expected stock unchanged at 10, got %d", got)
	}
	if n, items := ts.transactions.Count(); n != 0 || items != 0 {
		t.Errorf("expected nothing persisted, got %d transactions and %d items", n, items)
	}
}

func TestGetTransactionHandlers(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.seedProduct(t, "Coffee", "2.50", 10)

	var ids []int
	for i := 1; i <= 3; i++ {
		w := ts.do(http.MethodPost, "/transactions", handler.TransactionRequest{
			Items: []handler.TransactionItemRequest{{ProductID: p1.ID, Quantity: i}},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		ids = append(ids, decode[handler.TransactionResponse](t, w).ID)
	}

	w := ts.do(http.MethodGet, "/transactions?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	list := decode[handler.TransactionsSearchResult](t, w)
	if list.Meta.TotalCount != 3 || len(list.Data) != 2 {
		t.Fatalf("expected 2 of 3 transactions, got %d of %d", len(list.Data), list.Meta.TotalCount)
	}
	if list.Data[0].ID != ids[2] {
		t.Errorf("expected newest transaction first, got %d", list.Data[0].ID)
	}

	w = ts.do(http.MethodGet, fmt.Sprintf("/transactions/%d", ids[1]), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	one := decode[handler.TransactionResponse](t, w)
	if len(one.Items) != 1 || one.Items[0].Quantity != 2 || !one.TotalPrice.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("unexpected transaction %+v", one)
	}

	if w := ts.do(http.MethodGet, "/transactions/999", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestGetTransactionHandler_OtherUsersAreHidden(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.seedProduct(t, "Coffee", "2.50", 10)

	w := ts.do(http.MethodPost, "/transactions", handler.TransactionRequest{
		Items: []handler.TransactionItemRequest{{ProductID: p1.ID, Quantity: 1}},
	})
	id := decode[handler.TransactionResponse](t, w).ID

	hash, _ := auth.HashPassword("other-pass")
	if _, err := ts.users.CreateUser(context.Background(), models.User{Username: "other", PasswordHash: hash, IsActive: true}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	otherToken, err := generateToken(ts.router, "other", "other-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	ts.token = otherToken

	if w := ts.do(http.MethodGet, fmt.Sprintf("/transactions/%d", id), nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another user's transaction, got %d", w.Code)
	}
	list := decode[handler.TransactionsSearchResult](t, ts.do(http.MethodGet, "/transactions", nil))
	if list.Meta.TotalCount != 0 {
		t.Errorf("expected no transactions for the other user, got %d", list.Meta.TotalCount)
	}
}
