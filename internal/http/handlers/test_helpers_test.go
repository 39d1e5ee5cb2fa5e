package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rogerio-castellano/pos-manager/internal/auth"
	"github.com/rogerio-castellano/pos-manager/internal/http/ban"
	handler "github.com/rogerio-castellano/pos-manager/internal/http/handlers"
	"github.com/rogerio-castellano/pos-manager/internal/http/router"
	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/rogerio-castellano/pos-manager/internal/repo"
	"github.com/rogerio-castellano/pos-manager/internal/sales"
	"github.com/shopspring/decimal"
)

const (
	adminUser     = "admin"
	adminPassword = "secret"
	maxStrikes    = 3
)

type testServer struct {
	router       http.Handler
	token        string
	products     *repo.InMemoryProductRepository
	transactions *repo.InMemoryTransactionRepository
	users        *repo.InMemoryUserRepository
}

// newTestServer wires fresh in-memory repositories into the handlers and
// logs the admin user in.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	products := repo.NewInMemoryProductRepository()
	transactions := repo.NewInMemoryTransactionRepository()
	products.SetReferenceCheck(transactions.References)
	users := repo.NewInMemoryUserRepository()
	metrics := repo.NewInMemoryMetricsRepository()
	metrics.SetRepositories(products, transactions)

	tokens := auth.NewTokenIssuer("test-secret", time.Minute)
	authService := auth.NewService(users, tokens)
	uow := repo.NewInMemoryUnitOfWork(products, transactions)

	handler.SetProductRepo(products)
	handler.SetMetricsRepo(metrics)
	handler.SetAuthService(authService)
	handler.SetSalesService(sales.NewService(uow, products, transactions))
	handler.SetBanTracker(ban.NewTracker(ban.NewMemoryStore(), maxStrikes, time.Minute))

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := users.CreateUser(context.Background(), models.User{Username: adminUser, PasswordHash: hash, IsActive: true}); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	ts := &testServer{
		router:       router.NewRouter(tokens, nil),
		products:     products,
		transactions: transactions,
		users:        users,
	}
	ts.token, err = generateToken(ts.router, adminUser, adminPassword)
	if err != nil {
		t.Fatalf("error generating token: %v", err)
	}
	return ts
}

func generateToken(r http.Handler, username, password string) (string, error) {
	w := login(r, username, password)
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login returned %d", w.Code)
	}

	var resp handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func login(r http.Handler, username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(handler.CredentialsRequest{Username: username, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// do sends an authenticated request with an optional JSON body.
func (ts *testServer) do(method, path string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+ts.token)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) seedProduct(t *testing.T, name, price string, stock int) models.Product {
	t.Helper()
	p, err := ts.products.Create(context.Background(), models.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func (ts *testServer) stock(t *testing.T, id int) int {
	t.Helper()
	p, err := ts.products.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get product %d: %v", id, err)
	}
	return p.Stock
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("error decoding response: %v (body %q)", err, w.Body.String())
	}
	return v
}
