package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsJSON = `{"data":[{"id":1,"name":"Coffee","description":"","price":2.5,"stock":10},{"id":2,"name":"Sandwich","description":"ham","price":9.99,"stock":5}],"meta":{"total_count":2}}`

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid input", http.StatusBadRequest)
			return
		}
		switch r.PostForm.Get("username") {
		case "retired":
			http.Error(w, "user is inactive", http.StatusForbidden)
			return
		case "admin":
			if r.PostForm.Get("password") == "secret" {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok-123", TokenType: "bearer"})
				return
			}
		}
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("offset") == "99" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Accept-Encoding") == "br" {
			w.Header().Set("Content-Encoding", "br")
			bw := brotli.NewWriter(w)
			_, _ = bw.Write([]byte(productsJSON))
			_ = bw.Close()
			return
		}
		_, _ = w.Write([]byte(productsJSON))
	})
	mux.HandleFunc("GET /metrics/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_products":2,"total_transactions":1,"revenue":17.49,"out_of_stock_count":0,"best_seller":{"product_id":1,"name":"Coffee","units_sold":3}}`))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestLogin(t *testing.T) {
	client := NewClient(newBackend(t).URL)
	ctx := context.Background()

	s, err := client.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, Session{Token: "tok-123", Username: "admin"}, s)
	assert.True(t, s.Authenticated())

	_, err = client.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = client.Login(ctx, "retired", "secret")
	assert.ErrorIs(t, err, ErrInactiveAccount)
}

func TestLogout(t *testing.T) {
	s := Logout(Session{Token: "tok-123", Username: "admin"})
	assert.Equal(t, Session{}, s)
	assert.False(t, s.Authenticated())
}

func TestListProducts(t *testing.T) {
	client := NewClient(newBackend(t).URL + "/")
	ctx := context.Background()

	s, err := client.Login(ctx, "admin", "secret")
	require.NoError(t, err)

	list, err := client.ListProducts(ctx, s, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalCount)
	require.Len(t, list.Products, 2)
	assert.Equal(t, "Coffee", list.Products[0].Name)
	assert.Equal(t, "9.99", list.Products[1].Price.StringFixed(2))
}

func TestListProducts_Errors(t *testing.T) {
	ts := newBackend(t)
	client := NewClient(ts.URL)
	ctx := context.Background()

	_, err := client.ListProducts(ctx, Session{}, 0, 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = client.ListProducts(ctx, Session{Token: "stale"}, 0, 0)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.ListProducts(ctx, Session{Token: "tok-123"}, 99, 0)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestListProducts_ServerDown(t *testing.T) {
	ts := newBackend(t)
	client := NewClient(ts.URL)
	ts.Close()

	_, err := client.ListProducts(context.Background(), Session{Token: "tok-123"}, 0, 0)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Zero(t, transportErr.StatusCode)

	_, err = client.Login(context.Background(), "admin", "secret")
	assert.True(t, errors.As(err, &transportErr))
}

func TestMetrics(t *testing.T) {
	client := NewClient(newBackend(t).URL)
	ctx := context.Background()

	_, err := client.Metrics(ctx, Session{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	m, err := client.Metrics(ctx, Session{Token: "tok-123"})
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalProducts)
	assert.Equal(t, "17.49", m.Revenue.StringFixed(2))
	assert.Equal(t, "Coffee", m.BestSeller.Name)
}
