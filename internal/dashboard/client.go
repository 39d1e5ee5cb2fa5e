package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/shopspring/decimal"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: &acceptTransport{Base: http.DefaultTransport},
			Timeout:   10 * time.Second,
		},
	}
}

// acceptTransport asks for JSON and Brotli-compressed bodies.
type acceptTransport struct {
	Base http.RoundTripper
}

func (t *acceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	return t.Base.RoundTrip(req)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type productPage struct {
	Data []models.Product `json:"data"`
	Meta struct {
		TotalCount int `json:"total_count"`
	} `json:"meta"`
}

// ProductList is one page of the catalog.
type ProductList struct {
	Products   []models.Product
	TotalCount int
}

type BestSeller struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
}

type Metrics struct {
	TotalProducts     int             `json:"total_products"`
	TotalTransactions int             `json:"total_transactions"`
	Revenue           decimal.Decimal `json:"revenue"`
	OutOfStockCount   int             `json:"out_of_stock_count"`
	BestSeller        BestSeller      `json:"best_seller"`
}

// Login exchanges credentials for a token through the form endpoint.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	form := url.Values{"username": {username}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, &TransportError{Op: "login", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req)
	if err != nil {
		return Session{}, &TransportError{Op: "login", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return Session{}, ErrInvalidCredentials
	case http.StatusForbidden:
		return Session{}, ErrInactiveAccount
	case http.StatusTooManyRequests:
		return Session{}, ErrTooManyAttempts
	default:
		return Session{}, unexpectedStatus("login", resp)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Session{}, &TransportError{Op: "login", Err: fmt.Errorf("decode response: %w", err)}
	}
	if tr.AccessToken == "" {
		return Session{}, &TransportError{Op: "login", Err: errors.New("empty access token")}
	}

	return Session{Token: tr.AccessToken, Username: username}, nil
}

// ListProducts fetches one page of products. A zero limit uses the server default.
func (c *Client) ListProducts(ctx context.Context, s Session, offset, limit int) (ProductList, error) {
	q := url.Values{}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var page productPage
	if err := c.getJSON(ctx, s, "list products", "/products", q, &page); err != nil {
		return ProductList{}, err
	}
	return ProductList{Products: page.Data, TotalCount: page.Meta.TotalCount}, nil
}

func (c *Client) Metrics(ctx context.Context, s Session) (Metrics, error) {
	var m Metrics
	if err := c.getJSON(ctx, s, "fetch metrics", "/metrics/dashboard", nil, &m); err != nil {
		return Metrics{}, err
	}
	return m, nil
}

func (c *Client) getJSON(ctx context.Context, s Session, op, path string, q url.Values, out any) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := c.do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return unexpectedStatus(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	return resp, nil
}

func unexpectedStatus(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &TransportError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Err:        errors.New(strings.TrimSpace(string(body))),
	}
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}
