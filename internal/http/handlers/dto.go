package handlers

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// ProductPatchRequest carries only the fields a PATCH wants to change.
type ProductPatchRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
}

type ProductResponse struct {
	Id          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}

// TokenResult is the OAuth2-style body returned by /token.
type TokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type TransactionItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type TransactionRequest struct {
	Items []TransactionItemRequest `json:"items"`
}

type TransactionItemResponse struct {
	ID        int             `json:"id"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type TransactionResponse struct {
	ID         int                       `json:"id"`
	UserID     int                       `json:"user_id"`
	CreatedAt  time.Time                 `json:"created_at"`
	TotalPrice decimal.Decimal           `json:"total_price"`
	Items      []TransactionItemResponse `json:"items"`
}

type TransactionsSearchResult struct {
	Data []TransactionResponse `json:"data"`
	Meta Meta                  `json:"meta"`
}

type InsufficientStockResponse struct {
	Error       string `json:"error"`
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}
