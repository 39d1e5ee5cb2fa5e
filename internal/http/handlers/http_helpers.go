package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rogerio-castellano/pos-manager/internal/http/middleware"
	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/rogerio-castellano/pos-manager/internal/repo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errInvalidQuery = errors.New("invalid query parameter")

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) {
	out, err := json.Marshal(data)
	if err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		zap.L().Warn("failed to write response", zap.Error(err))
	}
}

// internalError logs err and answers 500 with msg.
func internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zap.L().Error(msg, zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, msg, http.StatusInternalServerError)
}

func parseIntPtr(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errInvalidQuery, s)
	}
	return &v, nil
}

func parseDecimalPtr(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errInvalidQuery, s)
	}
	return &v, nil
}

// currentUser resolves the user behind the bearer token.
func currentUser(r *http.Request) (models.User, error) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		return models.User{}, repo.ErrUserNotFound
	}
	return authService.UserByUsername(r.Context(), username)
}
