package woo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the store. Code and Message come from
// WooCommerce's structured error body when it can be parsed.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("woocommerce: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("woocommerce: %s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether the store answered 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// parseAPIError builds an APIError from a WooCommerce error body of the shape
// {"code": "...", "message": "...", "data": {"status": 404}}, falling back to
// the raw body text.
func parseAPIError(status int, body []byte) *APIError {
	var wire struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Data    struct {
			Status int `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Message != "" {
		if wire.Data.Status != 0 {
			status = wire.Data.Status
		}
		return &APIError{StatusCode: status, Code: wire.Code, Message: wire.Message}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
