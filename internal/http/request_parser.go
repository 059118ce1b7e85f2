// This file implements utilities for parsing and validating request data.
// Amounts arrive as decimal strings ("1500.50") and are converted to cents
// at this boundary; everything past it works in core.Money.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Yordi314/lanomina/internal/core"
)

const accountHeader = "X-Account-ID"

// maxBodyBytes bounds request body reads.
const maxBodyBytes = 1 << 20

var errMissingAmount = errors.New("amount is required")

// accountID resolves the target account from the X-Account-ID header,
// falling back to the server's default account.
func (s *Server) accountID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(accountHeader)); id != "" {
		return id
	}
	return s.defaultAccount
}

func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	if len(body) == 0 {
		return errors.New("empty request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// parseAmount converts a decimal string into Money. The empty string is a
// client error, not a zero amount.
func parseAmount(raw string) (core.Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.Money{}, errMissingAmount
	}
	cents, err := core.ParseDecimalToCents(raw)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339; empty means "now".
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", raw)
	}
	return t, nil
}
