// Package price fetches a spot ETH/USD quote. A failed fetch never takes the
// whole command down, so failures are reported as a closed set of tagged
// kinds the caller can inspect instead of free-text messages.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Kind tags one class of fetch failure.
type Kind string

const (
	KindTimeout          Kind = "timeout"
	KindConnectionFailed Kind = "connection_failed"
	KindRateLimited      Kind = "rate_limited"
	KindServerError      Kind = "server_error"
	KindInvalidResponse  Kind = "invalid_response"
)

// Error describes a failed spot price fetch.
type Error struct {
	Kind   Kind
	Status int // HTTP status when one was received, 0 otherwise
	cause  error
}

func (e *Error) Error() string {
	msg := "price fetch failed: " + string(e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.cause != nil {
		msg = msg + ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.cause }

// Fetcher retrieves the current ETH/USD rate from a simple-price endpoint.
type Fetcher struct {
	url   string
	httpc *http.Client
}

// NewFetcher creates a Fetcher with a bounded request timeout.
func NewFetcher(url string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		url:   url,
		httpc: &http.Client{Timeout: timeout},
	}
}

// Spot returns the current rate as USD per ETH. The result is a positive
// finite float; it is approximate by nature and never used for on-chain
// arithmetic.
func (f *Fetcher) Spot(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return 0, &Error{Kind: KindConnectionFailed, cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return 0, &Error{Kind: KindTimeout, cause: err}
		}
		return 0, &Error{Kind: KindConnectionFailed, cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return 0, &Error{Kind: KindRateLimited, Status: resp.StatusCode}
	case resp.StatusCode >= 500:
		return 0, &Error{Kind: KindServerError, Status: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return 0, &Error{Kind: KindInvalidResponse, Status: resp.StatusCode}
	}

	var body struct {
		Ethereum struct {
			USD float64 `json:"usd"`
		} `json:"ethereum"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, &Error{Kind: KindInvalidResponse, Status: resp.StatusCode, cause: err}
	}

	rate := body.Ethereum.USD
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, &Error{Kind: KindInvalidResponse, Status: resp.StatusCode,
			cause: errors.Errorf("rate %v is not a positive finite number", rate)}
	}
	return rate, nil
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
