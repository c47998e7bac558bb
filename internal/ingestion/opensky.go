// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/skywatch/internal/config"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
)

// maxErrorBodySize limits how much of an error response is read for diagnostics.
const maxErrorBodySize = 64 * 1024

const breakerName = "opensky-api"

// ErrRateLimited is returned when OpenSky answers 429.
var ErrRateLimited = errors.New("opensky rate limit exceeded")

// StatesResponse is the body of GET /states/all. Each state vector is a
// positional array; see ParseStateVector for the field layout.
type StatesResponse struct {
	Time   int64   `json:"time"`
	States [][]any `json:"states"`
}

// StateFetcher fetches the current global state vectors.
type StateFetcher interface {
	FetchStates(ctx context.Context) (*StatesResponse, error)
}

// Client is the OpenSky REST client.
//
// Requests are paced by a token bucket (one request per MinInterval) and
// guarded by a circuit breaker that opens after 60% failures over at
// least 10 requests, then probes again after 2 minutes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[*StatesResponse]
}

// NewClient creates an OpenSky client.
func NewClient(cfg *config.OpenSkyConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		limiter:    rate.NewLimiter(limit, 1),
		cb:         newBreaker(breakerName),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[*StatesResponse] {
	return gobreaker.NewCircuitBreaker[*StatesResponse](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening OpenSky circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
}

// FetchStates returns every state vector OpenSky currently reports.
func (c *Client) FetchStates(ctx context.Context) (*StatesResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.cb.Execute(func() (*StatesResponse, error) {
		return c.fetchStates(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			metrics.OpenSkyRequests.WithLabelValues("rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	return resp, nil
}

// BreakerState reports the circuit breaker state for health checks.
func (c *Client) BreakerState() string {
	return stateToString(c.cb.State())
}

func (c *Client) fetchStates(ctx context.Context) (*StatesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/states/all", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.OpenSkyRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("opensky request: %w", err)
	}
	defer resp.Body.Close()

	metrics.OpenSkyRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w (retry after %q)", ErrRateLimited, resp.Header.Get("X-Rate-Limit-Retry-After-Seconds"))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("opensky returned status %d: %s", resp.StatusCode, readBodyForError(resp.Body))
	}

	var states StatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&states); err != nil {
		return nil, fmt.Errorf("decode states: %w", err)
	}
	return &states, nil
}

// readBodyForError reads at most maxErrorBodySize bytes of a failed response.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
