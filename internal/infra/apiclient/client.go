// Package apiclient calls the remote content API and degrades to fallback content on failure.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/infra/metrics"
	"github.com/UniversityPortal/pkg/logging"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://buxdu.uz/api"

	maxBodyBytes = 10 << 20
)

// FallbackSource supplies substitute content for an endpoint path.
type FallbackSource interface {
	Lookup(path string) domain.Envelope
}

// Settings tunes the client. Zero values select defaults.
type Settings struct {
	BaseURL     string
	Timeout     time.Duration
	MaxFailures uint32
	OpenTimeout time.Duration
	RateLimit   float64 // requests per second, 0 disables
	RateBurst   int
}

// RequestOption adjusts an outgoing request before it is sent.
type RequestOption func(*http.Request)

// WithHeader overrides or adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

type Client struct {
	baseURL  string
	client   *http.Client
	fallback FallbackSource
	limiter  *rate.Limiter
	sink     domain.EventSink
	sampler  *logging.ErrorSampler

	maxFailures uint32
	openTimeout time.Duration

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

var _ domain.APIClient = (*Client)(nil)

// errCallerGone marks a request aborted by its own caller. It never counts
// against the endpoint's breaker.
var errCallerGone = errors.New("caller went away")

func NewClient(s Settings, fb FallbackSource, sink domain.EventSink) *Client {
	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if s.Timeout <= 0 {
		s.Timeout = 10 * time.Second
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 3
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if s.RateLimit > 0 {
		burst := s.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(s.RateLimit), burst)
	}

	return &Client{
		baseURL:     base,
		client:      &http.Client{Timeout: s.Timeout},
		fallback:    fb,
		limiter:     limiter,
		sink:        sink,
		sampler:     logging.NewErrorSampler(20),
		maxFailures: s.MaxFailures,
		openTimeout: s.OpenTimeout,
		breakers:    make(map[string]*gobreaker.CircuitBreaker),
	}
}

// breaker returns the circuit breaker for path, creating it on first use.
// Each endpoint trips on its own failures only.
func (c *Client) breaker(path string) *gobreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cb, ok := c.breakers[path]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "content-api:" + path,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     c.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("CircuitBreaker state changed", "name", name, "from", from, "to", to)
			if to == gobreaker.StateClosed {
				c.sampler.Reset(breakerKey(path))
			}
		},
	})
	c.breakers[path] = cb
	return cb
}

func breakerKey(path string) string {
	return "breaker_open:" + path
}

// BaseURL returns the resolved base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call fetches path with query. It never fails: on any error the fallback
// entry for path is returned instead.
func (c *Client) Call(ctx context.Context, path string, query url.Values) domain.Envelope {
	return c.Do(ctx, path, query)
}

// Do is Call with per-request options.
func (c *Client) Do(ctx context.Context, path string, query url.Values, opts ...RequestOption) domain.Envelope {
	tr := otel.Tracer("content-api")
	ctx, span := tr.Start(ctx, "apiclient.Call")
	defer span.End()
	span.SetAttributes(attribute.String("endpoint", path))

	start := time.Now()
	env, err := c.fetch(ctx, path, query, opts)
	metrics.APIRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

	if err == nil {
		metrics.APIRequests.WithLabelValues(path, "success").Inc()
		return env
	}

	kind := Kind(err)
	span.RecordError(err)
	span.SetAttributes(attribute.String("fallback.kind", kind))
	metrics.APIRequests.WithLabelValues(path, "fallback").Inc()
	metrics.FallbackServed.WithLabelValues(path, kind).Inc()

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		if c.sampler.ShouldLog(breakerKey(path)) {
			slog.Warn("API circuit open, serving fallback", "endpoint", path, "suppressed", c.sampler.GetCount(breakerKey(path))-1)
		}
	} else {
		slog.Warn("API request failed, serving fallback", "endpoint", path, "kind", kind, "error", err)
	}
	c.report(ctx, path, err)

	return c.fallback.Lookup(path)
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values, opts []RequestOption) (domain.Envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.Envelope{}, &TransportError{Err: err}
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.Envelope{}, &TransportError{Err: fmt.Errorf("%w: %w", errCallerGone, err)}
	}

	result, err := c.breaker(path).Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path, query), nil)
		if err != nil {
			return nil, &TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		for _, opt := range opts {
			opt(req)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return nil, &TransportError{Err: fmt.Errorf("%w: %w", errCallerGone, cerr)}
			}
			return nil, &TransportError{Err: err}
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				slog.Warn("Failed to close response body", "error", err)
			}
		}()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
			return nil, &ProtocolError{Status: resp.StatusCode}
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return nil, &TransportError{Err: fmt.Errorf("%w: %w", errCallerGone, cerr)}
			}
			return nil, &TransportError{Err: fmt.Errorf("read body: %w", err)}
		}
		var env domain.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, &ParseError{Err: err}
		}
		if env.Results == nil {
			env.Results = []domain.Item{}
		}
		return env, nil
	})
	if err != nil {
		var terr *TransportError
		if Kind(err) == KindTransport && !errors.As(err, &terr) {
			err = &TransportError{Err: err}
		}
		return domain.Envelope{}, err
	}
	return result.(domain.Envelope), nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) report(ctx context.Context, path string, err error) {
	if c.sink == nil {
		return
	}
	event := &domain.DegradationEvent{
		ID:       uuid.NewString(),
		Kind:     domain.DegradationFallback,
		Endpoint: path,
		Reason:   err.Error(),
		At:       time.Now().UTC(),
	}
	if perr := c.sink.Publish(context.WithoutCancel(ctx), event); perr != nil {
		slog.Warn("Failed to publish degradation event", "endpoint", path, "error", perr)
	}
}
