// Package fred implements the HTTP client for the Federal Reserve Bank of
// St. Louis (FRED) API. Every call is chokepointed through the shared
// cache, rate limiter, and telemetry registry (spec §4.4): canonicalize
// params, check the cache, acquire a limiter ticket, attempt the HTTP GET
// with bounded retries, write the cache on success, and emit telemetry
// either way.
//
// The package is split across multiple files, each covering one FRED
// resource:
//
//	client.go   — Client struct, NewClient, the get() chokepoint
//	series.go   — series endpoints
//	category.go — category endpoints
//	release.go  — release endpoints
//	source.go   — source endpoints
//	tag.go      — tag endpoints
package fred

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"fredmcp/internal/apperr"
	"fredmcp/internal/cache"
	"fredmcp/internal/ratelimiter"
	"fredmcp/internal/telemetry"
)

const (
	defaultBaseURL = "https://api.stlouisfed.org/fred/"
	maxAttempts    = 3
	backoffBase    = 1 * time.Second
	backoffFactor  = 2.0
	backoffCap     = 5 * time.Second
)

// Client is the FRED API HTTP client. All dependencies (cache, limiter,
// telemetry) are injected rather than package-level globals, so tests can
// substitute fakes (spec §8 "Global state... design these as injectable").
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client

	cache   cache.Cache
	limiter *ratelimiter.Limiter
	tel     *telemetry.Registry

	// retryLimiter paces retry-storm HTTP attempts across concurrent
	// in-flight requests. This is a distinct concern from the admission
	// limiter above: it smooths the rate of *attempts* (including
	// retries) made process-wide once requests are already admitted,
	// using x/time/rate's continuous-refill token bucket, which fits
	// here precisely because no FIFO ordering or penalty feedback is
	// needed for this secondary pacing.
	retryLimiter *rate.Limiter
}

// Config bundles Client construction parameters.
type Config struct {
	APIKey       string
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	Cache        cache.Cache
	Limiter      *ratelimiter.Limiter
	Telemetry    *telemetry.Registry
	RetryRPS     float64 // retryLimiter refill rate; 0 disables extra pacing
}

// NewClient builds a Client wired to the shared cache/limiter/telemetry.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	// Accept either the API host (the config default) or a URL already
	// ending in /fred; endpoints are appended after "/fred/".
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(baseURL, "/fred") {
		baseURL += "/fred"
	}
	baseURL += "/"
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "fredmcp/1.0"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rps := cfg.RetryRPS
	if rps <= 0 {
		rps = 20
	}

	return &Client{
		baseURL:      baseURL,
		apiKey:       cfg.APIKey,
		userAgent:    userAgent,
		httpClient:   &http.Client{Timeout: timeout},
		cache:        cfg.Cache,
		limiter:      cfg.Limiter,
		tel:          cfg.Telemetry,
		retryLimiter: rate.NewLimiter(rate.Limit(rps), int(math.Max(1, rps))),
	}
}

// canonicalize drops empty values and renders params in sorted-key order
// so cache keys are stable across processes (spec §4.4 step 1).
func canonicalize(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if len(v) == 0 || v[0] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params.Get(k))
		b.WriteByte('&')
	}
	return b.String()
}

func cacheKey(endpoint string, params url.Values) string {
	sum := sha256.Sum256([]byte(endpoint + "?" + canonicalize(params)))
	return hex.EncodeToString(sum[:])
}

// cacheHitKey is the context key used by CaptureCacheHit to thread a
// was-this-call-served-from-cache flag out of get() without widening every
// endpoint method's signature. Tool orchestrators that need cache_hit for
// ToolResponse.metadata call CaptureCacheHit around a single Client call.
type cacheHitKey struct{}

// CaptureCacheHit returns a context that records whether the next get()
// call through it was a cache hit, and a pointer that holds the answer
// once the call returns. Safe to use around exactly one Client method
// call; nesting or reusing across concurrent calls is not supported.
func CaptureCacheHit(ctx context.Context) (context.Context, *bool) {
	hit := new(bool)
	return context.WithValue(ctx, cacheHitKey{}, hit), hit
}

func reportCacheHit(ctx context.Context, hit bool) {
	if ptr, ok := ctx.Value(cacheHitKey{}).(*bool); ok {
		*ptr = hit
	}
}

// namespaceForEndpoint maps a FRED endpoint path to the cache namespace
// (and the telemetry "tool" label) it belongs to, per spec §4.1's
// namespace list.
func namespaceForEndpoint(endpoint string) string {
	switch {
	case endpoint == "series/search":
		return cache.NamespaceSearch
	case endpoint == "series/observations":
		return cache.NamespaceObservations
	case strings.HasPrefix(endpoint, "category"):
		return cache.NamespaceCategory
	case strings.HasPrefix(endpoint, "tags") || endpoint == "related_tags":
		return cache.NamespaceTags
	default:
		return cache.NamespaceMetadata
	}
}

// get performs the full spec §4.4 GetJSON chokepoint: canonicalize →
// cache lookup → limiter acquire → attempt loop → cache write → telemetry.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	namespace := namespaceForEndpoint(endpoint)
	key := cacheKey(endpoint, params)
	requestID := uuid.NewString()
	start := time.Now()

	if c.cache != nil {
		if payload, hit, err := c.cache.Get(ctx, namespace, key); err == nil && hit {
			if jsonErr := json.Unmarshal(payload, out); jsonErr == nil {
				c.logCall(endpoint, requestID, start, "ok", true, 0, nil)
				reportCacheHit(ctx, true)
				return nil
			}
			// A corrupt cached payload is treated as a miss; fall through
			// to refetch rather than propagate a decode error.
		}
	}

	if err := ctx.Err(); err != nil {
		c.logCall(endpoint, requestID, start, "cancelled", false, 0, err)
		return apperr.Wrap(apperr.KindCancelled, err, "context already done before acquiring limiter")
	}

	ticket, err := c.limiter.Acquire(ctx, endpoint)
	if err != nil {
		c.logCall(endpoint, requestID, start, "cancelled", false, 0, err)
		return apperr.Wrap(apperr.KindCancelled, err, "acquiring rate limiter ticket")
	}

	body, status, retries, err := c.attemptLoop(ctx, endpoint, params, ticket)
	if err != nil {
		kind := classify(status, err)
		c.logCall(endpoint, requestID, start, string(kind), false, retries, err)
		return apperr.Wrap(kind, err, fmt.Sprintf("fetching %s", endpoint))
	}

	if jsonErr := json.Unmarshal(body, out); jsonErr != nil {
		c.logCall(endpoint, requestID, start, string(apperr.KindTransport), false, retries, jsonErr)
		return apperr.Wrap(apperr.KindTransport, jsonErr, fmt.Sprintf("decoding %s response", endpoint))
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, namespace, key, body, 0)
	}
	c.logCall(endpoint, requestID, start, "ok", false, retries, nil)
	reportCacheHit(ctx, false)
	return nil
}

// attemptLoop performs the bounded-retry HTTP GET loop (spec §4.4 step 4).
func (c *Client) attemptLoop(ctx context.Context, endpoint string, params url.Values, ticket *ratelimiter.Ticket) (body []byte, lastStatus int, retries int, err error) {
	reqParams := url.Values{}
	for k, v := range params {
		reqParams[k] = v
	}
	reqParams.Set("api_key", c.apiKey)
	reqParams.Set("file_type", "json")
	reqURL := c.baseURL + endpoint + "?" + reqParams.Encode()

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			retries++
			if err := c.sleepBackoff(ctx, attempt); err != nil {
				ticket.Observe(0)
				return nil, lastStatus, retries, err
			}
		}

		if err := c.retryLimiter.Wait(ctx); err != nil {
			ticket.Observe(0)
			return nil, lastStatus, retries, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, lastStatus, retries, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		lastStatus = resp.StatusCode

		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			ticket.Observe(resp.StatusCode)
			lastErr = fmt.Errorf("HTTP 429: %s", strings.TrimSpace(string(respBody)))
			continue
		}
		if resp.StatusCode >= 500 {
			ticket.Observe(resp.StatusCode)
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			ticket.Observe(resp.StatusCode)
			var apiErr struct {
				Error string `json:"error_message"`
			}
			_ = json.Unmarshal(respBody, &apiErr)
			msg := apiErr.Error
			if msg == "" {
				msg = strings.TrimSpace(string(respBody))
			}
			return nil, lastStatus, retries, fmt.Errorf("HTTP %d: %s", resp.StatusCode, msg)
		}

		ticket.Observe(resp.StatusCode)
		return respBody, lastStatus, retries, nil
	}
	return nil, lastStatus, retries, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

// sleepBackoff waits base*factor^(attempt-1) with ±20% jitter, capped, or
// returns ctx.Err() if the context is cancelled first (spec §4.4 step 4).
func (c *Client) sleepBackoff(ctx context.Context, attempt int) error {
	d := time.Duration(float64(backoffBase) * math.Pow(backoffFactor, float64(attempt-1)))
	if d > backoffCap {
		d = backoffCap
	}
	delta := float64(d) * 0.2
	d = time.Duration(float64(d) + (rand.Float64()*2-1)*delta)
	if d < 0 {
		d = 0
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// classify maps an HTTP status / error into the spec §7 error-kind
// taxonomy, after retries have been exhausted.
func classify(status int, err error) apperr.Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return apperr.KindRateLimited
	case status >= 500:
		return apperr.KindUpstream5xx
	case status >= 400 && status < 500:
		return apperr.KindUpstream4xx
	default:
		return apperr.KindTransport
	}
}

func (c *Client) logCall(tool, requestID string, start time.Time, status string, cacheHit bool, retries int, err error) {
	if c.tel == nil {
		return
	}
	c.tel.LogFREDCall(telemetry.FREDCallRecord{
		Tool:       tool,
		RequestID:  requestID,
		DurationMs: time.Since(start).Milliseconds(),
		Status:     status,
		CacheHit:   cacheHit,
		RetryCount: retries,
		Err:        err,
	})
}
