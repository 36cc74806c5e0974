package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v39/github"
	"github.com/reillywatson/prsnapshot/internal/cache"
	"go.uber.org/zap"
)

const maxRetries = 3

// ErrRetriesExhausted is returned once a rate-limited request has been
// retried maxRetries times without success.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Request identifies one API call. Endpoint is a template such as
// /repos/{owner}/{repo}/pulls; params fill its placeholders and the rest
// become query parameters.
type Request struct {
	Method   string
	Endpoint string
	Params   map[string]any
	TTL      time.Duration
}

type retryClass int

const (
	noRetry retryClass = iota
	retryPrimary
	retryQuota
)

// baseDelay is the first wait of each retry class; later waits double it.
func (r retryClass) baseDelay() time.Duration {
	switch r {
	case retryPrimary:
		return 30 * time.Second
	case retryQuota:
		return 60 * time.Second
	default:
		return 0
	}
}

func (r retryClass) String() string {
	switch r {
	case retryPrimary:
		return "rate limit"
	case retryQuota:
		return "quota exhausted"
	default:
		return "none"
	}
}

// CachedClient routes every request through the response cache and retries
// quota errors with exponential backoff.
type CachedClient struct {
	transport Transport
	cache     cache.Cache
	log       *zap.SugaredLogger
	force     bool
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewCachedClient creates a client over transport. With force set, requests
// are served from the cache only.
func NewCachedClient(transport Transport, cacheImpl cache.Cache, log *zap.SugaredLogger, force bool) *CachedClient {
	return &CachedClient{
		transport: transport,
		cache:     cacheImpl,
		log:       log,
		force:     force,
		sleep:     sleepContext,
	}
}

// Request returns the body for req from the cache or the live API
func (c *CachedClient) Request(ctx context.Context, req Request) (json.RawMessage, error) {
	key := cache.RequestKey(req.Method, req.Endpoint, req.Params)
	path, query := expandEndpoint(req.Endpoint, req.Params)

	for attempt := 0; ; attempt++ {
		// Re-checked on every attempt; a concurrent request may have filled it
		body, err := c.cache.Get(key, req.TTL, c.force)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, cache.ErrForcedCacheMiss) {
			return nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.log.Warnw("Cache error", "endpoint", req.Endpoint, "error", err)
		}

		body, err = c.transport.Do(ctx, req.Method, path, query)
		if err == nil {
			if len(body) == 0 {
				body = json.RawMessage("null")
			}
			if err := c.cache.Set(key, body); err != nil {
				c.log.Warnw("Failed to cache response", "endpoint", req.Endpoint, "error", err)
			}
			return body, nil
		}

		class := classifyRetry(err)
		if class == noRetry {
			return nil, err
		}
		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt+1, err)
		}

		wait := class.baseDelay() << attempt
		c.log.Warnw("Request throttled, backing off",
			"reason", class.String(),
			"path", path,
			"attempt", attempt+1,
			"wait", wait,
		)
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// classifyRetry decides whether err is a quota error worth retrying
func classifyRetry(err error) retryClass {
	msg := strings.ToLower(err.Error())

	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) ||
		strings.Contains(msg, "secondary rate limit") ||
		(strings.Contains(msg, "quota") && strings.Contains(msg, "exhaust")) {
		return retryQuota
	}

	var rateLimit *github.RateLimitError
	if errors.As(err, &rateLimit) {
		return retryPrimary
	}

	if !strings.Contains(msg, "rate limit") {
		return noRetry
	}
	var resp *github.ErrorResponse
	if errors.As(err, &resp) && resp.Response != nil {
		if resp.Response.StatusCode == http.StatusForbidden {
			return retryPrimary
		}
		return noRetry
	}
	if strings.Contains(msg, "403") {
		return retryPrimary
	}
	return noRetry
}

// expandEndpoint fills {name} placeholders from params; the remaining params
// become the query string.
func expandEndpoint(endpoint string, params map[string]any) (string, url.Values) {
	path := endpoint
	query := url.Values{}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := fmt.Sprint(params[name])
		placeholder := "{" + name + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(value))
			continue
		}
		query.Set(name, value)
	}
	return path, query
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
