package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"dealscout/helpers"
	"dealscout/logger"
	"dealscout/pkg/errors"
	"dealscout/services/cache"
)

// Fetcher retrieves raw listing pages. It owns request pacing per host,
// bounded retries with exponential backoff and rate-limit block state.
type Fetcher struct {
	Client     *http.Client
	CacheSvc   cache.CacheService
	MaxRetries int
	RetryDelay time.Duration
	HostDelay  time.Duration

	mu      sync.Mutex
	lastHit map[string]time.Time

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

// defaultBlockTime is used when a rate-limited response carries no
// Retry-After header.
const defaultBlockTime = 5 * time.Minute

// NewFetcher creates a new fetcher
func NewFetcher(timeout time.Duration, cacheSvc cache.CacheService, maxRetries int, retryDelay, hostDelay time.Duration) *Fetcher {
	return &Fetcher{
		Client:     &http.Client{Timeout: timeout},
		CacheSvc:   cacheSvc,
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		HostDelay:  hostDelay,
		lastHit:    make(map[string]time.Time),
		sleep:      time.Sleep,
	}
}

// Fetch retrieves pageURL and returns its body normalized to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, sourceName, pageURL string) (RawPage, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return RawPage{}, errors.NewNetwork(sourceName, fmt.Sprintf("invalid listing URL %q", pageURL), err)
	}

	if f.isBlocked(u.Host) {
		return RawPage{}, errors.NewRateLimit(sourceName, 0)
	}

	var lastErr error
	for attempt := 0; attempt <= f.MaxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff between attempts
			f.sleep(f.RetryDelay << (attempt - 1))
		}

		f.pace(u.Host)

		body, retryable, err := f.doRequest(ctx, sourceName, u.Host, pageURL)
		if err == nil {
			return RawPage{
				SourceName: sourceName,
				SourceURL:  pageURL,
				Body:       body,
				FetchedAt:  time.Now(),
			}, nil
		}

		lastErr = err
		if !retryable {
			return RawPage{}, err
		}
	}

	return RawPage{}, lastErr
}

// doRequest performs a single request attempt. The second return value
// reports whether the failure is worth retrying.
func (f *Fetcher) doRequest(ctx context.Context, sourceName, host, pageURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false, errors.NewNetwork(sourceName, "failed to create request", err)
	}
	helpers.ApplyBrowserHeaders(req)

	resp, err := f.Client.Do(req)
	if err != nil {
		// Timeouts and connection failures are transient
		return nil, true, errors.NewNetwork(sourceName, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, errors.NewNetwork(sourceName, "failed to read response body", err)
		}
		utf8Body, err := helpers.ToUTF8(bodyBytes, resp.Header.Get("Content-Type"))
		if err != nil {
			return nil, false, errors.NewNetwork(sourceName, "failed to decode response body", err)
		}
		return utf8Body, false, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 430:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		f.block(host, retryAfter)
		return nil, true, errors.NewRateLimit(sourceName, retryAfter)

	case resp.StatusCode >= 500:
		return nil, true, errors.NewHTTPStatus(sourceName, resp.StatusCode)

	default:
		// Remaining 4xx are not transient, do not retry
		return nil, false, errors.NewHTTPStatus(sourceName, resp.StatusCode)
	}
}

// pace enforces the per-host delay between consecutive requests. Each
// caller reserves the next send slot under the lock, so concurrent fetches
// to the same host queue up HostDelay apart instead of all waiting out the
// same interval and firing together.
func (f *Fetcher) pace(host string) {
	f.mu.Lock()
	now := time.Now()
	slot := now
	if last, seen := f.lastHit[host]; seen {
		if next := last.Add(f.HostDelay); next.After(slot) {
			slot = next
		}
	}
	f.lastHit[host] = slot
	f.mu.Unlock()

	if wait := slot.Sub(now); wait > 0 {
		f.sleep(wait)
	}
}

// isBlocked reports whether the host is under a recorded rate-limit block
func (f *Fetcher) isBlocked(host string) bool {
	if f.CacheSvc == nil {
		return false
	}
	_, err := f.CacheSvc.Get(blockKey(host))
	return err == nil
}

// block records a rate-limit block for the host so the remaining sources on
// the same host are skipped until the block expires.
func (f *Fetcher) block(host string, d time.Duration) {
	if f.CacheSvc == nil {
		return
	}
	if err := f.CacheSvc.Set(blockKey(host), []byte(strconv.Itoa(int(d.Seconds()))), d); err != nil {
		logger.Warn("failed to record rate-limit block for %s: %v", host, err)
	}
}

func blockKey(host string) string {
	return "block:" + host
}

// parseRetryAfter interprets a Retry-After header given in seconds
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return defaultBlockTime
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		return defaultBlockTime
	}
	return time.Duration(secs) * time.Second
}
