package krepsinis

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/schedule-odds/internal/platform/logging"
	"github.com/riskibarqy/schedule-odds/internal/platform/metrics"
	"github.com/riskibarqy/schedule-odds/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultUserAgent      = "Mozilla/5.0"
	defaultAttemptTimeout = 15 * time.Second
	maxPageBytes          = 8 << 20
)

var errRelayStatus = crerr.New("relay returned non-2xx status")

// FetchExhaustedError is returned when every relay failed for one page.
type FetchExhaustedError struct {
	URL      string
	Page     int
	Attempts []error
}

func (e *FetchExhaustedError) Error() string {
	return fmt.Sprintf("all relays failed for page %d (%s)", e.Page, e.URL)
}

func (e *FetchExhaustedError) Unwrap() []error {
	out := make([]error, 0, len(e.Attempts)+1)
	out = append(out, usecase.ErrDependencyUnavailable)
	return append(out, e.Attempts...)
}

// IsFetchExhausted reports whether err carries a FetchExhaustedError.
func IsFetchExhausted(err error) bool {
	var target *FetchExhaustedError
	return stderrors.As(err, &target)
}

type FetcherConfig struct {
	HTTPClient     *http.Client
	Relays         []Relay
	UserAgent      string
	AttemptTimeout time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Registry
}

// Fetcher downloads pages through an ordered list of relays. Relays are tried
// one at a time and the first 2xx response wins. There are no retries.
type Fetcher struct {
	httpClient     *http.Client
	relays         []Relay
	userAgent      string
	attemptTimeout time.Duration
	logger         *logging.Logger
	metrics        *metrics.Registry
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.AttemptTimeout
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}

	return &Fetcher{
		httpClient:     httpClient,
		relays:         cfg.Relays,
		userAgent:      userAgent,
		attemptTimeout: timeout,
		logger:         logger,
		metrics:        cfg.Metrics,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, target string, page int) ([]byte, error) {
	attempts := make([]error, 0, len(f.relays))
	for _, relay := range f.relays {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := f.attempt(ctx, relay.URL(target))
		if err == nil {
			f.metrics.RelayAttempt(relay.Host(), "ok")
			f.logger.DebugContext(ctx, "schedule page fetched", "page", page, "relay", relay.Host(), "bytes", len(body))
			return body, nil
		}

		f.metrics.RelayAttempt(relay.Host(), "failed")
		f.logger.WarnContext(ctx, "relay failed", "page", page, "relay", relay.Host(), "error", err)
		attempts = append(attempts, crerr.Wrapf(err, "relay %s", relay.Host()))
	}

	return nil, &FetchExhaustedError{URL: target, Page: page, Attempts: attempts}
}

func (f *Fetcher) attempt(ctx context.Context, fullURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, crerr.Wrapf(errRelayStatus, "status=%d", resp.StatusCode)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxPageBytes)); err != nil {
		return nil, crerr.Wrap(err, "read response body")
	}

	return append([]byte(nil), buf.B...), nil
}
