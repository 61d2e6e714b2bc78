// Package fetch retrieves ranking pages and extracts their paragraph and
// heading text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/seoscope/internal/logging"
	"github.com/cognicore/seoscope/internal/metrics"
	"github.com/cognicore/seoscope/pkg/seoscope/ingest"
)

const (
	// DefaultUserAgent is a desktop browser string; many sites refuse
	// obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	// DefaultTimeout bounds one page request.
	DefaultTimeout = 10 * time.Second
	// DefaultConcurrency bounds parallel page requests in FetchAll.
	DefaultConcurrency = 4

	maxBodyBytes = 4 << 20
)

var (
	// ErrStatus reports an HTTP error status.
	ErrStatus = errors.New("unexpected HTTP status")
	// ErrDisallowed reports a URL excluded by robots.txt.
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

// Config controls request behaviour.
type Config struct {
	UserAgent   string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
	// RatePerHost limits requests per second to one host; 0 is unlimited.
	RatePerHost   float64 `mapstructure:"rate_per_host" yaml:"rate_per_host"`
	RespectRobots bool    `mapstructure:"respect_robots" yaml:"respect_robots"`
}

// Fetcher downloads pages. Safe for concurrent use.
type Fetcher struct {
	cfg    Config
	client *http.Client
	log    logging.Logger

	mu    sync.Mutex
	hosts map[string]*hostPolicy
}

// New creates a Fetcher. A nil client gets one with cfg.Timeout.
func New(cfg Config, client *http.Client, log logging.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Fetcher{
		cfg:    cfg,
		client: client,
		log:    log,
		hosts:  make(map[string]*hostPolicy),
	}
}

// Fetch downloads rawURL and extracts its text. The returned page always
// carries the URL, even on error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (ingest.Page, error) {
	page := ingest.Page{URL: rawURL, Headings: []string{}}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return page, fmt.Errorf("invalid URL %q", rawURL)
	}

	h := f.policy(u)
	if !f.allowed(ctx, h, u) {
		return page, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
	}
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return page, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return page, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept-Language", "ja,en;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return page, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return page, fmt.Errorf("%s: %w: %d", rawURL, ErrStatus, resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return page, fmt.Errorf("%s: decode: %w", rawURL, err)
	}
	text, headings, err := Extract(body)
	if err != nil {
		return page, fmt.Errorf("%s: parse: %w", rawURL, err)
	}
	page.BodyText = text
	page.Headings = headings
	return page, nil
}

// FetchAll fetches urls with bounded concurrency and returns one page per
// URL, in input order. A page that cannot be fetched comes back with empty
// body text and no headings; the failure is logged, not returned. The error
// is non-nil only when ctx ends first.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) ([]ingest.Page, error) {
	pages := make([]ingest.Page, len(urls))

	var g errgroup.Group
	g.SetLimit(f.cfg.Concurrency)
	for i, u := range urls {
		g.Go(func() error {
			page, err := f.Fetch(ctx, u)
			if err != nil {
				outcome := metrics.FetchError
				if errors.Is(err, ErrStatus) {
					outcome = metrics.FetchHTTP
				}
				metrics.PagesFetched.WithLabelValues(outcome).Inc()
				f.log.Warn("page fetch failed", logging.String("url", u), logging.Error(err))
				page = ingest.Page{URL: u, Headings: []string{}}
			} else {
				metrics.PagesFetched.WithLabelValues(metrics.FetchOK).Inc()
				f.log.Debug("page fetched",
					logging.String("url", u),
					logging.Int("headings", len(page.Headings)))
			}
			pages[i] = page
			return nil
		})
	}
	_ = g.Wait()

	return pages, ctx.Err()
}
