package fetch

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// hostPolicy is the per-host politeness state.
type hostPolicy struct {
	limiter *rate.Limiter // nil when unlimited

	robotsOnce sync.Once
	robots     *robotstxt.RobotsData // nil allows everything
}

func (f *Fetcher) policy(u *url.URL) *hostPolicy {
	f.mu.Lock()
	defer f.mu.Unlock()

	h, ok := f.hosts[u.Host]
	if !ok {
		h = &hostPolicy{}
		if f.cfg.RatePerHost > 0 {
			burst := max(int(f.cfg.RatePerHost), 1)
			h.limiter = rate.NewLimiter(rate.Limit(f.cfg.RatePerHost), burst)
		}
		f.hosts[u.Host] = h
	}
	return h
}

// allowed reports whether robots.txt lets the user agent fetch u. The file
// is fetched once per host; a missing or unreadable one allows everything.
func (f *Fetcher) allowed(ctx context.Context, h *hostPolicy, u *url.URL) bool {
	if !f.cfg.RespectRobots {
		return true
	}
	h.robotsOnce.Do(func() {
		h.robots = f.fetchRobots(ctx, u)
	})
	if h.robots == nil {
		return true
	}
	return h.robots.TestAgent(u.Path, f.cfg.UserAgent)
}

func (f *Fetcher) fetchRobots(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil || resp.StatusCode >= 400 {
		if resp != nil {
			resp.Body.Close()
		}
		return nil
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return robots
}
