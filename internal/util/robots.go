// Package util holds small HTTP helpers shared by the fetch path: the
// robots.txt checker and the proxy selector.
package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// defaultAgent is the robots.txt product name used when no user agent is
// configured
const defaultAgent = "veridian"

// RobotsChecker answers whether a narrative URL may be fetched, caching
// one parsed robots.txt per host. An unreachable or unparseable
// robots.txt allows the fetch.
type RobotsChecker struct {
	mu     sync.Mutex
	byHost map[string]*robotstxt.RobotsData
	client *http.Client
	agent  string
}

// NewRobotsChecker creates a checker for the given agent name
func NewRobotsChecker(agent string, timeout time.Duration) *RobotsChecker {
	if agent == "" {
		agent = defaultAgent
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &RobotsChecker{
		byHost: make(map[string]*robotstxt.RobotsData),
		client: &http.Client{Timeout: timeout},
		agent:  agent,
	}
}

// CanFetch reports whether rawURL may be fetched and the host's crawl
// delay for this agent
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	data := r.policyFor(ctx, parsed)
	if data == nil {
		return true, 0, nil
	}

	allowed := data.TestAgent(parsed.Path, r.agent)
	var delay time.Duration
	if group := data.FindGroup(r.agent); group != nil {
		delay = group.CrawlDelay
	}
	return allowed, delay, nil
}

// policyFor returns the cached robots.txt for the URL's host, fetching it
// on first use. nil means no usable policy; callers allow the fetch.
func (r *RobotsChecker) policyFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	r.mu.Lock()
	data, ok := r.byHost[u.Host]
	r.mu.Unlock()
	if ok {
		return data
	}

	data = r.fetchPolicy(ctx, u)
	if data != nil {
		r.mu.Lock()
		r.byHost[u.Host] = data
		r.mu.Unlock()
	}
	return data
}

func (r *RobotsChecker) fetchPolicy(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	// 404 parses to an allow-everything policy
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data
}

// Clear drops all cached policies
func (r *RobotsChecker) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byHost = make(map[string]*robotstxt.RobotsData)
}

// NormalizeUserAgent reduces a full User-Agent header to the product name
// robots.txt groups match against
func NormalizeUserAgent(ua string) string {
	fields := strings.Fields(ua)
	if len(fields) == 0 {
		return ua
	}
	name, _, _ := strings.Cut(fields[0], "/")
	return name
}
