// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves candidate URL content for validation: redirects
// capped, body reads byte-capped, failures folded into the result rather
// than raised. A failed fetch is a signal for the scorer, never an error
// for the caller.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fergidotcom/reference-refinement/internal/httputil"
	"github.com/fergidotcom/reference-refinement/pkg/types"
)

// Fetcher retrieves URL content with per-host rate limiting. Safe for
// concurrent use.
//
// TLS certificate verification is deliberately skipped: this fetcher
// answers "can a reader get at this page", and failing closed on the
// misconfigured certificates common among small archives produced false
// dead-link verdicts. Do not reuse this client for security-sensitive
// transfers.
type Fetcher struct {
	cfg      types.FetchConfig
	client   *http.Client
	log      *zap.Logger
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewFetcher builds a fetcher from cfg. A nil logger disables logging.
func NewFetcher(cfg types.FetchConfig, log *zap.Logger) *Fetcher {
	cfg.SetDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 4,
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // see type doc
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		},
	}

	return &Fetcher{
		cfg:      cfg,
		client:   client,
		log:      log,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Fetch retrieves rawURL and returns a FetchResult. It never returns an
// error: timeouts, DNS failures, and refused connections are reported in
// the result's Error field with an empty body. HTTP statuses of 400 and
// above are reported via HTTPStatus alone.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) types.FetchResult {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return types.FetchResult{Error: types.FetchErrInvalidURL}
	}

	if err := f.limiter(u.Hostname()).Wait(ctx); err != nil {
		return types.FetchResult{Error: types.FetchErrTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return types.FetchResult{Error: types.FetchErrInvalidURL}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries)
	if err != nil {
		kind := classifyNetError(err)
		f.log.Debug("fetch failed", zap.String("url", rawURL), zap.String("kind", string(kind)), zap.Error(err))
		return types.FetchResult{Error: kind}
	}
	defer resp.Body.Close()

	result := types.FetchResult{
		FinalURL:   resp.Request.URL.String(),
		HTTPStatus: resp.StatusCode,
	}

	// Stream at most MaxBodyBytes; never buffer an unbounded response.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.cfg.MaxBodyBytes)))
	if err != nil && len(body) == 0 {
		result.Error = types.FetchErrReadBody
		return result
	}

	// Decode permissively: invalid sequences are replaced, not fatal.
	result.BodyText = strings.ToValidUTF8(string(body), "�")
	result.PageTitle = PageTitle(result.BodyText)

	f.log.Debug("fetched",
		zap.String("url", rawURL),
		zap.String("final_url", result.FinalURL),
		zap.Int("status", result.HTTPStatus),
		zap.Int("bytes", len(result.BodyText)))

	return result
}

// limiter returns the per-host rate limiter, creating it on first use.
func (f *Fetcher) limiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(f.cfg.PerHostRPS), 1)
		f.limiters[host] = l
	}
	return l
}

// classifyNetError maps transport errors to a FetchErrorKind.
func classifyNetError(err error) types.FetchErrorKind {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return types.FetchErrDNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return types.FetchErrTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return types.FetchErrTimeout
	}
	if strings.Contains(err.Error(), "stopped after") {
		return types.FetchErrTooManyHops
	}
	return types.FetchErrConnection
}

// PageTitle extracts the <title> text from an HTML document, or "" when the
// input is not parseable HTML or has no title.
func PageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// VisibleText strips markup, scripts, and styles from an HTML document and
// returns the remaining text. Non-HTML input comes back roughly as-is,
// which is what the lexical matcher wants.
func VisibleText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
