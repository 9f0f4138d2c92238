// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package domains classifies URL hosts into quality tiers and maintains the
// curated paywall and free-access domain sets. Classification is pure string
// work: no network I/O, deterministic, exhaustively testable.
package domains

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fergidotcom/reference-refinement/pkg/types"
)

// Domains known to enforce subscription paywalls (major journal publishers).
var defaultPaywallDomains = []string{
	"jstor.org",
	"sciencedirect.com",
	"springer.com",
	"springerlink.com",
	"wiley.com",
	"tandfonline.com",
	"sagepub.com",
	"cambridge.org",
	"oxfordjournals.org",
	"journals.uchicago.edu",
	"taylorfrancis.com",
	"emerald.com",
	"academic.oup.com",
}

// Domains known to serve free full text (archives, preprint servers,
// open-access aggregators, government and health repositories).
var defaultFreeDomains = []string{
	"archive.org",
	"arxiv.org",
	"biorxiv.org",
	"gutenberg.org",
	"researchgate.net",
	"academia.edu",
	"ssrn.com",
	"plos.org",
	"ncbi.nlm.nih.gov",
	"europepmc.org",
}

// Hosts treated as persistent-identifier resolvers or preservation archives.
var persistentHosts = []string{
	"doi.org",
	"dx.doi.org",
	"hdl.handle.net",
	"archive.org",
	"web.archive.org",
	"perma.cc",
	"jstor.org",
}

// Keywords that mark a host as a publisher even without an .org suffix.
var publisherKeywords = []string{"press", "publisher", "publishing"}

// Hosts (or host fragments) for commercial purchase pages.
var purchaseHosts = []string{"amazon.", "barnesandnoble.com", "abebooks."}

// Classifier maps hosts to tiers and paywall/free membership. The rule sets
// are fixed at construction so tests can substitute fixtures.
type Classifier struct {
	paywall []string
	free    []string
}

// NewClassifier returns a classifier with the curated default domain sets.
func NewClassifier() *Classifier {
	c, err := NewClassifierWithSets(defaultPaywallDomains, defaultFreeDomains)
	if err != nil {
		// The defaults are disjoint by construction; reaching here is a
		// programming error in the tables above.
		panic(err)
	}
	return c
}

// NewClassifierWithSets builds a classifier from explicit paywall and free
// domain sets. The two sets must be disjoint: a domain cannot both enforce a
// paywall and serve free full text.
func NewClassifierWithSets(paywall, free []string) (*Classifier, error) {
	seen := make(map[string]struct{}, len(paywall))
	for _, d := range paywall {
		seen[strings.ToLower(d)] = struct{}{}
	}
	for _, d := range free {
		if _, dup := seen[strings.ToLower(d)]; dup {
			return nil, fmt.Errorf("domain %q appears in both the paywall and free sets", d)
		}
	}
	return &Classifier{
		paywall: append([]string(nil), paywall...),
		free:    append([]string(nil), free...),
	}, nil
}

// Classify maps a URL to its host, quality tier, and paywall/free
// membership. Malformed URLs yield an empty host and the baseline tier
// rather than an error.
func (c *Classifier) Classify(rawURL string) types.DomainInfo {
	host := Host(rawURL)
	info := types.DomainInfo{
		Host: host,
		Tier: classifyTier(host),
	}
	if host == "" {
		return info
	}
	for _, d := range c.paywall {
		if hostMatches(host, d) {
			info.KnownPaywall = true
			return info
		}
	}
	for _, d := range c.free {
		if hostMatches(host, d) {
			info.KnownFree = true
			return info
		}
	}
	return info
}

// Host extracts the lowercased host from a URL, stripping a leading "www.".
// It returns "" for URLs that cannot be parsed or carry no host.
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// classifyTier assigns the quality tier, first match wins.
func classifyTier(host string) types.Tier {
	if host == "" {
		return types.TierOther
	}
	for _, h := range persistentHosts {
		if hostMatches(host, h) {
			return types.TierPersistent
		}
	}
	if strings.HasSuffix(host, ".edu") || strings.HasSuffix(host, ".gov") {
		return types.TierInstitutional
	}
	for _, kw := range publisherKeywords {
		if strings.Contains(host, kw) {
			return types.TierPublisher
		}
	}
	if strings.HasSuffix(host, ".org") {
		return types.TierPublisher
	}
	for _, h := range purchaseHosts {
		if strings.Contains(host, h) {
			return types.TierPurchase
		}
	}
	return types.TierOther
}

// hostMatches reports whether host equals domain or is a subdomain of it.
func hostMatches(host, domain string) bool {
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// ContentKind classifies what sort of resource a URL path points at. Used
// by the static scorer as a score modifier.
type ContentKind string

const (
	ContentDOILink      ContentKind = "doi_link"
	ContentPDF          ContentKind = "pdf"
	ContentArticlePage  ContentKind = "article_page"
	ContentBookPage     ContentKind = "book_page"
	ContentPurchasePage ContentKind = "purchase_page"
	ContentHTMLPage     ContentKind = "html_page"
)

// ClassifyContent inspects the URL string for content-type hints.
func ClassifyContent(rawURL string) ContentKind {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "doi.org"):
		return ContentDOILink
	case strings.HasSuffix(lower, ".pdf") || strings.Contains(lower, "/pdf"):
		return ContentPDF
	case strings.Contains(lower, "/article"):
		return ContentArticlePage
	case strings.Contains(lower, "amazon.") || strings.Contains(lower, "google.com/books"):
		return ContentPurchasePage
	case strings.Contains(lower, "/book"):
		return ContentBookPage
	default:
		return ContentHTMLPage
	}
}
