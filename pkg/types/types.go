// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the value types shared across the validation
// pipeline: bibliographic references, candidate URLs, fetch outcomes,
// barrier findings, verdicts, and ranked selections.
package types

import (
	"fmt"
	"strings"
)

// Reference is the bibliographic identity of a citation. It is supplied by
// the upstream citation workflow and read-only inside the engine.
type Reference struct {
	Author      string `json:"author" yaml:"author"`
	Title       string `json:"title" yaml:"title"`
	Year        int    `json:"year,omitempty" yaml:"year,omitempty"`
	Publication string `json:"publication,omitempty" yaml:"publication,omitempty"`
}

// Citation renders the reference in "Author (Year). Title. Publication."
// form for human-readable output.
func (r Reference) Citation() string {
	var b strings.Builder
	b.WriteString(r.Author)
	if r.Year > 0 {
		fmt.Fprintf(&b, " (%d)", r.Year)
	}
	b.WriteString(". ")
	b.WriteString(r.Title)
	b.WriteString(".")
	if r.Publication != "" {
		b.WriteString(" ")
		b.WriteString(r.Publication)
		b.WriteString(".")
	}
	return b.String()
}

// URLRole distinguishes what a candidate URL is being evaluated as.
type URLRole string

const (
	// RolePrimary marks a candidate for the work itself.
	RolePrimary URLRole = "primary"
	// RoleSecondary marks a candidate for supporting or contextual material.
	RoleSecondary URLRole = "secondary"
)

// Candidate is one URL under evaluation for a reference. Candidates are
// created per ranking request and discarded after scoring.
type Candidate struct {
	URL           string  `json:"url" yaml:"url"`
	DeclaredTitle string  `json:"declared_title,omitempty" yaml:"declared_title,omitempty"`
	Role          URLRole `json:"role,omitempty" yaml:"role,omitempty"`
}

// FetchErrorKind classifies why a fetch produced no usable response.
type FetchErrorKind string

const (
	FetchErrNone        FetchErrorKind = ""
	FetchErrInvalidURL  FetchErrorKind = "invalid_url"
	FetchErrTimeout     FetchErrorKind = "timeout"
	FetchErrDNS         FetchErrorKind = "dns"
	FetchErrConnection  FetchErrorKind = "connection"
	FetchErrTooManyHops FetchErrorKind = "too_many_redirects"
	FetchErrReadBody    FetchErrorKind = "body_read"
)

// FetchResult is the outcome of retrieving a candidate's content.
//
// Invariant: when Error is set the fetch did not complete and BodyText is
// empty; HTTPStatus >= 400 is reported via HTTPStatus alone and never sets
// Error.
type FetchResult struct {
	FinalURL   string         `json:"final_url,omitempty" yaml:"final_url,omitempty"`
	HTTPStatus int            `json:"http_status,omitempty" yaml:"http_status,omitempty"`
	BodyText   string         `json:"-" yaml:"-"`
	PageTitle  string         `json:"page_title,omitempty" yaml:"page_title,omitempty"`
	Error      FetchErrorKind `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the fetch produced no response at all. An HTTP
// error status is not a failed fetch; callers interpret the status.
func (f FetchResult) Failed() bool {
	return f.Error != FetchErrNone
}

// BarrierKind enumerates the access barriers the detector can report,
// ordered by increasing severity of the accessibility verdict.
type BarrierKind int

const (
	BarrierNone BarrierKind = iota
	BarrierLoginRequired
	BarrierPaywall
	BarrierPreviewOnly
	BarrierSoft404
)

func (k BarrierKind) String() string {
	switch k {
	case BarrierNone:
		return "none"
	case BarrierLoginRequired:
		return "login_required"
	case BarrierPaywall:
		return "paywall"
	case BarrierPreviewOnly:
		return "preview_only"
	case BarrierSoft404:
		return "soft_404"
	default:
		return "unknown"
	}
}

// BarrierFinding is the single highest-priority barrier detected in a page,
// with the descriptive name of the rule that matched.
type BarrierFinding struct {
	Kind   BarrierKind `json:"kind" yaml:"kind"`
	Detail string      `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// MatchResult records how plausibly fetched content corresponds to the
// expected reference. Produced only for barrier-free pages.
type MatchResult struct {
	Matches     bool    `json:"matches" yaml:"matches"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
	Explanation string  `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Tier is a domain quality tier, ordered worst to best so tiers compare
// directly as integers.
type Tier int

const (
	// TierOther is the baseline for unrecognized domains.
	TierOther Tier = iota
	// TierPurchase covers commercial storefront and purchase pages.
	TierPurchase
	// TierPublisher covers organizational and publisher domains.
	TierPublisher
	// TierInstitutional covers educational and government domains.
	TierInstitutional
	// TierPersistent covers persistent-identifier resolvers and
	// preservation archives.
	TierPersistent
)

func (t Tier) String() string {
	switch t {
	case TierPersistent:
		return "persistent"
	case TierInstitutional:
		return "institutional"
	case TierPublisher:
		return "publisher"
	case TierPurchase:
		return "purchase"
	default:
		return "other"
	}
}

// DomainInfo is the classifier's static judgment of a URL's host. The
// paywall/free flags are independent of the tier and mutually exclusive.
type DomainInfo struct {
	Host         string `json:"host" yaml:"host"`
	Tier         Tier   `json:"tier" yaml:"tier"`
	KnownPaywall bool   `json:"known_paywall,omitempty" yaml:"known_paywall,omitempty"`
	KnownFree    bool   `json:"known_free,omitempty" yaml:"known_free,omitempty"`
}

// ValidationVerdict is the engine's final output for one candidate.
type ValidationVerdict struct {
	Score           int            `json:"score" yaml:"score"`
	Accessible      bool           `json:"accessible" yaml:"accessible"`
	Barrier         BarrierFinding `json:"barrier" yaml:"barrier"`
	MatchConfidence float64        `json:"match_confidence" yaml:"match_confidence"`
	ContentVerified bool           `json:"content_verified" yaml:"content_verified"`
	Reason          string         `json:"reason" yaml:"reason"`
}

// ScoredCandidate pairs a candidate with its verdict and the static domain
// classification used for tie-breaking.
type ScoredCandidate struct {
	Candidate Candidate         `json:"candidate" yaml:"candidate"`
	Verdict   ValidationVerdict `json:"verdict" yaml:"verdict"`
	Domain    DomainInfo        `json:"domain" yaml:"domain"`
}

// RankedSelection is the per-reference outcome of ranking a candidate set.
// A new selection is produced on every ranking run; it is never mutated in
// place.
type RankedSelection struct {
	Primary          *ScoredCandidate  `json:"primary,omitempty" yaml:"primary,omitempty"`
	Secondary        *ScoredCandidate  `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	All              []ScoredCandidate `json:"all" yaml:"all"`
	NeedsHumanReview bool              `json:"needs_human_review" yaml:"needs_human_review"`
	CanAutoFinalize  bool              `json:"can_auto_finalize" yaml:"can_auto_finalize"`
	ReviewReasons    []string          `json:"review_reasons,omitempty" yaml:"review_reasons,omitempty"`
}
