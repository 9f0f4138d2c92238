// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package barrier inspects fetched page text for access barriers: soft-404
// pages, paywalls, login walls, and preview-only views. Detection is pure
// pattern matching over the input text, with the rule set held as explicit
// data so it stays testable and extensible.
package barrier

import (
	"fmt"
	"regexp"

	"github.com/fergidotcom/reference-refinement/pkg/types"
)

// rule pairs a compiled pattern with the descriptive name reported when it
// matches.
type rule struct {
	re   *regexp.Regexp
	name string
}

// family is one ordered group of rules mapping to a single barrier kind.
type family struct {
	kind  types.BarrierKind
	label string
	rules []rule
}

func r(pattern, name string) rule {
	return rule{re: regexp.MustCompile(`(?i)` + pattern), name: name}
}

// Families are evaluated in declaration order: a dead page must never be
// reported as merely paywalled, so soft-404 always wins.
func defaultFamilies() []family {
	return []family{
		{
			kind:  types.BarrierSoft404,
			label: "Soft 404 detected",
			rules: []rule{
				r(`404.*not\s*found|not\s*found.*404`, "404 not found"),
				r(`page\s*not\s*found|cannot\s*find.*page`, "page not found"),
				r(`sorry.*couldn'?t\s*find|we\s*couldn'?t\s*locate`, "apology for not found"),
				r(`oops.*nothing\s*here|there'?s\s*nothing\s*here`, "nothing here"),
				r(`doi\s*not\s*found|doi.*not\s*available`, "DOI not found"),
				r(`document\s*not\s*found|article\s*not\s*available`, "document unavailable"),
				r(`item\s*not\s*found|handle\s*not\s*found`, "item/handle not found"),
				r(`<title>[^<]*(404|not\s*found|error)[^<]*</title>`, "error in title"),
			},
		},
		{
			kind:  types.BarrierPaywall,
			label: "Paywall detected",
			rules: []rule{
				r(`subscribe.*continue|subscription.*required`, "subscription required"),
				r(`\$\d+(\.\d{2})?\s*(to\s*)?(access|view|read|download)`, "price to access"),
				r(`purchase.*access|buy.*article|pay.*view`, "purchase required"),
				r(`paywall|payment.*required`, "paywall detected"),
				r(`login.*subscribe|sign\s*in.*subscribe`, "login to subscribe"),
				r(`member(s)?\s*only|members?\s*exclusive`, "members only"),
				r(`become\s*a\s*(member|subscriber)`, "subscription prompt"),
				r(`free\s*trial.*then\s*\$`, "trial then paid"),
				r(`upgrade\s*to\s*(premium|pro|plus)`, "upgrade required"),
				r(`limited\s*access.*subscribe`, "limited without subscription"),
				r(`full\s*text.*\$|complete\s*article.*\$`, "paid full text"),
				r(`price.*download|cost.*access`, "paid download"),
			},
		},
		{
			kind:  types.BarrierLoginRequired,
			label: "Login required",
			rules: []rule{
				r(`sign\s*in.*continue|log\s*in.*continue`, "login to continue"),
				r(`authentication.*required|login.*required`, "authentication required"),
				r(`institutional.*access|institution.*login`, "institutional access"),
				r(`access.*through.*library`, "library access"),
				r(`credentials.*required|authorized.*users?\s*only`, "credentials required"),
				r(`please\s*(log\s*in|sign\s*in)`, "login prompt"),
				r(`restricted.*access|access.*restricted`, "restricted access"),
				r(`account.*required|create.*account`, "account required"),
				r(`university.*access|academic.*access`, "academic access"),
				r(`licensed.*content|license.*required`, "licensed content"),
			},
		},
		{
			kind:  types.BarrierPreviewOnly,
			label: "Preview only",
			rules: []rule{
				r(`limited\s*preview|preview\s*only`, "limited preview"),
				r(`first\s*\d+\s*pages?|sample\s*pages?`, "sample pages"),
				r(`excerpt|selected\s*pages?`, "excerpt only"),
				r(`table\s*of\s*contents\s*only`, "TOC only"),
				r(`abstract\s*only|summary\s*only`, "abstract only"),
				r(`partial\s*view|incomplete\s*view`, "partial view"),
				r(`preview\s*unavailable|full\s*view\s*not\s*available`, "no full view"),
				r(`\d+%?\s*visible|\d+\s*of\s*\d+\s*pages`, "percentage visible"),
				r(`sample\s*content|limited\s*content`, "sample content"),
			},
		},
	}
}

// Detector holds an ordered set of barrier rule families. The families are
// fixed at construction; a Detector is safe for concurrent use.
type Detector struct {
	families []family
}

// NewDetector returns a detector with the curated default rule families.
func NewDetector() *Detector {
	return &Detector{families: defaultFamilies()}
}

// Detect scans body text and returns the highest-priority barrier finding.
// A page may exhibit several barrier types in its markup; only the first
// matching family is reported since it determines the dominant verdict.
// Empty input and barrier-free content both return a BarrierNone finding.
func (d *Detector) Detect(body string) types.BarrierFinding {
	for _, fam := range d.families {
		for _, ru := range fam.rules {
			if ru.re.MatchString(body) {
				return types.BarrierFinding{
					Kind:   fam.kind,
					Detail: fmt.Sprintf("%s: %s", fam.label, ru.name),
				}
			}
		}
	}
	return types.BarrierFinding{Kind: types.BarrierNone, Detail: "Accessible content"}
}
