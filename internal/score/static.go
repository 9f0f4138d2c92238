// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"fmt"
	"strings"

	"github.com/fergidotcom/reference-refinement/internal/domains"
	"github.com/fergidotcom/reference-refinement/pkg/types"
)

// Static quality scoring: used when network validation is unavailable or
// disabled. It judges a URL from its domain tier, content-type hints, and
// the declared search-result title alone. It must never override a verdict
// produced from an actual fetch.

// tierScores maps each quality tier to its base score.
var tierScores = map[types.Tier]int{
	types.TierPersistent:    95,
	types.TierInstitutional: 85,
	types.TierPublisher:     80,
	types.TierPurchase:      60,
	types.TierOther:         50,
}

// contentModifiers adjusts the base by what the URL appears to point at.
var contentModifiers = map[domains.ContentKind]int{
	domains.ContentDOILink:      +10,
	domains.ContentPDF:          +5,
	domains.ContentArticlePage:  +5,
	domains.ContentBookPage:     0,
	domains.ContentHTMLPage:     0,
	domains.ContentPurchasePage: -10,
}

// reviewPhrases in a declared title mark commentary about a work rather
// than the work itself; such candidates must not win primary selection.
var reviewPhrases = []string{
	"review of",
	": a review",
	"book review",
	"analysis of",
	"critique of",
	"commentary on",
	"discussion of",
	"response to",
	"essay on",
	"thoughts on",
}

const (
	reviewPenalty       = 40
	noOverlapPenalty    = 20
	weakOverlapPenalty  = 10
	knownPaywallPenalty = 10
)

// StaticScore is the offline quality judgment for one candidate URL.
type StaticScore struct {
	Score  int
	Domain types.DomainInfo
	Reason string
}

// Static scores a candidate without any network access. The declared title
// (search-result title or snippet) feeds the review-phrase and title-overlap
// penalties; pass "" when unavailable.
func Static(c *domains.Classifier, rawURL, declaredTitle string, ref types.Reference) StaticScore {
	info := c.Classify(rawURL)
	kind := domains.ClassifyContent(rawURL)

	base := tierScores[info.Tier]
	mod := contentModifiers[kind]
	total := base + mod

	parts := []string{fmt.Sprintf("domain %s (%s, base %d)", info.Host, info.Tier, base)}
	if mod != 0 {
		parts = append(parts, fmt.Sprintf("content %s (%+d)", kind, mod))
	}

	if p := TitlePenalty(declaredTitle, ref); p > 0 {
		total -= p
		parts = append(parts, fmt.Sprintf("declared title penalty (-%d)", p))
	}
	if info.KnownPaywall {
		total -= knownPaywallPenalty
		parts = append(parts, fmt.Sprintf("known paywall domain (-%d)", knownPaywallPenalty))
	}

	total = max(0, min(scoreMax, total))

	return StaticScore{
		Score:  total,
		Domain: info,
		Reason: strings.Join(parts, "; "),
	}
}

// TitlePenalty inspects a declared search-result title for signs that the
// candidate is commentary about the work (review, critique, analysis) or
// simply a different work. Returns 0 for an empty declared title.
func TitlePenalty(declaredTitle string, ref types.Reference) int {
	if declaredTitle == "" {
		return 0
	}
	lower := strings.ToLower(declaredTitle)

	for _, phrase := range reviewPhrases {
		if strings.Contains(lower, phrase) {
			return reviewPenalty
		}
	}

	words := significantTitleWords(ref.Title)
	if len(words) == 0 {
		return 0
	}
	found := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			found++
		}
	}
	switch {
	case found == 0:
		return noOverlapPenalty
	case found*2 < len(words):
		return weakOverlapPenalty
	default:
		return 0
	}
}

// significantTitleWords mirrors the matcher's tokenization so the static
// and network paths judge titles the same way.
func significantTitleWords(title string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, ".,:;!?\"'()[]")
		if len(w) > 3 && w != "the" && w != "and" && w != "for" && w != "with" {
			out = append(out, w)
		}
	}
	return out
}
