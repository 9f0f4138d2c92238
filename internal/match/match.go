// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match verifies that fetched page content plausibly corresponds to
// an expected bibliographic reference. The baseline is lexical: significant
// title words and the author surname checked against the page text. An
// optional AI mode delegates the judgment to a text-understanding model and
// falls back to the baseline on any error.
package match

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fergidotcom/reference-refinement/pkg/types"
)

// Title-word coverage contributes up to 60% of confidence, author-surname
// presence up to 40%. A combined confidence of 0.5 or more counts as a match.
const (
	titleWeight    = 0.6
	authorWeight   = 0.4
	matchThreshold = 0.5
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "into": {}, "over": {}, "under": {}, "about": {},
}

// Matcher scores content/reference correspondence. Safe for concurrent use.
type Matcher struct {
	cfg      types.MatchConfig
	provider Provider
	log      *zap.Logger
}

// NewMatcher builds a matcher. AI mode activates only when cfg.EnableAI is
// set and an API key is configured; otherwise every call uses the lexical
// baseline. A nil logger disables logging.
func NewMatcher(cfg types.MatchConfig, log *zap.Logger) *Matcher {
	cfg.SetDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	m := &Matcher{cfg: cfg, log: log}
	if cfg.EnableAI && cfg.APIKey != "" {
		p, err := NewProvider(cfg)
		if err != nil {
			log.Warn("AI matcher unavailable, using lexical baseline", zap.Error(err))
		} else {
			m.provider = p
		}
	}
	return m
}

// Match checks bodyText against ref. It never returns an error: AI-mode
// failures of any sort degrade silently to the baseline result.
func (m *Matcher) Match(ctx context.Context, bodyText string, ref types.Reference) types.MatchResult {
	if m.provider != nil {
		res, err := m.provider.VerifyMatch(ctx, excerpt(bodyText, m.cfg.ExcerptBytes), ref)
		if err == nil {
			return res
		}
		m.log.Debug("AI match failed, falling back to baseline", zap.Error(err))
	}
	return Baseline(bodyText, ref)
}

// Baseline is the lexical matching algorithm: fraction of significant title
// words present in the body, weighted with author-surname presence.
func Baseline(bodyText string, ref types.Reference) types.MatchResult {
	body := strings.ToLower(bodyText)

	words := significantWords(ref.Title)
	var confidence float64
	var found int
	if len(words) > 0 {
		for _, w := range words {
			if strings.Contains(body, w) {
				found++
			}
		}
		confidence += titleWeight * float64(found) / float64(len(words))
	}

	surname := Surname(ref.Author)
	surnameFound := surname != "" && strings.Contains(body, surname)
	if surnameFound {
		confidence += authorWeight
	}

	return types.MatchResult{
		Matches:    confidence >= matchThreshold,
		Confidence: confidence,
		Explanation: fmt.Sprintf("%d/%d title words found, author surname %s",
			found, len(words), presentWord(surnameFound)),
	}
}

// significantWords tokenizes a title, dropping short words and stop-words.
func significantWords(title string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, ".,:;!?\"'()[]")
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Surname extracts the lowercased family name from an author string in
// "Surname, Initials" or "First Last" form. Multi-author strings yield the
// first author's surname.
func Surname(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return ""
	}
	// "Tversky, A., & Kahneman, D." -> "Tversky"
	if i := strings.IndexAny(author, ",;&"); i >= 0 {
		return strings.ToLower(strings.TrimSpace(author[:i]))
	}
	// "Amos Tversky" -> "Tversky"
	fields := strings.Fields(author)
	return strings.ToLower(fields[len(fields)-1])
}

// excerpt bounds the content sent to the AI provider.
func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func presentWord(present bool) string {
	if present {
		return "present"
	}
	return "absent"
}
