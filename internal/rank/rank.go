// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank validates a reference's candidate URLs and selects the best
// primary and secondary links. Candidates are validated concurrently in
// small batches, sorted deterministically, and run through the selection
// rules. Ranking never mutates its inputs and produces a fresh selection on
// every run.
package rank

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/fergidotcom/reference-refinement/internal/barrier"
	"github.com/fergidotcom/reference-refinement/internal/domains"
	"github.com/fergidotcom/reference-refinement/internal/fetch"
	"github.com/fergidotcom/reference-refinement/internal/score"
	"github.com/fergidotcom/reference-refinement/pkg/types"
)

// Fetcher retrieves a candidate URL's content.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) types.FetchResult
}

// Matcher judges how plausibly page text corresponds to a reference.
type Matcher interface {
	Match(ctx context.Context, bodyText string, ref types.Reference) types.MatchResult
}

// VerdictCache stores validation verdicts keyed by URL so repeated ranking
// runs skip redundant network work.
type VerdictCache interface {
	Get(url string) (types.ValidationVerdict, bool)
	Put(url string, v types.ValidationVerdict) error
}

// Ranker orchestrates validation and selection for one reference at a time.
// Safe for concurrent use once constructed.
type Ranker struct {
	cfg        types.RankConfig
	fetcher    Fetcher
	matcher    Matcher
	detector   *barrier.Detector
	classifier *domains.Classifier
	cache      VerdictCache
	log        *zap.Logger
}

// NewRanker builds a ranker. A nil fetcher, or cfg.NetworkValidation off,
// puts the ranker in static mode: candidates are judged from their URL and
// declared title alone. A nil logger disables logging.
func NewRanker(cfg types.RankConfig, fetcher Fetcher, matcher Matcher, classifier *domains.Classifier, log *zap.Logger) *Ranker {
	cfg.SetDefaults()
	if classifier == nil {
		classifier = domains.NewClassifier()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ranker{
		cfg:        cfg,
		fetcher:    fetcher,
		matcher:    matcher,
		detector:   barrier.NewDetector(),
		classifier: classifier,
		log:        log,
	}
}

// SetCache installs a verdict cache. Only verdicts from completed fetches
// are cached; transient network failures are always retried.
func (r *Ranker) SetCache(c VerdictCache) { r.cache = c }

// Rank validates the candidates and applies the selection rules. An empty
// candidate list is not an error: it yields a selection flagged for human
// review.
func (r *Ranker) Rank(ctx context.Context, ref types.Reference, candidates []types.Candidate) types.RankedSelection {
	if len(candidates) == 0 {
		return types.RankedSelection{
			NeedsHumanReview: true,
			ReviewReasons:    []string{"no candidates provided"},
		}
	}

	deduped := dedupe(candidates)
	if n := len(candidates) - len(deduped); n > 0 {
		r.log.Debug("collapsed duplicate candidate URLs",
			zap.Int("duplicates", n), zap.String("reference", ref.Title))
	}

	scored, penalties := r.validateAll(ctx, ref, deduped)
	sortCandidates(scored)

	sel := r.selectFrom(scored)
	r.flagPenaltyDemotion(scored, penalties, &sel)

	return sel
}

// dedupe drops repeated URLs, keeping the first occurrence.
func dedupe(candidates []types.Candidate) []types.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.URL]; dup {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	return out
}

// validateAll scores every candidate, running each batch concurrently. The
// returned penalties slice records the declared-title penalty already
// subtracted from each candidate's score, parallel to scored.
func (r *Ranker) validateAll(ctx context.Context, ref types.Reference, candidates []types.Candidate) ([]types.ScoredCandidate, map[string]int) {
	scored := make([]types.ScoredCandidate, len(candidates))
	penalties := make(map[string]int, len(candidates))
	var mu sync.Mutex

	batch := r.cfg.BatchSize
	for start := 0; start < len(candidates); start += batch {
		end := min(start+batch, len(candidates))
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sc, penalty := r.validate(ctx, ref, candidates[i])
				scored[i] = sc
				if penalty > 0 {
					mu.Lock()
					penalties[sc.Candidate.URL] = penalty
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
	}
	return scored, penalties
}

// validate produces the verdict for one candidate, plus the declared-title
// penalty applied to it.
func (r *Ranker) validate(ctx context.Context, ref types.Reference, cand types.Candidate) (types.ScoredCandidate, int) {
	info := r.classifier.Classify(cand.URL)

	if r.fetcher == nil || !r.cfg.NetworkValidation {
		ss := score.Static(r.classifier, cand.URL, cand.DeclaredTitle, ref)
		return types.ScoredCandidate{
			Candidate: cand,
			Verdict: types.ValidationVerdict{
				Score:      ss.Score,
				Accessible: !ss.Domain.KnownPaywall,
				Reason:     "static: " + ss.Reason,
			},
			Domain: ss.Domain,
		}, 0
	}

	verdict, cached := r.cachedVerdict(cand.URL)
	if !cached {
		verdict = r.networkVerdict(ctx, ref, cand.URL)
		r.storeVerdict(cand.URL, verdict)
	}

	penalty := score.TitlePenalty(cand.DeclaredTitle, ref)
	if penalty > 0 {
		verdict.Score = max(0, verdict.Score-penalty)
		verdict.Reason = fmt.Sprintf("%s; declared title penalty (-%d)", verdict.Reason, penalty)
	}

	return types.ScoredCandidate{Candidate: cand, Verdict: verdict, Domain: info}, penalty
}

// networkVerdict runs the fetch, barrier detection, and content match for
// one URL and fuses them into a verdict.
func (r *Ranker) networkVerdict(ctx context.Context, ref types.Reference, rawURL string) types.ValidationVerdict {
	fr := r.fetcher.Fetch(ctx, rawURL)

	finding := types.BarrierFinding{Kind: types.BarrierNone}
	var mres *types.MatchResult
	if !fr.Failed() && fr.HTTPStatus < 400 {
		// Barrier rules inspect raw markup; the matcher wants prose.
		finding = r.detector.Detect(fr.PageTitle + "\n" + fr.BodyText)
		if finding.Kind == types.BarrierNone && r.matcher != nil {
			m := r.matcher.Match(ctx, fetch.VisibleText(fr.BodyText), ref)
			mres = &m
		}
	}
	return score.Score(fr, finding, mres)
}

func (r *Ranker) cachedVerdict(url string) (types.ValidationVerdict, bool) {
	if r.cache == nil {
		return types.ValidationVerdict{}, false
	}
	return r.cache.Get(url)
}

func (r *Ranker) storeVerdict(url string, v types.ValidationVerdict) {
	if r.cache == nil {
		return
	}
	// Fetch failures are transient; caching them would pin a dead verdict.
	if v.Score == 0 && v.Barrier.Kind == types.BarrierNone {
		return
	}
	if err := r.cache.Put(url, v); err != nil {
		r.log.Warn("verdict cache write failed", zap.String("url", url), zap.Error(err))
	}
}

// sortCandidates orders best first: score, then domain tier, then URL for a
// stable total order.
func sortCandidates(scored []types.ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Verdict.Score != b.Verdict.Score {
			return a.Verdict.Score > b.Verdict.Score
		}
		if a.Domain.Tier != b.Domain.Tier {
			return a.Domain.Tier > b.Domain.Tier
		}
		return a.Candidate.URL < b.Candidate.URL
	})
}

// selectFrom applies the selection rules to an already-sorted candidate
// list.
func (r *Ranker) selectFrom(scored []types.ScoredCandidate) types.RankedSelection {
	sel := types.RankedSelection{All: scored}

	for i := range scored {
		sc := &scored[i]
		if sc.Verdict.Accessible && sc.Verdict.Score >= r.cfg.PrimaryThreshold {
			sel.Primary = sc
			break
		}
	}
	if sel.Primary == nil {
		sel.NeedsHumanReview = true
		sel.ReviewReasons = append(sel.ReviewReasons,
			fmt.Sprintf("no accessible candidate meets the primary threshold (%d)", r.cfg.PrimaryThreshold))
	}

	r.selectSecondary(scored, &sel)
	r.flagAmbiguity(scored, &sel)

	sel.CanAutoFinalize = !sel.NeedsHumanReview &&
		sel.Primary != nil && sel.Secondary != nil &&
		sel.Primary.Verdict.Score >= r.cfg.AutoFinalizeThreshold &&
		sel.Secondary.Verdict.Score >= r.cfg.AutoFinalizeThreshold

	return sel
}

// selectSecondary picks the supporting link. Candidates on a different host
// than the primary are preferred; failing that, any qualifying candidate;
// failing that, a login-walled candidate above the relaxed threshold is
// accepted but flagged for review.
func (r *Ranker) selectSecondary(scored []types.ScoredCandidate, sel *types.RankedSelection) {
	primaryHost := ""
	if sel.Primary != nil {
		primaryHost = sel.Primary.Domain.Host
	}

	eligible := func(sc *types.ScoredCandidate) bool {
		return sel.Primary == nil || sc != sel.Primary
	}

	for _, differentHost := range []bool{true, false} {
		for i := range scored {
			sc := &scored[i]
			if !eligible(sc) || sc.Verdict.Score < r.cfg.SecondaryThreshold || !sc.Verdict.Accessible {
				continue
			}
			if differentHost && sc.Domain.Host == primaryHost {
				continue
			}
			sel.Secondary = sc
			return
		}
	}

	// Relaxed pass: a login wall still lets a determined reader through,
	// which beats having no supporting link at all.
	for i := range scored {
		sc := &scored[i]
		if !eligible(sc) {
			continue
		}
		if sc.Verdict.Barrier.Kind == types.BarrierLoginRequired && sc.Verdict.Score >= r.cfg.RelaxedSecondaryThreshold {
			sel.Secondary = sc
			sel.NeedsHumanReview = true
			sel.ReviewReasons = append(sel.ReviewReasons, "secondary link requires a login")
			return
		}
	}
}

// flagAmbiguity marks the selection for review when a candidate that was
// not selected still scores above the ambiguity threshold: a third strong
// option means the automatic choice may not be the right one.
func (r *Ranker) flagAmbiguity(scored []types.ScoredCandidate, sel *types.RankedSelection) {
	for i := range scored {
		sc := &scored[i]
		if sc == sel.Primary || sc == sel.Secondary {
			continue
		}
		if sc.Verdict.Score >= r.cfg.AmbiguityThreshold {
			sel.NeedsHumanReview = true
			sel.ReviewReasons = append(sel.ReviewReasons,
				fmt.Sprintf("unselected candidate %s scores %d, above the ambiguity threshold", sc.Candidate.URL, sc.Verdict.Score))
			return
		}
	}
}

// flagPenaltyDemotion reports when the top-ranked candidate only holds that
// position because another candidate was demoted by a declared-title
// penalty. The demoted page may still be the right one; a human decides.
func (r *Ranker) flagPenaltyDemotion(scored []types.ScoredCandidate, penalties map[string]int, sel *types.RankedSelection) {
	if len(penalties) == 0 || len(scored) < 2 {
		return
	}

	undone := make([]types.ScoredCandidate, len(scored))
	copy(undone, scored)
	for i := range undone {
		if p := penalties[undone[i].Candidate.URL]; p > 0 {
			undone[i].Verdict.Score += p
		}
	}
	sortCandidates(undone)

	if undone[0].Candidate.URL != scored[0].Candidate.URL {
		sel.NeedsHumanReview = true
		sel.CanAutoFinalize = false
		sel.ReviewReasons = append(sel.ReviewReasons,
			fmt.Sprintf("candidate %s was demoted below the top position by a declared-title penalty", undone[0].Candidate.URL))
	}
}
