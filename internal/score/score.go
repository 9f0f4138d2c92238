// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score fuses the validation signals — fetch outcome, barrier
// finding, content-match confidence — into a single 0-100 verdict. Scoring
// is a pure function: identical inputs always produce identical verdicts.
package score

import (
	"fmt"
	"math"

	"github.com/fergidotcom/reference-refinement/pkg/types"
)

// Score bands. The bands are fixed so that accessible content always
// outranks any barrier condition and a dead page always scores lowest.
const (
	scoreFetchFailed = 0
	scoreSoft404     = 0
	scorePreviewOnly = 40
	scorePaywall     = 50
	scoreLoginWall   = 60
	scoreAccessible  = 90
	scoreMax         = 100

	// verifiedThreshold is the match confidence needed to count content
	// as verified and earn the bonus above the accessible base.
	verifiedThreshold = 0.7
)

// Score produces the verdict for one candidate from its validation signals.
// matchResult may be nil when no content match was attempted (barrier
// present, or matching disabled). The domain info is carried through for
// the ranker's tie-breaking; it never overrides a detected barrier.
func Score(fr types.FetchResult, barrier types.BarrierFinding, matchResult *types.MatchResult) types.ValidationVerdict {
	if fr.Failed() {
		return types.ValidationVerdict{
			Score:      scoreFetchFailed,
			Accessible: false,
			Barrier:    types.BarrierFinding{Kind: types.BarrierNone},
			Reason:     fmt.Sprintf("Connection failed: %s", fr.Error),
		}
	}

	if fr.HTTPStatus >= 400 {
		finding := types.BarrierFinding{Kind: types.BarrierNone}
		if fr.HTTPStatus == 404 {
			finding = types.BarrierFinding{Kind: types.BarrierSoft404, Detail: "HTTP 404"}
		}
		return types.ValidationVerdict{
			Score:      scoreFetchFailed,
			Accessible: false,
			Barrier:    finding,
			Reason:     fmt.Sprintf("HTTP %d error", fr.HTTPStatus),
		}
	}

	switch barrier.Kind {
	case types.BarrierSoft404:
		return barrierVerdict(scoreSoft404, barrier)
	case types.BarrierPreviewOnly:
		return barrierVerdict(scorePreviewOnly, barrier)
	case types.BarrierPaywall:
		return barrierVerdict(scorePaywall, barrier)
	case types.BarrierLoginRequired:
		return barrierVerdict(scoreLoginWall, barrier)
	}

	// No barrier: accessible. Content-match confidence above the verified
	// threshold earns up to 10 bonus points, scaled by confidence.
	v := types.ValidationVerdict{
		Score:      scoreAccessible,
		Accessible: true,
		Barrier:    barrier,
		Reason:     "Accessible content",
	}
	if matchResult != nil {
		v.MatchConfidence = matchResult.Confidence
		if matchResult.Matches && matchResult.Confidence >= verifiedThreshold {
			v.Score = min(scoreMax, scoreAccessible+int(math.Round(10*matchResult.Confidence)))
			v.ContentVerified = true
			v.Reason = fmt.Sprintf("Accessible content with high-confidence match (%.0f%%)", matchResult.Confidence*100)
		} else {
			v.Reason = fmt.Sprintf("Accessible content, match unverified (confidence %.2f)", matchResult.Confidence)
		}
	}
	return v
}

func barrierVerdict(score int, finding types.BarrierFinding) types.ValidationVerdict {
	return types.ValidationVerdict{
		Score:      score,
		Accessible: false,
		Barrier:    finding,
		Reason:     finding.Detail,
	}
}
