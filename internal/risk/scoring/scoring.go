// Package scoring implements the deterministic rule-based risk strategy. It
// is always available and serves as the fallback whenever the model strategy
// cannot produce a usable prediction.
package scoring

import (
	"github.com/opencampus/beacon/internal/config"
	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
)

const maxScore = 100

// Score computes a weighted additive risk score from the snapshot. Each
// component is banded independently, then the components are summed and
// clamped to 100. The default bands sum to exactly 100 at their maxima, so
// the clamp is a safety bound.
func Score(snapshot studentdomain.FeatureSnapshot, cfg config.ScoringConfig) riskdomain.Prediction {
	score := bandPoints(snapshot.CumulativeGPA, cfg.GPABands)
	score += bandPoints(snapshot.RecentAttendancePct, cfg.AttendanceBands)
	score += bandPoints(snapshot.AvgWeeklyLogins, cfg.EngagementBands)
	if !snapshot.HasFinancialAid {
		score += cfg.NoAidPoints
	}

	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}

	interventions := cfg.Interventions
	if len(interventions) > 3 {
		interventions = interventions[:3]
	}

	return riskdomain.Prediction{
		RiskScore:     score,
		RiskTier:      ClassifyTier(score, cfg),
		Interventions: append([]string(nil), interventions...),
	}
}

// ClassifyTier maps a score onto the fixed tier thresholds. It is the single
// place a score is classified so tiers stay consistent with scores.
func ClassifyTier(score int, cfg config.ScoringConfig) riskdomain.Tier {
	switch {
	case score >= cfg.HighThreshold:
		return riskdomain.TierHigh
	case score >= cfg.MediumThreshold:
		return riskdomain.TierMedium
	default:
		return riskdomain.TierLow
	}
}

func bandPoints(value float64, bands []config.ScoringBand) int {
	for _, band := range bands {
		if band.Below == nil || value < *band.Below {
			return band.Points
		}
	}
	return 0
}
