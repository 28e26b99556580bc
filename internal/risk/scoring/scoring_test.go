package scoring

import (
	"testing"

	"github.com/opencampus/beacon/internal/config"
	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() config.ScoringConfig {
	return config.DefaultScoringConfig()
}

func TestGPAComponentBoundaries(t *testing.T) {
	cases := []struct {
		gpa  float64
		want int
	}{
		{1.9, 40},
		{2.0, 30},
		{2.49, 30},
		{2.5, 15},
		{2.99, 15},
		{3.0, 5},
		{4.0, 5},
	}
	for _, tc := range cases {
		got := bandPoints(tc.gpa, defaults().GPABands)
		assert.Equal(t, tc.want, got, "gpa=%v", tc.gpa)
	}
}

func TestAttendanceComponentBoundaries(t *testing.T) {
	cases := []struct {
		pct  float64
		want int
	}{
		{69, 30},
		{70, 20},
		{79, 20},
		{80, 10},
		{89, 10},
		{90, 5},
		{100, 5},
	}
	for _, tc := range cases {
		got := bandPoints(tc.pct, defaults().AttendanceBands)
		assert.Equal(t, tc.want, got, "attendance=%v", tc.pct)
	}
}

func TestEngagementComponentBoundaries(t *testing.T) {
	cases := []struct {
		logins float64
		want   int
	}{
		{1, 20},
		{2, 10},
		{4, 10},
		{5, 5},
		{12, 5},
	}
	for _, tc := range cases {
		got := bandPoints(tc.logins, defaults().EngagementBands)
		assert.Equal(t, tc.want, got, "logins=%v", tc.logins)
	}
}

func TestFinancialAidComponent(t *testing.T) {
	base := studentdomain.FeatureSnapshot{
		CumulativeGPA:       3.5,
		RecentAttendancePct: 95,
		AvgWeeklyLogins:     6,
	}

	noAid := Score(base, defaults())
	base.HasFinancialAid = true
	withAid := Score(base, defaults())

	assert.Equal(t, 10, noAid.RiskScore-withAid.RiskScore)
}

func TestTierBoundaries(t *testing.T) {
	cfg := defaults()
	assert.Equal(t, riskdomain.TierLow, ClassifyTier(34, cfg))
	assert.Equal(t, riskdomain.TierMedium, ClassifyTier(35, cfg))
	assert.Equal(t, riskdomain.TierMedium, ClassifyTier(59, cfg))
	assert.Equal(t, riskdomain.TierHigh, ClassifyTier(60, cfg))
}

func TestWorkedExampleHighRisk(t *testing.T) {
	// gpa 2.40 -> 30, attendance 72 -> 20, logins 3 -> 10, no aid -> 10.
	snapshot := studentdomain.FeatureSnapshot{
		CumulativeGPA:       2.40,
		RecentAttendancePct: 72,
		AvgWeeklyLogins:     3,
		HasFinancialAid:     false,
	}

	pred := Score(snapshot, defaults())
	assert.Equal(t, 70, pred.RiskScore)
	assert.Equal(t, riskdomain.TierHigh, pred.RiskTier)
	require.Len(t, pred.Interventions, 3)
}

func TestWorkedExampleLowRisk(t *testing.T) {
	snapshot := studentdomain.FeatureSnapshot{
		CumulativeGPA:       3.90,
		RecentAttendancePct: 98,
		AvgWeeklyLogins:     8,
		HasFinancialAid:     true,
	}

	pred := Score(snapshot, defaults())
	assert.Equal(t, 15, pred.RiskScore)
	assert.Equal(t, riskdomain.TierLow, pred.RiskTier)
}

func TestScoreWithinRange(t *testing.T) {
	snapshots := []studentdomain.FeatureSnapshot{
		{},
		{CumulativeGPA: 4, RecentAttendancePct: 100, AvgWeeklyLogins: 50, HasFinancialAid: true, CourseLoad: 8},
		{CumulativeGPA: 1.2, RecentAttendancePct: 40, AvgWeeklyLogins: 0.5},
	}
	for _, snapshot := range snapshots {
		pred := Score(snapshot, defaults())
		assert.GreaterOrEqual(t, pred.RiskScore, 0)
		assert.LessOrEqual(t, pred.RiskScore, 100)
		assert.Equal(t, ClassifyTier(pred.RiskScore, defaults()), pred.RiskTier)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	snapshot := studentdomain.FeatureSnapshot{
		CumulativeGPA:       2.7,
		RecentAttendancePct: 83,
		AvgWeeklyLogins:     4.2,
		HasFinancialAid:     true,
		CourseLoad:          4,
		FirstGeneration:     true,
	}

	first := Score(snapshot, defaults())
	second := Score(snapshot, defaults())
	assert.Equal(t, first, second)
}

func TestWorstCaseClampedToMax(t *testing.T) {
	snapshot := studentdomain.FeatureSnapshot{
		CumulativeGPA:       0.5,
		RecentAttendancePct: 10,
		AvgWeeklyLogins:     0,
		HasFinancialAid:     false,
	}

	pred := Score(snapshot, defaults())
	assert.Equal(t, 100, pred.RiskScore)
	assert.Equal(t, riskdomain.TierHigh, pred.RiskTier)
}
