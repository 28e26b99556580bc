package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
)

var (
	ErrInvalidSnapshot = errors.New("invalid_feature_snapshot")
	ErrInvalidTier     = errors.New("invalid_risk_tier")
)

// Tier is the coarse three-level classification of a student's likelihood of
// academic difficulty.
type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

func ParseTier(value string) (Tier, error) {
	switch Tier(value) {
	case TierLow, TierMedium, TierHigh:
		return Tier(value), nil
	default:
		return "", ErrInvalidTier
	}
}

// Prediction is the outcome of one risk computation, before persistence.
type Prediction struct {
	RiskScore     int      `json:"risk_score"`
	RiskTier      Tier     `json:"risk_tier"`
	Interventions []string `json:"interventions"`
}

// Assessment is the current stored risk row for a student. One row per
// student; every new prediction overwrites it.
type Assessment struct {
	StudentID        snowflake.ID  `gorm:"column:student_id;primaryKey" json:"student_id"`
	TermID           *snowflake.ID `gorm:"column:term_id" json:"term_id,omitempty"`
	RiskScore        int           `gorm:"column:risk_score" json:"risk_score"`
	RiskTier         Tier          `gorm:"column:risk_tier;not null" json:"risk_tier"`
	InterventionType string        `gorm:"column:intervention_type" json:"intervention_type"`
	NoteDate         time.Time     `gorm:"column:note_date" json:"note_date"`
	CreatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Assessment) TableName() string { return "risk_scores" }

// ValidateSnapshot rejects feature vectors the assembly step should never
// produce. A failure here is a caller bug, not a prediction error.
func ValidateSnapshot(s studentdomain.FeatureSnapshot) error {
	switch {
	case s.CumulativeGPA < 0 || s.CumulativeGPA > 4.0:
		return ErrInvalidSnapshot
	case s.RecentAttendancePct < 0 || s.RecentAttendancePct > 100:
		return ErrInvalidSnapshot
	case s.AvgWeeklyLogins < 0:
		return ErrInvalidSnapshot
	case s.CourseLoad < 0:
		return ErrInvalidSnapshot
	default:
		return nil
	}
}
