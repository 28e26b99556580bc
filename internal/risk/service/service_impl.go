package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opencampus/beacon/internal/clock"
	"github.com/opencampus/beacon/internal/config"
	"github.com/opencampus/beacon/internal/observability/metrics"
	"github.com/opencampus/beacon/internal/providers/ai"
	"github.com/opencampus/beacon/internal/risk/domain"
	"github.com/opencampus/beacon/internal/risk/scoring"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	Students studentdomain.Service
	Provider ai.Provider
	Scoring  *config.ScoringConfigHolder
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	students studentdomain.Service
	provider ai.Provider
	scoring  *config.ScoringConfigHolder
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("risk.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		students: p.Students,
		provider: p.Provider,
		scoring:  p.Scoring,
		metrics:  p.Metrics,
	}
}

func (s *Service) Predict(ctx context.Context, req domain.PredictRequest) (domain.Prediction, error) {
	snapshot, err := s.students.FeatureSnapshot(ctx, req.StudentID)
	if err != nil {
		return domain.Prediction{}, err
	}
	if err := domain.ValidateSnapshot(snapshot); err != nil {
		return domain.Prediction{}, err
	}

	prediction, strategy := s.computePrediction(ctx, snapshot)
	s.metrics.RecordPrediction(strategy, string(prediction.RiskTier))

	// Best-effort persistence: the caller still gets the prediction when
	// the upsert fails. Kept from the source behavior.
	if err := s.store(ctx, req.StudentID, prediction); err != nil {
		s.log.Warn("risk assessment upsert failed",
			zap.String("student_id", req.StudentID),
			zap.Error(err),
		)
	}

	s.log.Info("risk prediction computed",
		zap.String("student_id", req.StudentID),
		zap.String("strategy", strategy),
		zap.Int("risk_score", prediction.RiskScore),
		zap.String("risk_tier", string(prediction.RiskTier)),
	)

	return prediction, nil
}

// computePrediction tries the model strategy first and falls back to the
// rule-based scorer on any provider failure. The model's own score and tier
// are authoritative when it succeeds.
func (s *Service) computePrediction(ctx context.Context, snapshot studentdomain.FeatureSnapshot) (domain.Prediction, string) {
	prediction, err := s.provider.PredictRisk(ctx, snapshot)
	if err == nil {
		return prediction, "model"
	}

	s.log.Debug("model strategy unavailable, using rule-based scorer", zap.Error(err))
	return scoring.Score(snapshot, s.scoring.Get()), "rules"
}

func (s *Service) store(ctx context.Context, studentID string, prediction domain.Prediction) error {
	id, err := snowflake.ParseString(strings.TrimSpace(studentID))
	if err != nil {
		return err
	}

	now := s.clock.Now()
	return s.repo.Upsert(ctx, s.db, &domain.Assessment{
		StudentID:        id,
		RiskScore:        prediction.RiskScore,
		RiskTier:         prediction.RiskTier,
		InterventionType: strings.Join(prediction.Interventions, "; "),
		NoteDate:         now.Truncate(24 * time.Hour),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
}

func (s *Service) GetAssessment(ctx context.Context, studentID string) (domain.Assessment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(studentID))
	if err != nil || id == 0 {
		return domain.Assessment{}, studentdomain.ErrInvalidID
	}

	assessment, err := s.repo.FindByStudentID(ctx, s.db, id)
	if err != nil {
		return domain.Assessment{}, err
	}
	if assessment == nil {
		return domain.Assessment{}, studentdomain.ErrNotFound
	}
	return *assessment, nil
}
