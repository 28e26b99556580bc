package domain

import "context"

type PredictRequest struct {
	StudentID string
}

type Service interface {
	// Predict assembles the student's feature snapshot, computes a
	// prediction (model strategy when available, rule-based otherwise),
	// stores it and returns it. A persistence failure does not fail the
	// prediction.
	Predict(ctx context.Context, req PredictRequest) (Prediction, error)

	// GetAssessment returns the stored assessment for a student.
	GetAssessment(ctx context.Context, studentID string) (Assessment, error)
}
