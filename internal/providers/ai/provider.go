// Package ai integrates the external text-generation endpoint used by the
// model prediction strategy. Every failure mode here is recoverable: callers
// fall back to the rule-based scorer and never surface provider errors.
package ai

import (
	"context"
	"errors"

	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
)

// ErrUnavailable marks any provider failure: missing credential, network
// error, non-2xx response, timeout or unusable output.
var ErrUnavailable = errors.New("ai_provider_unavailable")

type Provider interface {
	// PredictRisk renders the snapshot into the fixed prompt, submits it
	// and strictly decodes the JSON reply. The returned prediction is
	// authoritative when err is nil.
	PredictRisk(ctx context.Context, snapshot studentdomain.FeatureSnapshot) (riskdomain.Prediction, error)
}

// Disabled is the provider used when no API credential is configured.
type Disabled struct{}

func (Disabled) PredictRisk(ctx context.Context, snapshot studentdomain.FeatureSnapshot) (riskdomain.Prediction, error) {
	return riskdomain.Prediction{}, ErrUnavailable
}
