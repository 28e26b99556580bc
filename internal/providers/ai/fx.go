package ai

import (
	"github.com/opencampus/beacon/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.ai",
	fx.Provide(NewFromConfig),
)

// NewFromConfig selects the real provider when a credential is present.
// Absence of the credential is not fatal: predictions then always take the
// rule-based path.
func NewFromConfig(cfg config.Config, log *zap.Logger) (Provider, error) {
	if !cfg.AI.Enabled() {
		log.Info("ai provider disabled, rule-based predictions only")
		return Disabled{}, nil
	}
	return NewOpenAIProvider(cfg.AI, log)
}
