package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// predictionSchema is the strict shape the model must return. Anything else
// is treated as an unusable reply and triggers the rule-based fallback.
var predictionSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": true,
	"required":             []any{"risk_score", "risk_tier", "interventions"},
	"properties": map[string]any{
		"risk_score": map[string]any{
			"type":    "number",
			"minimum": 0,
			"maximum": 100,
		},
		"risk_tier": map[string]any{
			"type": "string",
			"enum": []any{"Low", "Medium", "High"},
		},
		"interventions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"maxItems": 3,
			"items":    map[string]any{"type": "string"},
		},
	},
}

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

func compiledPredictionSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://risk-prediction.json", predictionSchema); err != nil {
			compileSchemaError = err
			return
		}
		compiledSchema, compileSchemaError = c.Compile("schema://risk-prediction.json")
	})
	return compiledSchema, compileSchemaError
}

// decodePrediction validates the raw model reply against the prediction
// schema and decodes it into a fully populated Prediction. It never returns
// a partially populated value.
func decodePrediction(raw string) (riskdomain.Prediction, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return riskdomain.Prediction{}, fmt.Errorf("model reply is not JSON: %w", err)
	}

	schema, err := compiledPredictionSchema()
	if err != nil {
		return riskdomain.Prediction{}, fmt.Errorf("compile prediction schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return riskdomain.Prediction{}, fmt.Errorf("model reply failed schema validation: %w", err)
	}

	var decoded struct {
		RiskScore     float64  `json:"risk_score"`
		RiskTier      string   `json:"risk_tier"`
		Interventions []string `json:"interventions"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return riskdomain.Prediction{}, err
	}

	tier, err := riskdomain.ParseTier(decoded.RiskTier)
	if err != nil {
		return riskdomain.Prediction{}, err
	}

	score := int(decoded.RiskScore)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return riskdomain.Prediction{
		RiskScore:     score,
		RiskTier:      tier,
		Interventions: decoded.Interventions,
	}, nil
}
