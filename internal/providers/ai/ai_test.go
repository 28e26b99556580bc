package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderPromptIncludesAllFeatures(t *testing.T) {
	prompt := renderPrompt(studentdomain.FeatureSnapshot{
		CumulativeGPA:       2.45,
		RecentAttendancePct: 72.5,
		AvgWeeklyLogins:     3.2,
		HasFinancialAid:     true,
		CourseLoad:          4,
		FirstGeneration:     false,
	})

	assert.Contains(t, prompt, "GPA: 2.45")
	assert.Contains(t, prompt, "Attendance: 72.5%")
	assert.Contains(t, prompt, "Average LMS Logins per week: 3.2")
	assert.Contains(t, prompt, "Has Financial Aid: Yes")
	assert.Contains(t, prompt, "Current Course Load: 4 courses")
	assert.Contains(t, prompt, "First Generation: No")
}

func TestDecodePredictionValid(t *testing.T) {
	raw := `{"risk_score": 72, "risk_tier": "High", "interventions": ["a", "b", "c"]}`

	pred, err := decodePrediction(raw)
	require.NoError(t, err)
	assert.Equal(t, 72, pred.RiskScore)
	assert.Equal(t, riskdomain.TierHigh, pred.RiskTier)
	assert.Equal(t, []string{"a", "b", "c"}, pred.Interventions)
}

func TestDecodePredictionStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"risk_score\": 20, \"risk_tier\": \"Low\", \"interventions\": [\"x\"]}\n```"

	pred, err := decodePrediction(raw)
	require.NoError(t, err)
	assert.Equal(t, 20, pred.RiskScore)
	assert.Equal(t, riskdomain.TierLow, pred.RiskTier)
}

func TestDecodePredictionRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "the student seems fine"},
		{"missing fields", `{"risk_score": 10}`},
		{"unknown tier", `{"risk_score": 10, "risk_tier": "Severe", "interventions": ["a"]}`},
		{"empty interventions", `{"risk_score": 10, "risk_tier": "Low", "interventions": []}`},
		{"too many interventions", `{"risk_score": 10, "risk_tier": "Low", "interventions": ["a","b","c","d"]}`},
		{"score out of range", `{"risk_score": 140, "risk_tier": "High", "interventions": ["a"]}`},
		{"score wrong type", `{"risk_score": "high", "risk_tier": "High", "interventions": ["a"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodePrediction(tc.raw)
			assert.Error(t, err)
		})
	}
}

type chatStub struct {
	content string
	err     error
}

func (s *chatStub) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.content}},
		},
	}, nil
}

func newTestProvider(stub *chatStub) *OpenAIProvider {
	return &OpenAIProvider{
		client:  stub,
		log:     zap.NewNop(),
		model:   "gpt-4o-mini",
		timeout: time.Second,
	}
}

func TestPredictRiskSuccess(t *testing.T) {
	provider := newTestProvider(&chatStub{
		content: `{"risk_score": 55, "risk_tier": "Medium", "interventions": ["meet advisor", "tutoring"]}`,
	})

	pred, err := provider.PredictRisk(context.Background(), studentdomain.FeatureSnapshot{})
	require.NoError(t, err)
	assert.Equal(t, 55, pred.RiskScore)
	assert.Equal(t, riskdomain.TierMedium, pred.RiskTier)
}

func TestPredictRiskTransportError(t *testing.T) {
	provider := newTestProvider(&chatStub{err: errors.New("connection refused")})

	_, err := provider.PredictRisk(context.Background(), studentdomain.FeatureSnapshot{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestPredictRiskGarbageReply(t *testing.T) {
	provider := newTestProvider(&chatStub{content: "I am unable to help with that."})

	_, err := provider.PredictRisk(context.Background(), studentdomain.FeatureSnapshot{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestDisabledProviderAlwaysUnavailable(t *testing.T) {
	_, err := Disabled{}.PredictRisk(context.Background(), studentdomain.FeatureSnapshot{})
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestPromptIsStableAcrossCalls(t *testing.T) {
	snapshot := studentdomain.FeatureSnapshot{CumulativeGPA: 3.1, RecentAttendancePct: 88, AvgWeeklyLogins: 5}
	assert.True(t, strings.Contains(renderPrompt(snapshot), "risk_score"))
	assert.Equal(t, renderPrompt(snapshot), renderPrompt(snapshot))
}
