package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/campuskit/campus-insight/internal/ai"
	"github.com/campuskit/campus-insight/internal/campus"
	"github.com/campuskit/campus-insight/internal/logger"
	"github.com/campuskit/campus-insight/internal/scoring"
)

//go:embed prompt.md
var systemPrompt string

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Advisor asks Gemini for guidance on a scored match and applies a
// minimum-confidence threshold to the verdict.
type Advisor struct {
	generator     contentGenerator
	minConfidence float64
	maxLogLen     int
	logger        *zap.Logger
}

// NewAdvisor wraps a content generator into an ai.Advisor.
func NewAdvisor(generator contentGenerator, minConfidence float64, maxLogLength int, log *zap.Logger) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Advisor{
		generator:     generator,
		minConfidence: minConfidence,
		maxLogLen:     maxLogLength,
		logger:        logger.WithAdvisorFields(log, "gemini", generator.Model()),
	}
}

// Advise sends the student profile and match result to the model and
// parses the structured verdict.
func (a *Advisor) Advise(ctx context.Context, rec *campus.StudentRecord, result *scoring.MatchResult) (*ai.Advice, error) {
	if rec == nil {
		return nil, fmt.Errorf("student record is required")
	}
	if result == nil {
		return nil, fmt.Errorf("match result is required")
	}

	message, err := buildMessage(rec, result)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini advise request",
		zap.String("person_id", rec.PersonID),
		zap.String("opportunity_id", result.OpportunityID),
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", logger.TruncateForLog(message, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini advise response",
		zap.String("person_id", rec.PersonID),
		zap.String("opportunity_id", result.OpportunityID),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	advice, err := parseAdvice(raw)
	if err != nil {
		return nil, err
	}

	if a.minConfidence > 0 && advice.Confidence < a.minConfidence && advice.Recommended {
		a.logger.Debug("verdict downgraded by confidence threshold",
			zap.String("opportunity_id", result.OpportunityID),
			zap.Float64("confidence", advice.Confidence),
			zap.Float64("threshold", a.minConfidence),
		)
		advice.Recommended = false
	}

	advice.Raw = raw
	return advice, nil
}

func buildMessage(rec *campus.StudentRecord, result *scoring.MatchResult) (string, error) {
	studentJSON, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal student payload: %w", err)
	}

	matchJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal match payload: %w", err)
	}

	return fmt.Sprintf("Student:\n%s\n\nMatch:\n%s\n\nJSON Response:", studentJSON, matchJSON), nil
}

func parseAdvice(raw string) (*ai.Advice, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	confidence := coerceFloat(data["confidence"])
	if math.IsNaN(confidence) {
		confidence = 0
	}

	return &ai.Advice{
		Recommended: coerceBool(data["recommended"]),
		Confidence:  confidence,
		Summary:     coerceString(data["summary"]),
		Actions:     coerceStrings(data["actions"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			result = append(result, s)
		}
	}
	return result
}
