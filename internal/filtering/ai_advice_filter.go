package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campuskit/campus-insight/internal/ai"
	"github.com/campuskit/campus-insight/internal/campus"
	"github.com/campuskit/campus-insight/internal/scoring"
)

type aiAdviceFilter struct {
	enabled bool
	reason  string
	config  *AIAdviceConfig
	deps    *AIAdviceDeps
}

// AIAdviceDeps aggregates dependencies for the AI advice step.
type AIAdviceDeps struct {
	Logger  *zap.Logger
	Advisor ai.Advisor
	Student *campus.StudentRecord
}

// AIAdviceConfig stores the AI step configuration.
type AIAdviceConfig struct {
	Enabled           bool
	Provider          string
	MinimumConfidence float64
}

// NewAIAdvice creates the AI-based advice step. Surviving results are
// annotated with the advisor's verdict; results the advisor rejects
// are dropped.
func NewAIAdvice(cfg *AIAdviceConfig, deps *AIAdviceDeps) Filter {
	return &aiAdviceFilter{
		enabled: cfg.Enabled,
		config:  cfg,
		deps:    deps,
	}
}

func (f *aiAdviceFilter) Name() string { return "ai_advice" }

func (f *aiAdviceFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *aiAdviceFilter) IsEnabled() bool { return f.enabled }

func (f *aiAdviceFilter) Validate() error {
	if f.deps == nil {
		return fmt.Errorf("deps are not initialized: filter is not usable")
	}
	if f.deps.Advisor == nil {
		return fmt.Errorf("advisor is required when the ai step is enabled")
	}
	if f.deps.Student == nil {
		return fmt.Errorf("student record is required when the ai step is enabled")
	}
	return nil
}

func (f *aiAdviceFilter) Apply(ctx context.Context, results *scoring.MatchResults) (*scoring.MatchResults, Step, error) {
	initial := results.Len()
	logger := f.deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	kept := &scoring.MatchResults{}
	for _, result := range results.Items {
		advice, err := f.deps.Advisor.Advise(ctx, f.deps.Student, result)
		if err != nil {
			// An advisor failure keeps the result; the score alone
			// already earned its place in the list.
			logger.Warn("AI advice failed",
				zap.String("opportunity_id", result.OpportunityID),
				zap.Error(err),
			)
			result.Advice = &scoring.Advice{Error: err.Error()}
			kept.Items = append(kept.Items, result)
			continue
		}

		result.Advice = &scoring.Advice{
			Recommended: advice.Recommended,
			Confidence:  advice.Confidence,
			Summary:     advice.Summary,
			Actions:     advice.Actions,
			Raw:         advice.Raw,
		}

		if !advice.Recommended {
			logger.Info("opportunity rejected by AI advisor",
				zap.String("opportunity_id", result.OpportunityID),
				zap.Float64("confidence", advice.Confidence),
				zap.String("summary", advice.Summary),
			)
			continue
		}

		logger.Info("opportunity endorsed by AI advisor",
			zap.String("opportunity_id", result.OpportunityID),
			zap.Float64("confidence", advice.Confidence),
		)
		kept.Items = append(kept.Items, result)
	}

	logger.Info("AI advice completed",
		zap.Int("initial_results", initial),
		zap.Int("endorsed_results", kept.Len()),
	)

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *aiAdviceFilter) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["minimum_confidence"] = fmt.Sprintf("%.2f", f.config.MinimumConfidence)
		if f.config.Provider != "" {
			details["provider"] = f.config.Provider
		}
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
