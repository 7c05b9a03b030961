package filtering

import (
	"context"
	"fmt"

	"github.com/campuskit/campus-insight/internal/scoring"
)

type bandFilter struct {
	band scoring.Band
}

// NewBand creates a filter that keeps only results inside the given
// score band.
func NewBand(band scoring.Band) Filter {
	return &bandFilter{band: band}
}

func (f *bandFilter) Name() string { return "band" }

func (f *bandFilter) Disable(string) {}

func (f *bandFilter) IsEnabled() bool { return true }

func (f *bandFilter) Validate() error {
	if _, err := scoring.ParseBand(string(f.band)); err != nil {
		return err
	}
	return nil
}

func (f *bandFilter) Apply(_ context.Context, results *scoring.MatchResults) (*scoring.MatchResults, Step, error) {
	initial := results.Len()
	filtered := results.FilterByBand(f.band)
	return filtered, Step{Initial: initial, Dropped: initial - filtered.Len(), Left: filtered.Len()}, nil
}

func (f *bandFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"band": string(f.band)},
	}
}

type minScoreFilter struct {
	enabled bool
	reason  string
	min     int
}

// NewMinScore creates a filter that drops results scoring under the
// configured floor. A zero floor leaves the filter disabled.
func NewMinScore(min int) Filter {
	return &minScoreFilter{enabled: min > 0, min: min}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return f.enabled }

func (f *minScoreFilter) Validate() error {
	if f.min < 0 || f.min > 100 {
		return fmt.Errorf("minimum score %d is outside [0, 100]", f.min)
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, results *scoring.MatchResults) (*scoring.MatchResults, Step, error) {
	initial := results.Len()
	kept := &scoring.MatchResults{}
	for _, result := range results.Items {
		if result.MatchScore >= f.min {
			kept.Items = append(kept.Items, result)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"min_score": fmt.Sprintf("%d", f.min)},
	}
}

type maxGapsFilter struct {
	enabled bool
	reason  string
	max     int
}

// NewMaxGaps creates a filter that drops results with more skill gaps
// than allowed. A negative limit leaves the filter disabled.
func NewMaxGaps(max int) Filter {
	return &maxGapsFilter{enabled: max >= 0, max: max}
}

func (f *maxGapsFilter) Name() string { return "max_gaps" }

func (f *maxGapsFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *maxGapsFilter) IsEnabled() bool { return f.enabled }

func (f *maxGapsFilter) Validate() error { return nil }

func (f *maxGapsFilter) Apply(_ context.Context, results *scoring.MatchResults) (*scoring.MatchResults, Step, error) {
	initial := results.Len()
	kept := &scoring.MatchResults{}
	for _, result := range results.Items {
		if len(result.SkillGaps) <= f.max {
			kept.Items = append(kept.Items, result)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *maxGapsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"max_gaps": fmt.Sprintf("%d", f.max)},
	}
}
