package filtering

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/campuskit/campus-insight/internal/scoring"
)

func sampleResults() *scoring.MatchResults {
	return &scoring.MatchResults{Items: []*scoring.MatchResult{
		{OpportunityID: "op-1", MatchScore: 92, SkillGaps: nil},
		{OpportunityID: "op-2", MatchScore: 81, SkillGaps: []string{"Rust"}},
		{OpportunityID: "op-3", MatchScore: 64, SkillGaps: []string{"Rust", "Kafka", "Spark"}},
		{OpportunityID: "op-4", MatchScore: 40, SkillGaps: []string{"Go"}},
	}}
}

func ids(results *scoring.MatchResults) []string {
	out := make([]string, 0, results.Len())
	for _, result := range results.Items {
		out = append(out, result.OpportunityID)
	}
	return out
}

func TestRunFiltersSequentially(t *testing.T) {
	t.Parallel()

	pipeline := New([]Filter{
		NewMinScore(50),
		NewMaxGaps(1),
	}, zap.NewNop())

	left, err := pipeline.RunFilters(context.Background(), sampleResults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ids(left)
	if len(got) != 2 || got[0] != "op-1" || got[1] != "op-2" {
		t.Fatalf("unexpected surviving results: %v", got)
	}
}

func TestBandFilter(t *testing.T) {
	t.Parallel()

	pipeline := New([]Filter{NewBand(scoring.BandHigh)}, zap.NewNop())

	left, err := pipeline.RunFilters(context.Background(), sampleResults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ids(left)
	if len(got) != 2 || got[0] != "op-1" || got[1] != "op-2" {
		t.Fatalf("unexpected surviving results: %v", got)
	}
}

func TestBandFilterRejectsUnknownBand(t *testing.T) {
	t.Parallel()

	pipeline := New([]Filter{NewBand(scoring.Band("extreme"))}, zap.NewNop())

	if _, err := pipeline.RunFilters(context.Background(), sampleResults()); err == nil {
		t.Fatal("expected a validation error for an unknown band")
	}
}

func TestDisabledFilterIsSkipped(t *testing.T) {
	t.Parallel()

	minScore := NewMinScore(50)
	pipeline := New([]Filter{minScore}, zap.NewNop())
	pipeline.DisableByName("min_score", "testing")

	left, err := pipeline.RunFilters(context.Background(), sampleResults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if left.Len() != 4 {
		t.Fatalf("expected all results to survive a disabled filter, got %d", left.Len())
	}
}

func TestMinScoreValidation(t *testing.T) {
	t.Parallel()

	filter := NewMinScore(150)
	if err := filter.Validate(); err == nil {
		t.Fatal("expected a validation error for a floor above 100")
	}
}

func TestMinScoreZeroStartsDisabled(t *testing.T) {
	t.Parallel()

	if NewMinScore(0).IsEnabled() {
		t.Fatal("expected a zero floor to leave the filter disabled")
	}
}

func TestMaxGapsNegativeStartsDisabled(t *testing.T) {
	t.Parallel()

	if NewMaxGaps(-1).IsEnabled() {
		t.Fatal("expected a negative limit to leave the filter disabled")
	}
}

func TestMaxGapsZeroKeepsGaplessOnly(t *testing.T) {
	t.Parallel()

	pipeline := New([]Filter{NewMaxGaps(0)}, zap.NewNop())

	left, err := pipeline.RunFilters(context.Background(), sampleResults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ids(left)
	if len(got) != 1 || got[0] != "op-1" {
		t.Fatalf("unexpected surviving results: %v", got)
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	pipeline := New([]Filter{
		NewBand(scoring.BandMedium),
		NewMinScore(30),
	}, zap.NewNop())
	pipeline.DisableByName("min_score", "not needed")

	statuses := pipeline.Describe()
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}

	if statuses[0].Name != "band" || !statuses[0].Enabled {
		t.Fatalf("unexpected band status: %+v", statuses[0])
	}
	if statuses[0].Details["band"] != "medium" {
		t.Fatalf("expected band detail, got %+v", statuses[0].Details)
	}

	if statuses[1].Name != "min_score" || statuses[1].Enabled {
		t.Fatalf("expected min_score to be disabled: %+v", statuses[1])
	}
	if statuses[1].Reason != "not needed" {
		t.Fatalf("expected disable reason to be kept: %+v", statuses[1])
	}
}
