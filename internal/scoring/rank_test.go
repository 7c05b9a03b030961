package scoring

import (
	"testing"
	"time"

	"github.com/campuskit/campus-insight/internal/campus"
)

func resultWithScore(id string, score int, published time.Time) *MatchResult {
	return &MatchResult{
		PersonID:      "s-1",
		OpportunityID: id,
		MatchScore:    score,
		Opportunity:   &campus.Opportunity{ID: id, PublishedAt: published},
	}
}

func TestRankOrdering(t *testing.T) {
	t.Parallel()

	older := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	results := &MatchResults{Items: []*MatchResult{
		resultWithScore("op-3", 70, older),
		resultWithScore("op-1", 90, older),
		resultWithScore("op-2", 70, newer),
	}}

	results.Rank()

	got := []string{}
	for _, result := range results.Items {
		got = append(got, result.OpportunityID)
	}

	want := []string{"op-1", "op-2", "op-3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: %v", got)
		}
	}
}

func TestRankTieBreakByIDWithoutTimestamps(t *testing.T) {
	t.Parallel()

	results := &MatchResults{Items: []*MatchResult{
		{OpportunityID: "op-b", MatchScore: 70},
		{OpportunityID: "op-a", MatchScore: 70},
	}}

	results.Rank()

	if results.Items[0].OpportunityID != "op-a" {
		t.Fatalf("expected op-a first on id tie-break, got %s", results.Items[0].OpportunityID)
	}
}

func TestFilterByBandBoundaries(t *testing.T) {
	t.Parallel()

	results := &MatchResults{Items: []*MatchResult{
		{OpportunityID: "op-1", MatchScore: 100},
		{OpportunityID: "op-2", MatchScore: 80},
		{OpportunityID: "op-3", MatchScore: 79},
		{OpportunityID: "op-4", MatchScore: 60},
		{OpportunityID: "op-5", MatchScore: 59},
		{OpportunityID: "op-6", MatchScore: 0},
	}}

	tests := []struct {
		band Band
		want []string
	}{
		{BandAll, []string{"op-1", "op-2", "op-3", "op-4", "op-5", "op-6"}},
		{BandHigh, []string{"op-1", "op-2"}},
		{BandMedium, []string{"op-3", "op-4"}},
		{BandLow, []string{"op-5", "op-6"}},
	}

	for _, tt := range tests {
		filtered := results.FilterByBand(tt.band)
		if filtered.Len() != len(tt.want) {
			t.Fatalf("band %s: expected %d results, got %d", tt.band, len(tt.want), filtered.Len())
		}
		for i, id := range tt.want {
			if filtered.Items[i].OpportunityID != id {
				t.Fatalf("band %s: expected %s at position %d, got %s", tt.band, id, i, filtered.Items[i].OpportunityID)
			}
		}
	}
}

func TestParseBand(t *testing.T) {
	t.Parallel()

	if band, err := ParseBand(""); err != nil || band != BandAll {
		t.Fatalf("expected empty string to parse as all, got %v/%v", band, err)
	}
	if _, err := ParseBand("extreme"); err == nil {
		t.Fatal("expected an error for an unknown band")
	}
}

func TestTopN(t *testing.T) {
	t.Parallel()

	results := &MatchResults{Items: []*MatchResult{
		{OpportunityID: "op-1", MatchScore: 90},
		{OpportunityID: "op-2", MatchScore: 80},
		{OpportunityID: "op-3", MatchScore: 70},
	}}

	top := results.TopN(2)
	if top.Len() != 2 || top.Items[0].OpportunityID != "op-1" {
		t.Fatalf("unexpected topN: %+v", top.Items)
	}

	if results.TopN(10).Len() != 3 {
		t.Fatal("expected topN to clamp to the collection size")
	}
	if results.TopN(-1).Len() != 0 {
		t.Fatal("expected a negative n to yield an empty collection")
	}

	empty := &MatchResults{}
	if empty.TopN(5).Len() != 0 {
		t.Fatal("expected empty in, empty out")
	}
}

func TestRankMatches(t *testing.T) {
	t.Parallel()

	results := &MatchResults{Items: []*MatchResult{
		{OpportunityID: "op-3", MatchScore: 55},
		{OpportunityID: "op-1", MatchScore: 92},
		{OpportunityID: "op-2", MatchScore: 85},
	}}

	ranked := RankMatches(results, BandHigh, 1)
	if ranked.Len() != 1 || ranked.Items[0].OpportunityID != "op-1" {
		t.Fatalf("unexpected ranked results: %+v", ranked.Items)
	}

	if RankMatches(nil, BandAll, 0).Len() != 0 {
		t.Fatal("expected a nil collection to rank to empty")
	}
}

func TestFindByOpportunity(t *testing.T) {
	t.Parallel()

	results := &MatchResults{Items: []*MatchResult{
		{OpportunityID: "op-1", MatchScore: 90},
	}}

	if results.FindByOpportunity("op-1") == nil {
		t.Fatal("expected to find op-1")
	}
	if results.FindByOpportunity("op-404") != nil {
		t.Fatal("did not expect to find op-404")
	}
}

func TestReportByCompany(t *testing.T) {
	t.Parallel()

	results := &MatchResults{Items: []*MatchResult{
		{
			OpportunityID: "op-1",
			MatchScore:    90,
			Opportunity:   &campus.Opportunity{ID: "op-1", Company: "Contoso", Title: "Analyst"},
		},
		{OpportunityID: "op-2", MatchScore: 50},
	}}

	report := results.ReportByCompany()
	if len(report["Contoso (op-1)"]) != 1 {
		t.Fatalf("expected one Contoso entry, got %v", report)
	}
	if len(report["unknown"]) != 1 {
		t.Fatalf("expected the posting-less result under unknown, got %v", report)
	}
}
