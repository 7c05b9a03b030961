package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// Band is a coarse match-score bucket used for filtering.
type Band string

const (
	BandAll    Band = "all"
	BandHigh   Band = "high"   // score >= 80
	BandMedium Band = "medium" // 60 <= score <= 79
	BandLow    Band = "low"    // score < 60
)

const (
	highBandFloor   = 80
	mediumBandFloor = 60
)

// ParseBand converts a configuration string into a Band.
func ParseBand(s string) (Band, error) {
	switch Band(s) {
	case BandAll, BandHigh, BandMedium, BandLow:
		return Band(s), nil
	case "":
		return BandAll, nil
	default:
		return "", fmt.Errorf("unknown score band: %q", s)
	}
}

// Contains reports whether a match score falls inside the band.
func (b Band) Contains(score int) bool {
	switch b {
	case BandHigh:
		return score >= highBandFloor
	case BandMedium:
		return score >= mediumBandFloor && score < highBandFloor
	case BandLow:
		return score < mediumBandFloor
	default:
		return true
	}
}

// MatchResults is an ordered collection of match results for one
// student across many opportunities.
type MatchResults struct {
	Items []*MatchResult
}

func (m *MatchResults) Len() int {
	return len(m.Items)
}

// Rank sorts the results in place: match score descending, ties broken
// by opportunity posting recency (newer first) and then by opportunity
// id ascending for determinism.
func (m *MatchResults) Rank() {
	sort.SliceStable(m.Items, func(i, j int) bool {
		a, b := m.Items[i], m.Items[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		aPublished, bPublished := a.publishedAt(), b.publishedAt()
		if !aPublished.Equal(bPublished) {
			return aPublished.After(bPublished)
		}
		return a.OpportunityID < b.OpportunityID
	})
}

// FilterByBand returns the subset of results inside the band,
// preserving relative order.
func (m *MatchResults) FilterByBand(band Band) *MatchResults {
	filtered := &MatchResults{}
	for _, result := range m.Items {
		if band.Contains(result.MatchScore) {
			filtered.Items = append(filtered.Items, result)
		}
	}
	return filtered
}

// TopN returns the first n results. It never errors: a short or empty
// collection is returned as-is.
func (m *MatchResults) TopN(n int) *MatchResults {
	if n < 0 {
		n = 0
	}
	if n > len(m.Items) {
		n = len(m.Items)
	}
	return &MatchResults{Items: m.Items[:n]}
}

// RankMatches sorts the results, keeps the requested band, and
// truncates to limit when positive. It is the one-call surface for
// callers that do not need the individual steps.
func RankMatches(results *MatchResults, band Band, limit int) *MatchResults {
	if results == nil {
		return &MatchResults{}
	}

	results.Rank()
	ranked := results.FilterByBand(band)
	if limit > 0 {
		ranked = ranked.TopN(limit)
	}
	return ranked
}

// FindByOpportunity returns the result for the given opportunity id,
// or nil when absent.
func (m *MatchResults) FindByOpportunity(opportunityID string) *MatchResult {
	for _, result := range m.Items {
		if result.OpportunityID == opportunityID {
			return result
		}
	}
	return nil
}

// ReportByCompany groups result summaries by the posting company.
func (m *MatchResults) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, result := range m.Items {
		entry := map[string]string{
			"opportunity_id": result.OpportunityID,
			"match_score":    fmt.Sprintf("%d", result.MatchScore),
		}
		key := "unknown"
		if result.Opportunity != nil {
			key = fmt.Sprintf("%s (%s)", result.Opportunity.Company, result.Opportunity.ID)
			entry["title"] = result.Opportunity.Title
		}
		report[key] = append(report[key], entry)
	}
	return report
}

// DumpToTmpFile writes the results as indented JSON to a temp file and
// returns its name.
func (m *MatchResults) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (r *MatchResult) publishedAt() time.Time {
	if r.Opportunity != nil {
		return r.Opportunity.PublishedAt
	}
	return time.Time{}
}
