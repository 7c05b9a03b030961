package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/campuskit/campus-insight/internal/campus"
)

// Match formula contributions. GPA carries up to 30 points, attendance
// and assignment completion 20 each, skill overlap the remaining 30.
const (
	gpaPoints        = 30
	attendancePoints = 20
	assignmentPoints = 20
	overlapPoints    = 30
)

// Reason thresholds for strong sub-components.
const (
	strongGPA        = 8.0
	strongAttendance = 85.0
	strongAssignment = 90.0
)

const maxRecommendations = 3

// MatchResult describes how well one student's profile fits one
// opportunity posting.
type MatchResult struct {
	PersonID        string    `json:"person_id"`
	OpportunityID   string    `json:"opportunity_id"`
	MatchScore      int       `json:"match_score"`
	MatchReasons    []string  `json:"match_reasons,omitempty"`
	SkillGaps       []string  `json:"skill_gaps,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	ComputedAt      time.Time `json:"computed_at"`

	// Opportunity carries the evaluated posting for presentation.
	Opportunity *campus.Opportunity `json:"opportunity,omitempty"`
	// Advice is filled in by the AI advice step when configured.
	Advice *Advice `json:"advice,omitempty"`
}

// Advice is free-text guidance produced by an AI advisor for one
// match result.
type Advice struct {
	Recommended bool     `json:"recommended"`
	Confidence  float64  `json:"confidence"`
	Summary     string   `json:"summary,omitempty"`
	Actions     []string `json:"actions,omitempty"`
	Raw         string   `json:"-"`
	Error       string   `json:"error,omitempty"`
}

// ComputeOpportunityMatch scores the student against the posting.
// The skill overlap term is derived from the actual case-insensitive
// intersection of declared and required skills; an opportunity with no
// required skills contributes zero overlap and the remaining weighted
// terms still apply.
func ComputeOpportunityMatch(rec *campus.StudentRecord, opp *campus.Opportunity) (*MatchResult, error) {
	if rec == nil {
		return nil, fmt.Errorf("student record is required: %w", campus.ErrInvalidInput)
	}
	if opp == nil {
		return nil, fmt.Errorf("opportunity is required: %w", campus.ErrInvalidInput)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	required := uniqueSkills(opp.RequiredSkills)
	matched, gaps := splitByOverlap(rec, required)

	score := rec.GPA / 10 * gpaPoints
	score += rec.AttendanceRatePercent / 100 * attendancePoints
	score += rec.AssignmentCompletionRatePercent / 100 * assignmentPoints

	if len(required) > 0 {
		overlap := overlapPoints * float64(len(matched)) / float64(len(required))
		score += math.Min(overlap, overlapPoints)
	}

	matchScore := int(math.Round(score))
	if matchScore > 100 {
		matchScore = 100
	}

	return &MatchResult{
		PersonID:        rec.PersonID,
		OpportunityID:   opp.ID,
		MatchScore:      matchScore,
		MatchReasons:    matchReasons(rec, matched),
		SkillGaps:       gaps,
		Recommendations: recommendations(gaps),
		ComputedAt:      time.Now().UTC(),
		Opportunity:     opp,
	}, nil
}

// uniqueSkills drops duplicates and blank entries while preserving the
// order skills appear in the posting.
func uniqueSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	unique := make([]string, 0, len(skills))
	for _, skill := range skills {
		trimmed := strings.TrimSpace(skill)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, trimmed)
	}
	return unique
}

func splitByOverlap(rec *campus.StudentRecord, required []string) (matched, gaps []string) {
	for _, skill := range required {
		if rec.HasSkill(skill) {
			matched = append(matched, skill)
			continue
		}
		gaps = append(gaps, skill)
	}
	return matched, gaps
}

func matchReasons(rec *campus.StudentRecord, matched []string) []string {
	var reasons []string

	if rec.GPA >= strongGPA {
		reasons = append(reasons, fmt.Sprintf("strong academic record with a %.1f GPA", rec.GPA))
	}
	if rec.AttendanceRatePercent >= strongAttendance {
		reasons = append(reasons, fmt.Sprintf("reliable attendance at %.0f%%", rec.AttendanceRatePercent))
	}
	if rec.AssignmentCompletionRatePercent >= strongAssignment {
		reasons = append(reasons, fmt.Sprintf("consistent assignment completion at %.0f%%", rec.AssignmentCompletionRatePercent))
	}
	for _, skill := range matched {
		reasons = append(reasons, fmt.Sprintf("required skill %q already in profile", skill))
	}

	return reasons
}

func recommendations(gaps []string) []string {
	recs := make([]string, 0, maxRecommendations)
	for _, gap := range gaps {
		if len(recs) == maxRecommendations {
			return recs
		}
		recs = append(recs, fmt.Sprintf("build hands-on experience with %s through a course or project", gap))
	}
	if len(recs) < maxRecommendations {
		recs = append(recs, "strengthen the profile with certifications or portfolio projects in the target domain")
	}
	return recs
}
