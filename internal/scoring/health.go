// Package scoring computes academic health assessments and opportunity
// match scores over campus records. Every computation is a pure
// function of its inputs; the package holds no mutable state and
// performs no I/O.
package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/campuskit/campus-insight/internal/campus"
)

// RiskLevel is the coarse risk bucket derived from the overall score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Risk tier thresholds, inclusive lower bounds.
const (
	lowRiskFloor    = 80
	mediumRiskFloor = 50
)

// Per-dimension thresholds under which a risk factor is generated.
const (
	attendanceFactorThreshold  = 75
	performanceFactorThreshold = 60
	assignmentFactorThreshold  = 70
	skillFactorThreshold       = 65
)

// HealthWeights holds the contribution of each sub-score to the
// overall academic health score. The four weights must sum to 100.
type HealthWeights struct {
	Attendance  int `mapstructure:"attendance"`
	Performance int `mapstructure:"performance"`
	Assignment  int `mapstructure:"assignment"`
	Skill       int `mapstructure:"skill"`
}

// DefaultHealthWeights returns the documented default weighting:
// attendance 25, performance 30, assignment 25, skill 20.
func DefaultHealthWeights() HealthWeights {
	return HealthWeights{Attendance: 25, Performance: 30, Assignment: 25, Skill: 20}
}

func (w HealthWeights) Validate() error {
	for _, weight := range []int{w.Attendance, w.Performance, w.Assignment, w.Skill} {
		if weight < 0 {
			return fmt.Errorf("health weights must not be negative: %w", campus.ErrInvalidInput)
		}
	}
	if sum := w.Attendance + w.Performance + w.Assignment + w.Skill; sum != 100 {
		return fmt.Errorf("health weights must sum to 100, got %d: %w", sum, campus.ErrInvalidInput)
	}
	return nil
}

// HealthAssessment is the derived academic health view of one student.
// It is a value object owned by the caller; the engine does not cache
// or persist it.
type HealthAssessment struct {
	PersonID         string    `json:"person_id"`
	OverallScore     int       `json:"overall_score"`
	AttendanceScore  int       `json:"attendance_score"`
	PerformanceScore int       `json:"performance_score"`
	AssignmentScore  int       `json:"assignment_score"`
	SkillScore       int       `json:"skill_score"`
	RiskLevel        RiskLevel `json:"risk_level"`
	RiskFactors      []string  `json:"risk_factors,omitempty"`
	Suggestions      []string  `json:"suggestions"`
	ComputedAt       time.Time `json:"computed_at"`
}

// HealthAssessments is an ordered collection of assessments.
type HealthAssessments struct {
	Items []*HealthAssessment
}

func (h *HealthAssessments) Len() int {
	return len(h.Items)
}

// CountByRisk tallies assessments per risk tier.
func (h *HealthAssessments) CountByRisk() map[RiskLevel]int {
	counts := make(map[RiskLevel]int)
	for _, assessment := range h.Items {
		counts[assessment.RiskLevel]++
	}
	return counts
}

// AtRisk returns the assessments with medium or high risk, preserving
// collection order.
func (h *HealthAssessments) AtRisk() *HealthAssessments {
	atRisk := &HealthAssessments{}
	for _, assessment := range h.Items {
		if assessment.RiskLevel != RiskLow {
			atRisk.Items = append(atRisk.Items, assessment)
		}
	}
	return atRisk
}

// DumpToTmpFile writes the assessments as indented JSON to a temp file
// and returns its name.
func (h *HealthAssessments) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "assessments_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// HealthEngine combines precomputed sub-scores into one assessment
// using a fixed, validated weighting.
type HealthEngine struct {
	weights HealthWeights
}

// NewHealthEngine creates a health engine with the given weights.
func NewHealthEngine(weights HealthWeights) (*HealthEngine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &HealthEngine{weights: weights}, nil
}

// ComputeAcademicHealth assesses the record with the default weights.
func ComputeAcademicHealth(rec *campus.StudentRecord) (*HealthAssessment, error) {
	engine, err := NewHealthEngine(DefaultHealthWeights())
	if err != nil {
		return nil, err
	}
	return engine.Compute(rec)
}

// Compute derives the academic health assessment for one record.
// Attendance and assignment sub-scores are the rounded percentages;
// performance and skill sub-scores are taken from the record as
// supplied by upstream systems.
func (e *HealthEngine) Compute(rec *campus.StudentRecord) (*HealthAssessment, error) {
	if rec == nil {
		return nil, fmt.Errorf("student record is required: %w", campus.ErrInvalidInput)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	attendance := int(math.Round(rec.AttendanceRatePercent))
	assignment := int(math.Round(rec.AssignmentCompletionRatePercent))
	performance := int(math.Round(rec.PerformanceScore))
	skill := int(math.Round(rec.SkillScore))

	weighted := float64(attendance*e.weights.Attendance+
		performance*e.weights.Performance+
		assignment*e.weights.Assignment+
		skill*e.weights.Skill) / 100

	overall := int(math.Round(weighted))

	factors := collectRiskFactors(attendance, performance, assignment, skill)

	return &HealthAssessment{
		PersonID:         rec.PersonID,
		OverallScore:     overall,
		AttendanceScore:  attendance,
		PerformanceScore: performance,
		AssignmentScore:  assignment,
		SkillScore:       skill,
		RiskLevel:        riskLevelFor(overall),
		RiskFactors:      factorMessages(factors),
		Suggestions:      suggestionsFor(factors),
		ComputedAt:       time.Now().UTC(),
	}, nil
}

func riskLevelFor(overall int) RiskLevel {
	switch {
	case overall >= lowRiskFloor:
		return RiskLow
	case overall >= mediumRiskFloor:
		return RiskMedium
	default:
		return RiskHigh
	}
}

type riskFactor struct {
	dimension  string
	shortfall  int
	message    string
	suggestion string
}

func collectRiskFactors(attendance, performance, assignment, skill int) []riskFactor {
	var factors []riskFactor

	if attendance < attendanceFactorThreshold {
		factors = append(factors, riskFactor{
			dimension:  "attendance",
			shortfall:  attendanceFactorThreshold - attendance,
			message:    fmt.Sprintf("attendance at %d%% is below the %d%% expectation", attendance, attendanceFactorThreshold),
			suggestion: "attend classes consistently; reach out to an advisor about recurring absences",
		})
	}

	if performance < performanceFactorThreshold {
		factors = append(factors, riskFactor{
			dimension:  "performance",
			shortfall:  performanceFactorThreshold - performance,
			message:    fmt.Sprintf("exam performance score %d is below the pass threshold of %d", performance, performanceFactorThreshold),
			suggestion: "schedule tutoring sessions for the weakest subjects before the next exam cycle",
		})
	}

	if assignment < assignmentFactorThreshold {
		factors = append(factors, riskFactor{
			dimension:  "assignment",
			shortfall:  assignmentFactorThreshold - assignment,
			message:    fmt.Sprintf("assignment completion at %d%% is trending below the %d%% expectation", assignment, assignmentFactorThreshold),
			suggestion: "catch up on pending assignments and plan submissions ahead of deadlines",
		})
	}

	if skill < skillFactorThreshold {
		factors = append(factors, riskFactor{
			dimension:  "skill",
			shortfall:  skillFactorThreshold - skill,
			message:    fmt.Sprintf("skill growth score %d is below the %d target", skill, skillFactorThreshold),
			suggestion: "pick one practical project or certification to grow declared skills",
		})
	}

	// Highest urgency first: largest shortfall against its threshold.
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].shortfall > factors[j].shortfall
	})

	return factors
}

func factorMessages(factors []riskFactor) []string {
	if len(factors) == 0 {
		return nil
	}
	messages := make([]string, 0, len(factors))
	for _, f := range factors {
		messages = append(messages, f.message)
	}
	return messages
}

func suggestionsFor(factors []riskFactor) []string {
	if len(factors) == 0 {
		return []string{"all indicators are healthy; maintain current performance"}
	}
	suggestions := make([]string, 0, len(factors))
	for _, f := range factors {
		suggestions = append(suggestions, f.suggestion)
	}
	return suggestions
}
