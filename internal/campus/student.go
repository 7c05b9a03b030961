package campus

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a requested record is absent from the
// backing collection.
var ErrNotFound = errors.New("record not found")

// ErrInvalidInput is returned when a numeric field is outside its
// documented range.
var ErrInvalidInput = errors.New("invalid input")

// StudentRecord is a read-only view of one student's academic and
// engagement facts. PerformanceScore and SkillScore are composites
// supplied by upstream grading and skill-tracking systems and are not
// recomputed here.
type StudentRecord struct {
	PersonID                        string   `json:"person_id" mapstructure:"person_id"`
	Name                            string   `json:"name,omitempty" mapstructure:"name"`
	GPA                             float64  `json:"gpa" mapstructure:"gpa"`
	AttendanceRatePercent           float64  `json:"attendance_rate_percent" mapstructure:"attendance_rate_percent"`
	AssignmentCompletionRatePercent float64  `json:"assignment_completion_rate_percent" mapstructure:"assignment_completion_rate_percent"`
	PerformanceScore                float64  `json:"performance_score" mapstructure:"performance_score"`
	SkillScore                      float64  `json:"skill_score" mapstructure:"skill_score"`
	Skills                          []string `json:"skills,omitempty" mapstructure:"skills"`
	DeclaredInterests               []string `json:"declared_interests,omitempty" mapstructure:"declared_interests"`
	PreferredDomains                []string `json:"preferred_domains,omitempty" mapstructure:"preferred_domains"`
}

// Validate checks the range invariants of the record. GPA lies in
// [0, 10]; every percentage and sub-score field lies in [0, 100].
func (r *StudentRecord) Validate() error {
	if strings.TrimSpace(r.PersonID) == "" {
		return fmt.Errorf("person id is required: %w", ErrInvalidInput)
	}

	if r.GPA < 0 || r.GPA > 10 {
		return fmt.Errorf("gpa %v is outside [0, 10] for %s: %w", r.GPA, r.PersonID, ErrInvalidInput)
	}

	bounded := []struct {
		name  string
		value float64
	}{
		{"attendance_rate_percent", r.AttendanceRatePercent},
		{"assignment_completion_rate_percent", r.AssignmentCompletionRatePercent},
		{"performance_score", r.PerformanceScore},
		{"skill_score", r.SkillScore},
	}

	for _, field := range bounded {
		if field.value < 0 || field.value > 100 {
			return fmt.Errorf("%s %v is outside [0, 100] for %s: %w", field.name, field.value, r.PersonID, ErrInvalidInput)
		}
	}

	return nil
}

// HasSkill reports whether the student declares the given skill,
// compared case-insensitively with surrounding whitespace ignored.
func (r *StudentRecord) HasSkill(skill string) bool {
	want := strings.ToLower(strings.TrimSpace(skill))
	if want == "" {
		return false
	}
	for _, s := range r.Skills {
		if strings.ToLower(strings.TrimSpace(s)) == want {
			return true
		}
	}
	return false
}

// Roster is an in-memory collection of student records.
type Roster struct {
	Items []*StudentRecord
}

func (r *Roster) Len() int {
	return len(r.Items)
}

// Find returns the record with the given person id or ErrNotFound.
func (r *Roster) Find(personID string) (*StudentRecord, error) {
	for _, rec := range r.Items {
		if rec.PersonID == personID {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("person %q: %w", personID, ErrNotFound)
}

// IDs returns the person ids of all records in roster order.
func (r *Roster) IDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, rec := range r.Items {
		ids = append(ids, rec.PersonID)
	}
	return ids
}
