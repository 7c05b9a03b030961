package campus

import (
	"fmt"
	"time"
)

// Opportunity is one job or internship posting. Descriptive fields are
// pass-through only; scoring consumes RequiredSkills and PublishedAt.
type Opportunity struct {
	ID             string    `json:"id" mapstructure:"id"`
	Title          string    `json:"title,omitempty" mapstructure:"title"`
	Company        string    `json:"company,omitempty" mapstructure:"company"`
	Location       string    `json:"location,omitempty" mapstructure:"location"`
	Compensation   string    `json:"compensation,omitempty" mapstructure:"compensation"`
	RequiredSkills []string  `json:"required_skills,omitempty" mapstructure:"required_skills"`
	PublishedAt    time.Time `json:"published_at,omitempty" mapstructure:"published_at"`
}

// Board is an in-memory collection of opportunity postings.
type Board struct {
	Items []*Opportunity
}

func (b *Board) Len() int {
	return len(b.Items)
}

// Find returns the posting with the given id or ErrNotFound.
func (b *Board) Find(opportunityID string) (*Opportunity, error) {
	for _, opp := range b.Items {
		if opp.ID == opportunityID {
			return opp, nil
		}
	}
	return nil, fmt.Errorf("opportunity %q: %w", opportunityID, ErrNotFound)
}

// ReportByCompany groups posting summaries by company name.
func (b *Board) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, opp := range b.Items {
		key := opp.Company
		if key == "" {
			key = "unknown"
		}
		report[key] = append(report[key], map[string]string{
			"id":       opp.ID,
			"title":    opp.Title,
			"location": opp.Location,
		})
	}
	return report
}
