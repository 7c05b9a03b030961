package ai

import (
	"context"

	"github.com/campuskit/campus-insight/internal/campus"
	"github.com/campuskit/campus-insight/internal/scoring"
)

// Advice is the advisor's verdict for one student/opportunity match.
type Advice struct {
	Recommended bool
	Confidence  float64
	Summary     string
	Actions     []string
	Raw         string
}

// Advisor produces free-text guidance for a match result. The scoring
// engine never calls an Advisor; only the CLI and the filter pipeline
// do, keeping the core computation pure.
type Advisor interface {
	Advise(ctx context.Context, rec *campus.StudentRecord, result *scoring.MatchResult) (*Advice, error)
}
