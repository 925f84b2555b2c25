package ai

import (
	"context"

	"github.com/skillgate/skillgate/internal/skillgate"
)

// SkillAssessment is a local estimate of the backend's eligibility verdict:
// which required skills the resume covers and whether the matched fraction
// clears the assessment threshold. Advisory only, the backend stays the
// authority.
type SkillAssessment struct {
	Matches         map[string]bool
	MatchedFraction float64
	Eligible        bool
	Reason          string
	Raw             string
}

type Matcher interface {
	Evaluate(ctx context.Context, resumeText string, assessment *skillgate.Assessment) (*SkillAssessment, error)
}
