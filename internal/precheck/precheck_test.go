package precheck

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/skillgate/skillgate/internal/ai"
	"github.com/skillgate/skillgate/internal/skillgate"

	"go.uber.org/zap"
)

type stubMatcher struct {
	assessment *ai.SkillAssessment
	err        error
}

func (s *stubMatcher) Evaluate(_ context.Context, _ string, _ *skillgate.Assessment) (*ai.SkillAssessment, error) {
	return s.assessment, s.err
}

func usableResume() *Resume {
	return &Resume{
		Text: strings.Repeat("Ten years of Python, SQL and Flask experience. ", 4),
		Assessment: &skillgate.Assessment{
			ID:                  5,
			RequiredSkills:      []string{"Python", "SQL", "Flask"},
			ThresholdPercentage: 70,
		},
	}
}

func TestEmptyResumeBlocks(t *testing.T) {
	checks := []Check{NewBasics()}

	findings, err := Run(context.Background(), zap.NewNop(), checks, &Resume{Text: "   "})
	if err == nil {
		t.Fatalf("expected a blocking failure")
	}

	if len(findings) != 1 || findings[0].OK {
		t.Fatalf("unexpected findings: %+v", findings)
	}
}

func TestShortResumeBlocks(t *testing.T) {
	checks := []Check{NewBasics()}

	_, err := Run(context.Background(), zap.NewNop(), checks, &Resume{Text: "Go dev"})
	if err == nil {
		t.Fatalf("expected a blocking failure for short resume")
	}
}

func TestEligibleEstimatePasses(t *testing.T) {
	checks := []Check{
		NewBasics(),
		NewEstimate(&stubMatcher{assessment: &ai.SkillAssessment{
			MatchedFraction: 1.0,
			Eligible:        true,
		}}),
	}

	findings, err := Run(context.Background(), zap.NewNop(), checks, usableResume())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(findings) != 2 {
		t.Fatalf("expected both checks to run, got %+v", findings)
	}
	for _, finding := range findings {
		if !finding.OK {
			t.Fatalf("expected all checks to pass: %+v", finding)
		}
	}
}

func TestIneligibleEstimateIsAdvisoryOnly(t *testing.T) {
	checks := []Check{
		NewBasics(),
		NewEstimate(&stubMatcher{assessment: &ai.SkillAssessment{
			MatchedFraction: 0.5,
			Eligible:        false,
			Reason:          "no Flask experience",
		}}),
	}

	findings, err := Run(context.Background(), zap.NewNop(), checks, usableResume())
	if err != nil {
		t.Fatalf("advisory check must not block: %v", err)
	}

	last := findings[len(findings)-1]
	if last.OK || last.Blocking {
		t.Fatalf("expected non-blocking failure finding: %+v", last)
	}
	if !strings.Contains(last.Detail, "no Flask experience") {
		t.Fatalf("expected reason in detail: %q", last.Detail)
	}
}

func TestEstimateErrorIsSkipped(t *testing.T) {
	checks := []Check{
		NewBasics(),
		NewEstimate(&stubMatcher{err: errors.New("quota exceeded")}),
	}

	findings, err := Run(context.Background(), zap.NewNop(), checks, usableResume())
	if err != nil {
		t.Fatalf("a failing advisory check must not abort the run: %v", err)
	}

	// Only the basics finding remains.
	if len(findings) != 1 || findings[0].Check != "resume_basics" {
		t.Fatalf("unexpected findings: %+v", findings)
	}
}

func TestNilMatcherDisablesEstimate(t *testing.T) {
	check := NewEstimate(nil)
	if check.IsEnabled() {
		t.Fatalf("estimate without a matcher must be disabled")
	}

	findings, err := Run(context.Background(), zap.NewNop(), []Check{check}, usableResume())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("disabled check must produce no findings: %+v", findings)
	}
}
