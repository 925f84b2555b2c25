// Package precheck runs a resume through a sequence of named checks before
// it is uploaded to the eligibility gate. Checks never override the backend:
// a failing advisory check produces a warning finding, and only blocking
// checks stop the upload.
package precheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/skillgate/skillgate/internal/ai"
	"github.com/skillgate/skillgate/internal/skillgate"

	"go.uber.org/zap"
)

// Resume is the input shared by all checks.
type Resume struct {
	Text       string
	Filename   string
	Assessment *skillgate.Assessment
}

// Finding describes the outcome of one check.
type Finding struct {
	Check    string
	OK       bool
	Blocking bool
	Detail   string
}

// Check is a single precheck step.
type Check interface {
	Name() string
	IsEnabled() bool

	// Run returns a Finding; an error means the check itself could not
	// execute, which is never fatal for advisory checks.
	Run(ctx context.Context, r *Resume) (Finding, error)
}

// Run executes the checks sequentially and returns all findings. The error is
// non-nil only when a blocking check fails.
func Run(ctx context.Context, logger *zap.Logger, checks []Check, r *Resume) ([]Finding, error) {
	findings := make([]Finding, 0, len(checks))

	for _, check := range checks {
		if !check.IsEnabled() {
			logger.Debug("precheck disabled", zap.String("name", check.Name()))
			continue
		}

		finding, err := check.Run(ctx, r)
		if err != nil {
			logger.Warn("precheck could not run",
				zap.String("name", check.Name()),
				zap.Error(err),
			)
			continue
		}

		logger.Info("precheck",
			zap.String("name", finding.Check),
			zap.Bool("ok", finding.OK),
			zap.String("detail", finding.Detail),
		)

		findings = append(findings, finding)

		if !finding.OK && finding.Blocking {
			return findings, fmt.Errorf("%s: %s", finding.Check, finding.Detail)
		}
	}

	return findings, nil
}

const minResumeLength = 80

type basicsCheck struct{}

// NewBasics creates the blocking check for obviously unusable resume text.
func NewBasics() Check {
	return &basicsCheck{}
}

func (c *basicsCheck) Name() string { return "resume_basics" }

func (c *basicsCheck) IsEnabled() bool { return true }

func (c *basicsCheck) Run(_ context.Context, r *Resume) (Finding, error) {
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return Finding{Check: c.Name(), OK: false, Blocking: true, Detail: "resume text is empty"}, nil
	}
	if len(text) < minResumeLength {
		return Finding{
			Check:    c.Name(),
			OK:       false,
			Blocking: true,
			Detail:   fmt.Sprintf("resume text is too short (%d characters, need at least %d)", len(text), minResumeLength),
		}, nil
	}

	return Finding{Check: c.Name(), OK: true, Detail: "resume text looks usable"}, nil
}

type estimateCheck struct {
	matcher  ai.Matcher
	disabled bool
}

// NewEstimate creates the advisory AI check that predicts the backend's
// eligibility verdict. A nil matcher disables it.
func NewEstimate(matcher ai.Matcher) Check {
	return &estimateCheck{
		matcher:  matcher,
		disabled: matcher == nil,
	}
}

func (c *estimateCheck) Name() string { return "ai_estimate" }

func (c *estimateCheck) IsEnabled() bool { return !c.disabled }

func (c *estimateCheck) Run(ctx context.Context, r *Resume) (Finding, error) {
	if r.Assessment == nil {
		return Finding{}, fmt.Errorf("assessment is required for the skill estimate")
	}

	assessment, err := c.matcher.Evaluate(ctx, r.Text, r.Assessment)
	if err != nil {
		return Finding{}, err
	}

	detail := fmt.Sprintf("estimated skill match %.0f%% against threshold %d%%",
		assessment.MatchedFraction*100, r.Assessment.ThresholdPercentage)
	if !assessment.Eligible && assessment.Reason != "" {
		detail = fmt.Sprintf("%s: %s", detail, assessment.Reason)
	}

	return Finding{
		Check:  c.Name(),
		OK:     assessment.Eligible,
		Detail: detail,
	}, nil
}
