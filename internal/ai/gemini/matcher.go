package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/skillgate/skillgate/internal/ai"
	"github.com/skillgate/skillgate/internal/skillgate"
	"github.com/skillgate/skillgate/internal/util"

	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Matcher estimates skill coverage of a resume against an assessment's
// required skills, the same comparison the backend performs at the
// eligibility gate.
type Matcher struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewMatcher(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Matcher{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (m *Matcher) Evaluate(ctx context.Context, resumeText string, assessment *skillgate.Assessment) (*ai.SkillAssessment, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("resume text is required")
	}
	if assessment == nil {
		return nil, fmt.Errorf("assessment is required")
	}
	if len(assessment.RequiredSkills) == 0 {
		return nil, fmt.Errorf("assessment has no required skills")
	}

	skillsJSON, err := json.Marshal(assessment.RequiredSkills)
	if err != nil {
		return nil, fmt.Errorf("marshal required skills: %w", err)
	}

	prompt := buildPrompt(resumeText, string(skillsJSON))

	m.logger.Debug("gemini skill estimate request",
		zap.Int("assessment_id", assessment.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("gemini skill estimate response",
		zap.Int("assessment_id", assessment.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, m.maxLogLen)),
	)

	assessed, err := parseResponse(raw, assessment.RequiredSkills)
	if err != nil {
		return nil, err
	}

	// Eligibility mirrors the backend rule: matched fraction against the
	// threshold percentage.
	assessed.Eligible = assessed.MatchedFraction*100 >= float64(assessment.ThresholdPercentage)
	assessed.Raw = raw

	return assessed, nil
}

func buildPrompt(resumeText, skillsJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Resume:\n{{RESUME_TEXT}}\n\nRequired skills:\n{{SKILLS_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{RESUME_TEXT}}", resumeText)
	prompt = strings.ReplaceAll(prompt, "{{SKILLS_JSON}}", skillsJSON)
	return prompt
}

// parseResponse reads the model's JSON verdict and normalizes it so the
// Matches keys are exactly the required skills, whatever casing the model
// used.
func parseResponse(raw string, requiredSkills []string) (*ai.SkillAssessment, error) {
	cleaned := extractJSON(raw)

	var data struct {
		Matches map[string]any `json:"matches"`
		Reason  any            `json:"reason"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	lowered := make(map[string]bool, len(data.Matches))
	for skill, matched := range data.Matches {
		lowered[strings.ToLower(strings.TrimSpace(skill))] = coerceBool(matched)
	}

	matches := make(map[string]bool, len(requiredSkills))
	found := 0
	for _, skill := range requiredSkills {
		matched := lowered[strings.ToLower(skill)]
		matches[skill] = matched
		if matched {
			found++
		}
	}

	fraction := 0.0
	if len(requiredSkills) > 0 {
		fraction = float64(found) / float64(len(requiredSkills))
	}

	return &ai.SkillAssessment{
		Matches:         matches,
		MatchedFraction: fraction,
		Reason:          coerceString(data.Reason),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
