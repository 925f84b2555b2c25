package skillgate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Assessment statuses. Transitions are one-way: draft moves to active or
// rejected at the eligibility gate, active moves to completed. Nothing leaves
// completed or rejected.
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

type Assessments struct {
	Items []*Assessment
}

type Assessment struct {
	ID                  int             `json:"id,omitempty"`
	Title               string          `json:"title,omitempty"`
	Description         string          `json:"description,omitempty"`
	RequiredSkills      []string        `json:"required_skills,omitempty"`
	ThresholdPercentage int             `json:"threshold_percentage,omitempty"`
	RecruiterID         int             `json:"recruiter_id,omitempty"`
	CandidateID         int             `json:"candidate_id,omitempty"`
	Status              string          `json:"status,omitempty"`
	ResumeFilename      string          `json:"resume_filename,omitempty"`
	SkillMatches        map[string]bool `json:"skill_matches,omitempty"`
	EligibilityData     json.RawMessage `json:"eligibility_data,omitempty"`
	CreatedAt           string          `json:"created_at,omitempty"`
	StartedAt           string          `json:"started_at,omitempty"`
	CompletedAt         string          `json:"completed_at,omitempty"`
	ExpiresAt           string          `json:"expires_at,omitempty"`
}

// Result is the graded summary the backend produces once an assessment is
// completed.
type Result struct {
	ID               int                `json:"id,omitempty"`
	AssessmentID     int                `json:"assessment_id,omitempty"`
	OverallScore     float64            `json:"overall_score,omitempty"`
	SkillScores      map[string]float64 `json:"skill_scores,omitempty"`
	TotalQuestions   int                `json:"total_questions,omitempty"`
	TotalTimeSeconds int                `json:"total_time_seconds,omitempty"`
	Strengths        []string           `json:"strengths,omitempty"`
	Weaknesses       []string           `json:"weaknesses,omitempty"`
	Recommendations  string             `json:"recommendations,omitempty"`
	IsPassed         bool               `json:"is_passed,omitempty"`
	CreatedAt        string             `json:"created_at,omitempty"`
}

// AssessmentDetails pairs an assessment with its result, when one exists.
type AssessmentDetails struct {
	Assessment *Assessment `json:"assessment"`
	Result     *Result     `json:"result"`
}

// CandidateReport pairs a candidate with their graded result.
type CandidateReport struct {
	Candidate *User   `json:"candidate"`
	Result    *Result `json:"result"`
}

type CreateAssessmentParams struct {
	Title string
	// Description is optional.
	Description string
	// RequiredSkills is the raw recruiter-entered comma-separated text.
	RequiredSkills      string
	ThresholdPercentage int
}

// Validate rejects bad input before anything is sent over the wire.
func (p *CreateAssessmentParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(SplitSkills(p.RequiredSkills)) == 0 {
		return fmt.Errorf("at least one required skill is required")
	}
	if p.ThresholdPercentage < 0 || p.ThresholdPercentage > 100 {
		return fmt.Errorf("threshold percentage must be between 0 and 100, got %d", p.ThresholdPercentage)
	}
	return nil
}

// SplitSkills turns recruiter-entered comma text into a clean skill list,
// preserving order.
func SplitSkills(raw string) []string {
	var skills []string
	for _, part := range strings.Split(raw, ",") {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func (c *Client) CreateAssessment(params *CreateAssessmentParams) (*Assessment, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"title":                params.Title,
		"required_skills":      SplitSkills(params.RequiredSkills),
		"threshold_percentage": params.ThresholdPercentage,
	}
	if params.Description != "" {
		payload["description"] = params.Description
	}

	var resp struct {
		Assessment *Assessment `json:"assessment"`
	}
	if err := c.postJSON("/api/recruiter/assessments", payload, &resp); err != nil {
		return nil, err
	}

	return resp.Assessment, nil
}

func (c *Client) GetAssessments() (*Assessments, error) {
	var resp struct {
		Assessments []*Assessment `json:"assessments"`
	}
	if err := c.getJSON("/api/recruiter/assessments", nil, &resp); err != nil {
		return nil, err
	}

	return &Assessments{Items: resp.Assessments}, nil
}

func (c *Client) GetAssessmentDetails(id int) (*AssessmentDetails, error) {
	var details AssessmentDetails
	if err := c.getJSON(fmt.Sprintf("/api/recruiter/assessments/%d", id), nil, &details); err != nil {
		return nil, err
	}

	return &details, nil
}

func (c *Client) GetAssessmentCandidates(id int) ([]*CandidateReport, error) {
	var resp struct {
		Assessment *Assessment      `json:"assessment"`
		Candidates []map[string]any `json:"candidates"`
	}
	if err := c.getJSON(fmt.Sprintf("/api/recruiter/assessments/%d/candidates", id), nil, &resp); err != nil {
		return nil, err
	}

	var reports []*CandidateReport
	cfg := &mapstructure.DecoderConfig{
		Result:  &reports,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(resp.Candidates); err != nil {
		return nil, err
	}

	return reports, nil
}

// GetPublicAssessment returns the unauthenticated view a candidate sees
// before deciding to start.
func (c *Client) GetPublicAssessment(id int) (*Assessment, error) {
	var resp struct {
		Assessment *Assessment `json:"assessment"`
	}
	if err := c.getJSON(fmt.Sprintf("/api/assessment/public/%d", id), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Assessment, nil
}

func (a *Assessments) Len() int {
	return len(a.Items)
}

func (a *Assessments) FindByID(id int) *Assessment {
	for _, assessment := range a.Items {
		if assessment.ID == id {
			return assessment
		}
	}
	return nil
}

func (a *Assessments) Titles() []string {
	titles := make([]string, 0, len(a.Items))
	for _, assessment := range a.Items {
		titles = append(titles, assessment.Title)
	}
	return titles
}
