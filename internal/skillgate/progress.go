package skillgate

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

type Question struct {
	ID           int             `json:"id,omitempty"`
	AssessmentID int             `json:"assessment_id,omitempty"`
	Skill        string          `json:"skill,omitempty"`
	QuestionText string          `json:"question_text,omitempty"`
	QuestionType string          `json:"question_type,omitempty"`
	Options      json.RawMessage `json:"options,omitempty"`
	Difficulty   string          `json:"difficulty,omitempty"`
	OrderIndex   int             `json:"order_index"`
	CreatedAt    string          `json:"created_at,omitempty"`
}

// OptionList decodes the options payload for multiple choice questions.
func (q *Question) OptionList() []string {
	var options []string
	if len(q.Options) == 0 {
		return options
	}
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil
	}
	return options
}

// Progress is a backend-computed snapshot of one assessment attempt. The
// client never derives any of these fields locally; in particular
// CurrentQuestion is the backend's choice of next unanswered question.
type Progress struct {
	Assessment         *Assessment `json:"assessment"`
	TotalQuestions     int         `json:"total_questions"`
	AnsweredQuestions  int         `json:"answered_questions"`
	CurrentQuestion    *Question   `json:"current_question"`
	ProgressPercentage float64     `json:"progress_percentage"`
}

// Answer is the graded record returned by the backend for a submitted answer.
type Answer struct {
	ID               int     `json:"id,omitempty"`
	QuestionID       int     `json:"question_id,omitempty"`
	AssessmentID     int     `json:"assessment_id,omitempty"`
	AnswerText       string  `json:"answer_text,omitempty"`
	AIScore          float64 `json:"ai_score,omitempty"`
	AIFeedback       string  `json:"ai_feedback,omitempty"`
	AnsweredAt       string  `json:"answered_at,omitempty"`
	TimeSpentSeconds int     `json:"time_spent_seconds,omitempty"`
}

// StartResult carries the eligibility verdict. Eligible false is a normal
// outcome, not an error: the operation succeeded and the payload says no.
type StartResult struct {
	Eligible        bool            `json:"eligible"`
	EligibilityData json.RawMessage `json:"eligibility_data,omitempty"`
	Message         string          `json:"message,omitempty"`
	Assessment      *Assessment     `json:"assessment,omitempty"`
	TotalQuestions  int             `json:"total_questions,omitempty"`
}

// MatchPercent digs the match percentage out of the opaque eligibility
// payload. The schema belongs to the backend, so no struct is committed to.
func (r *StartResult) MatchPercent() (float64, bool) {
	result := gjson.GetBytes(r.EligibilityData, "match_percent")
	if !result.Exists() {
		return 0, false
	}
	return result.Float(), true
}

// MissingSkills lists the required skills the backend did not find in the
// resume, when the payload carries them.
func (r *StartResult) MissingSkills() []string {
	var skills []string
	for _, entry := range gjson.GetBytes(r.EligibilityData, "missing_skills").Array() {
		skills = append(skills, entry.String())
	}
	return skills
}

// StartAssessment submits resume text and runs the eligibility gate.
func (c *Client) StartAssessment(id int, resumeText string) (*StartResult, error) {
	payload := map[string]string{
		"resume_text": resumeText,
	}

	var result StartResult
	if err := c.postJSON(fmt.Sprintf("/api/assessment/start/%d", id), payload, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// StartAssessmentFromFile uploads a resume file instead of text. The backend
// parses the file itself.
func (c *Client) StartAssessmentFromFile(id int, filename string, content io.Reader) (*StartResult, error) {
	var result StartResult
	if err := c.postFile(fmt.Sprintf("/api/assessment/start/%d", id), "resume_file", filename, content, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) GetProgress(id int) (*Progress, error) {
	var progress Progress
	if err := c.getJSON(fmt.Sprintf("/api/assessment/progress/%d", id), nil, &progress); err != nil {
		return nil, err
	}

	return &progress, nil
}

// SubmitAnswer sends one answer for grading. timeSpent is in seconds; zero
// means not measured.
func (c *Client) SubmitAnswer(questionID int, answerText string, timeSpent int) (*Answer, error) {
	payload := map[string]any{
		"answer_text": answerText,
	}
	if timeSpent > 0 {
		payload["time_spent_seconds"] = timeSpent
	}

	var resp struct {
		Answer *Answer `json:"answer"`
	}
	if err := c.postJSON(fmt.Sprintf("/api/assessment/question/%d/answer", questionID), payload, &resp); err != nil {
		return nil, err
	}

	return resp.Answer, nil
}

func (c *Client) CompleteAssessment(id int) (*Result, error) {
	var resp struct {
		Result *Result `json:"result"`
	}
	if err := c.postJSON(fmt.Sprintf("/api/assessment/complete/%d", id), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Result, nil
}
