// Package lifecycle binds the API client to the state container. Every
// state-affecting operation follows the same contract: dispatch Pending, call
// the backend, then dispatch exactly one of the fulfilled actions or
// Rejected. Failures never escape as panics and never leave the loading flag
// set.
package lifecycle

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/skillgate/skillgate/internal/skillgate"
	"github.com/skillgate/skillgate/internal/state"

	"go.uber.org/zap"
)

// Fallback messages used when the backend's error payload has no usable
// message.
const (
	msgFetchAssessments = "Failed to fetch assessments"
	msgCreateAssessment = "Failed to create assessment"
	msgStartAssessment  = "Failed to start assessment"
	msgFetchProgress    = "Failed to fetch progress"
	msgSubmitAnswer     = "Failed to submit answer"
	msgComplete         = "Failed to complete assessment"
)

type Operations struct {
	client *skillgate.Client
	store  *state.Store
	logger *zap.Logger
}

func New(client *skillgate.Client, store *state.Store, logger *zap.Logger) *Operations {
	return &Operations{
		client: client,
		store:  store,
		logger: logger,
	}
}

func (o *Operations) FetchAssessments() ([]*skillgate.Assessment, error) {
	o.store.Dispatch(state.Pending{})

	list, err := o.client.GetAssessments()
	if err != nil {
		return nil, o.reject(err, msgFetchAssessments)
	}

	o.store.Dispatch(state.AssessmentsFetched{Assessments: list.Items})
	return list.Items, nil
}

func (o *Operations) CreateAssessment(params *skillgate.CreateAssessmentParams) (*skillgate.Assessment, error) {
	o.store.Dispatch(state.Pending{})

	// Validation failures are rejected before anything touches the network.
	if err := params.Validate(); err != nil {
		return nil, o.rejectLocal(err)
	}

	assessment, err := o.client.CreateAssessment(params)
	if err != nil {
		return nil, o.reject(err, msgCreateAssessment)
	}

	o.logger.Info("assessment created",
		zap.Int("assessment_id", assessment.ID),
		zap.Strings("required_skills", assessment.RequiredSkills),
	)

	o.store.Dispatch(state.AssessmentCreated{Assessment: assessment})
	return assessment, nil
}

// StartAssessment runs the eligibility gate. An ineligible verdict is a
// fulfilled outcome: the operation only fails on transport, validation, or
// authorization errors.
func (o *Operations) StartAssessment(id int, resumeText string) (*skillgate.StartResult, error) {
	o.store.Dispatch(state.Pending{})

	if strings.TrimSpace(resumeText) == "" {
		return nil, o.rejectLocal(fmt.Errorf("resume text is required"))
	}

	result, err := o.client.StartAssessment(id, resumeText)
	if err != nil {
		return nil, o.reject(err, msgStartAssessment)
	}

	o.logStart(id, result)
	o.store.Dispatch(state.Started{Result: result})
	return result, nil
}

// StartAssessmentFromFile is the multipart variant of StartAssessment.
func (o *Operations) StartAssessmentFromFile(id int, filename string, content io.Reader) (*skillgate.StartResult, error) {
	o.store.Dispatch(state.Pending{})

	result, err := o.client.StartAssessmentFromFile(id, filename, content)
	if err != nil {
		return nil, o.reject(err, msgStartAssessment)
	}

	o.logStart(id, result)
	o.store.Dispatch(state.Started{Result: result})
	return result, nil
}

func (o *Operations) FetchProgress(id int) (*skillgate.Progress, error) {
	o.store.Dispatch(state.Pending{})

	progress, err := o.client.GetProgress(id)
	if err != nil {
		return nil, o.reject(err, msgFetchProgress)
	}

	o.store.Dispatch(state.ProgressFetched{Progress: progress})
	return progress, nil
}

func (o *Operations) SubmitAnswer(questionID int, answerText string, timeSpent int) (*skillgate.Answer, error) {
	o.store.Dispatch(state.Pending{})

	if strings.TrimSpace(answerText) == "" {
		return nil, o.rejectLocal(fmt.Errorf("answer text is required"))
	}

	answer, err := o.client.SubmitAnswer(questionID, answerText, timeSpent)
	if err != nil {
		return nil, o.reject(err, msgSubmitAnswer)
	}

	o.store.Dispatch(state.AnswerSubmitted{})
	return answer, nil
}

func (o *Operations) CompleteAssessment(id int) (*skillgate.Result, error) {
	o.store.Dispatch(state.Pending{})

	result, err := o.client.CompleteAssessment(id)
	if err != nil {
		return nil, o.reject(err, msgComplete)
	}

	o.logger.Info("assessment completed",
		zap.Int("assessment_id", id),
		zap.Float64("overall_score", result.OverallScore),
		zap.Bool("passed", result.IsPassed),
	)

	o.store.Dispatch(state.Completed{Result: result})
	return result, nil
}

// reject converts the failure into a Rejected dispatch and hands the original
// error back for command-level flow control. Authorization failures clear
// loading without surfacing a message; the forced logout already happened
// inside the client.
func (o *Operations) reject(err error, fallback string) error {
	if errors.Is(err, skillgate.ErrUnauthorized) {
		o.store.Dispatch(state.Rejected{})
		return err
	}

	message := fallback
	var apiErr *skillgate.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		message = apiErr.Message
	}

	o.store.Dispatch(state.Rejected{Message: message})
	return err
}

// rejectLocal surfaces a client-side validation error verbatim. No request
// was dispatched for these.
func (o *Operations) rejectLocal(err error) error {
	o.store.Dispatch(state.Rejected{Message: err.Error()})
	return err
}

func (o *Operations) logStart(id int, result *skillgate.StartResult) {
	fields := []zap.Field{
		zap.Int("assessment_id", id),
		zap.Bool("eligible", result.Eligible),
	}
	if percent, ok := result.MatchPercent(); ok {
		fields = append(fields, zap.Float64("match_percent", percent))
	}
	if missing := result.MissingSkills(); len(missing) > 0 {
		fields = append(fields, zap.Strings("missing_skills", missing))
	}

	o.logger.Info("eligibility evaluated", fields...)
}
