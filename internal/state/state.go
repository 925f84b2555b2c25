// Package state holds the assessment UI data: the recruiter's list, the
// active assessment, and the latest progress snapshot. All mutation goes
// through Dispatch with pure transition functions, so every observable state
// is the result of a complete action, never a partial write.
package state

import "github.com/skillgate/skillgate/internal/skillgate"

// State is a value. Transitions copy it; slices are replaced wholesale, never
// mutated in place.
type State struct {
	Assessments []*skillgate.Assessment
	Current     *skillgate.Assessment
	Progress    *skillgate.Progress
	Result      *skillgate.Result
	Loading     bool
	Err         string
}

// Action marks the types reduce understands.
type Action interface {
	action()
}

// Pending starts an operation: loading on, previous error cleared.
type Pending struct{}

// Rejected finishes a failed operation. Message may be empty for failures
// that must not surface per-operation errors (expired credentials).
type Rejected struct {
	Message string
}

// AssessmentsFetched replaces the list wholesale.
type AssessmentsFetched struct {
	Assessments []*skillgate.Assessment
}

// AssessmentCreated appends the new assessment to the list.
type AssessmentCreated struct {
	Assessment *skillgate.Assessment
}

// Started applies the eligibility verdict. An ineligible result carries no
// assessment, which clears Current just like the source of truth would.
type Started struct {
	Result *skillgate.StartResult
}

// ProgressFetched replaces the progress snapshot.
type ProgressFetched struct {
	Progress *skillgate.Progress
}

// AnswerSubmitted carries no state beyond clearing the loading flag; progress
// is refreshed by the next ProgressFetched.
type AnswerSubmitted struct{}

// Completed stores the final graded result.
type Completed struct {
	Result *skillgate.Result
}

// ClearError resets the error field before a fresh attempt.
type ClearError struct{}

// ClearCurrent drops the active assessment, its progress, and its result.
type ClearCurrent struct{}

func (Pending) action()            {}
func (Rejected) action()           {}
func (AssessmentsFetched) action() {}
func (AssessmentCreated) action()  {}
func (Started) action()            {}
func (ProgressFetched) action()    {}
func (AnswerSubmitted) action()    {}
func (Completed) action()          {}
func (ClearError) action()         {}
func (ClearCurrent) action()       {}

func reduce(s State, a Action) State {
	switch action := a.(type) {
	case Pending:
		s.Loading = true
		s.Err = ""
	case Rejected:
		s.Loading = false
		s.Err = action.Message
	case AssessmentsFetched:
		s.Loading = false
		s.Assessments = action.Assessments
	case AssessmentCreated:
		s.Loading = false
		list := make([]*skillgate.Assessment, 0, len(s.Assessments)+1)
		list = append(list, s.Assessments...)
		s.Assessments = append(list, action.Assessment)
	case Started:
		s.Loading = false
		s.Current = action.Result.Assessment
	case ProgressFetched:
		s.Loading = false
		s.Progress = action.Progress
	case AnswerSubmitted:
		s.Loading = false
	case Completed:
		s.Loading = false
		s.Result = action.Result
	case ClearError:
		s.Err = ""
	case ClearCurrent:
		s.Current = nil
		s.Progress = nil
		s.Result = nil
	}
	return s
}
