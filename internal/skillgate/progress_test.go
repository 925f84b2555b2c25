package skillgate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"testing"
)

func TestStartAssessmentEligible(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding start payload: %v", err)
		}
		if payload["resume_text"] == "" {
			t.Fatalf("expected resume_text in payload")
		}

		fmt.Fprint(w, `{
			"eligible": true,
			"eligibility_data": {"eligible": true, "match_percent": 100.0, "found_skills": 3, "total_skills": 3, "matched_skills": ["Python", "SQL", "Flask"], "missing_skills": []},
			"message": "Assessment started successfully",
			"assessment": {"id": 5, "status": "active", "candidate_id": 11, "started_at": "2026-08-30T10:00:00"},
			"total_questions": 9
		}`)
	}))

	result, err := client.StartAssessment(5, "Python SQL Flask developer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Eligible {
		t.Fatalf("expected eligible result")
	}
	if result.Assessment.Status != StatusActive {
		t.Fatalf("expected assessment to leave draft, got %q", result.Assessment.Status)
	}
	if result.TotalQuestions != 9 {
		t.Fatalf("expected 9 questions, got %d", result.TotalQuestions)
	}

	percent, ok := result.MatchPercent()
	if !ok || percent != 100.0 {
		t.Fatalf("expected match percent 100, got %v (ok=%v)", percent, ok)
	}
	if missing := result.MissingSkills(); len(missing) != 0 {
		t.Fatalf("expected no missing skills, got %v", missing)
	}
}

func TestStartAssessmentIneligibleIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"eligible": false,
			"eligibility_data": {"eligible": false, "match_percent": 66.67, "found_skills": 2, "total_skills": 3, "matched_skills": ["Python", "SQL"], "missing_skills": ["Flask"]},
			"message": "You do not meet the minimum skill requirements for this assessment"
		}`)
	}))

	result, err := client.StartAssessment(5, "Python and SQL only")
	if err != nil {
		t.Fatalf("ineligibility must not be an error, got %v", err)
	}

	if result.Eligible {
		t.Fatalf("expected ineligible result")
	}
	if result.Assessment != nil {
		t.Fatalf("expected no assessment payload for ineligible candidate")
	}

	percent, ok := result.MatchPercent()
	if !ok || percent != 66.67 {
		t.Fatalf("expected match percent 66.67, got %v", percent)
	}
	if got := result.MissingSkills(); !reflect.DeepEqual(got, []string{"Flask"}) {
		t.Fatalf("expected missing Flask, got %v", got)
	}
}

func TestGetProgress(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"assessment": {"id": 5, "status": "active"},
			"total_questions": 9,
			"answered_questions": 4,
			"current_question": {"id": 42, "assessment_id": 5, "skill": "SQL", "question_text": "Explain indexes.", "question_type": "text", "order_index": 4},
			"progress_percentage": 44.4
		}`)
	}))

	progress, err := client.GetProgress(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if progress.AnsweredQuestions != 4 || progress.TotalQuestions != 9 {
		t.Fatalf("unexpected counts: %+v", progress)
	}
	if progress.AnsweredQuestions > progress.TotalQuestions {
		t.Fatalf("answered must never exceed total")
	}
	if progress.CurrentQuestion == nil || progress.CurrentQuestion.ID != 42 {
		t.Fatalf("unexpected current question: %+v", progress.CurrentQuestion)
	}
}

func TestSubmitAnswer(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding answer payload: %v", err)
		}
		if payload["answer_text"] != "B-tree lookups" {
			t.Fatalf("unexpected answer payload: %v", payload)
		}
		if payload["time_spent_seconds"] != float64(30) {
			t.Fatalf("expected time spent 30, got %v", payload["time_spent_seconds"])
		}

		fmt.Fprint(w, `{
			"message": "Answer submitted successfully",
			"answer": {"id": 1, "question_id": 42, "assessment_id": 5, "answer_text": "B-tree lookups", "ai_score": 7.5, "ai_feedback": "Mostly right.", "time_spent_seconds": 30}
		}`)
	}))

	answer, err := client.SubmitAnswer(42, "B-tree lookups", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if answer.AIScore != 7.5 {
		t.Fatalf("expected score 7.5, got %v", answer.AIScore)
	}
	if answer.AIFeedback != "Mostly right." {
		t.Fatalf("unexpected feedback: %q", answer.AIFeedback)
	}
}

func TestSubmitAnswerOmitsUnmeasuredTime(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if _, ok := payload["time_spent_seconds"]; ok {
			t.Fatalf("expected time_spent_seconds to be omitted")
		}
		fmt.Fprint(w, `{"answer": {"id": 2}}`)
	}))

	if _, err := client.SubmitAnswer(42, "answer", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompleteAssessment(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"message": "Assessment completed successfully",
			"result": {"id": 1, "assessment_id": 5, "overall_score": 8.2, "skill_scores": {"Python": 9.0, "SQL": 7.4}, "is_passed": true, "total_questions": 9}
		}`)
	}))

	result, err := client.CompleteAssessment(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsPassed || result.OverallScore != 8.2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.SkillScores["Python"] != 9.0 {
		t.Fatalf("unexpected skill scores: %v", result.SkillScores)
	}
}

func TestQuestionOptionList(t *testing.T) {
	question := &Question{Options: json.RawMessage(`["a", "b", "c"]`)}
	if got := question.OptionList(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected options: %v", got)
	}

	empty := &Question{}
	if got := empty.OptionList(); len(got) != 0 {
		t.Fatalf("expected no options, got %v", got)
	}
}
