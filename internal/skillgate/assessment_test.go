package skillgate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"testing"
)

func TestSplitSkills(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"Python,SQL,Flask", []string{"Python", "SQL", "Flask"}},
		{" Python , SQL ,Flask ", []string{"Python", "SQL", "Flask"}},
		{"Go,,C++,", []string{"Go", "C++"}},
		{"", nil},
		{" , ", nil},
	}

	for _, tc := range cases {
		got := SplitSkills(tc.raw)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SplitSkills(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestCreateAssessmentParamsValidate(t *testing.T) {
	valid := &CreateAssessmentParams{
		Title:               "Backend Engineer",
		RequiredSkills:      "Python,SQL",
		ThresholdPercentage: 70,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		params CreateAssessmentParams
	}{
		{"empty title", CreateAssessmentParams{RequiredSkills: "Go", ThresholdPercentage: 70}},
		{"no skills", CreateAssessmentParams{Title: "x", RequiredSkills: " , ", ThresholdPercentage: 70}},
		{"threshold below range", CreateAssessmentParams{Title: "x", RequiredSkills: "Go", ThresholdPercentage: -5}},
		{"threshold above range", CreateAssessmentParams{Title: "x", RequiredSkills: "Go", ThresholdPercentage: 105}},
	}

	for _, tc := range cases {
		if err := tc.params.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}

	// The domain allows the whole [0,100] range, not just the UI's steps.
	edges := []int{0, 100}
	for _, threshold := range edges {
		params := &CreateAssessmentParams{Title: "x", RequiredSkills: "Go", ThresholdPercentage: threshold}
		if err := params.Validate(); err != nil {
			t.Fatalf("threshold %d should be valid: %v", threshold, err)
		}
	}
}

func TestCreateAssessmentRoundTrip(t *testing.T) {
	// The fake backend stores what create sends and hands it back from the
	// details endpoint, like the real one does.
	var stored *Assessment

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/recruiter/assessments", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Title               string   `json:"title"`
			RequiredSkills      []string `json:"required_skills"`
			ThresholdPercentage int      `json:"threshold_percentage"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding create payload: %v", err)
		}

		stored = &Assessment{
			ID:                  7,
			Title:               payload.Title,
			RequiredSkills:      payload.RequiredSkills,
			ThresholdPercentage: payload.ThresholdPercentage,
			Status:              StatusDraft,
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"assessment": stored})
	})
	mux.HandleFunc("GET /api/recruiter/assessments/7", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"assessment": stored, "result": nil})
	})

	client, _ := newTestClient(t, mux)

	created, err := client.CreateAssessment(&CreateAssessmentParams{
		Title:               "Backend Engineer",
		RequiredSkills:      "Python, SQL, Flask",
		ThresholdPercentage: 70,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Status != StatusDraft {
		t.Fatalf("expected new assessment in draft, got %q", created.Status)
	}

	details, err := client.GetAssessmentDetails(created.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}

	want := []string{"Python", "SQL", "Flask"}
	if !reflect.DeepEqual(details.Assessment.RequiredSkills, want) {
		t.Fatalf("required skills round trip: got %v, want %v", details.Assessment.RequiredSkills, want)
	}
	if details.Result != nil {
		t.Fatalf("expected no result for a fresh assessment")
	}
}

func TestGetAssessmentsIdempotent(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"assessments": [
			{"id": 1, "title": "A", "status": "draft"},
			{"id": 2, "title": "B", "status": "active"}
		]}`)
	}))

	first, err := client.GetAssessments()
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := client.GetAssessments()
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical lists, got %+v and %+v", first, second)
	}
	if first.Len() != 2 {
		t.Fatalf("expected 2 assessments, got %d", first.Len())
	}
	if first.FindByID(2).Title != "B" {
		t.Fatalf("FindByID returned wrong assessment")
	}
	if first.FindByID(99) != nil {
		t.Fatalf("expected nil for unknown id")
	}
}

func TestGetAssessmentCandidates(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"assessment": {"id": 3, "title": "A"},
			"candidates": [
				{
					"candidate": {"id": 11, "email": "a@b.c", "first_name": "Ada", "last_name": "L", "role": "candidate"},
					"result": {"overall_score": 8.5, "is_passed": true, "total_questions": 9}
				}
			]
		}`)
	}))

	reports, err := client.GetAssessmentCandidates(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Candidate.Email != "a@b.c" {
		t.Fatalf("unexpected candidate: %+v", reports[0].Candidate)
	}
	if !reports[0].Result.IsPassed || reports[0].Result.OverallScore != 8.5 {
		t.Fatalf("unexpected result: %+v", reports[0].Result)
	}
}
