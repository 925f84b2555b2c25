package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/skillgate/skillgate/internal/lifecycle"
	"github.com/skillgate/skillgate/internal/skillgate"
	"github.com/skillgate/skillgate/internal/state"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var assessmentsCmd = &cobra.Command{
	Use:   "assessments",
	Short: "Recruiter commands for managing assessments",
}

var assessmentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an assessment with required skills and an eligibility threshold",
	Run: func(cmd *cobra.Command, _ []string) {
		createAssessment(cmd)
	},
}

var assessmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assessments created by the logged-in recruiter",
	Run: func(cmd *cobra.Command, _ []string) {
		listAssessments(cmd)
	},
}

var assessmentsShowCmd = &cobra.Command{
	Use:   "show <assessment-id>",
	Short: "Show one assessment with its result, when graded",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showAssessment(cmd, args[0])
	},
}

var assessmentsCandidatesCmd = &cobra.Command{
	Use:   "candidates <assessment-id>",
	Short: "List candidates who have taken an assessment, with their results",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		listCandidates(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(assessmentsCmd)
	assessmentsCmd.AddCommand(assessmentsCreateCmd, assessmentsListCmd, assessmentsShowCmd, assessmentsCandidatesCmd)

	assessmentsCreateCmd.Flags().StringP("title", "t", "", "assessment title")
	assessmentsCreateCmd.Flags().String("description", "", "assessment description")
	assessmentsCreateCmd.Flags().StringP("skills", "s", "", "required skills as comma-separated text, e.g. \"Python,SQL,Flask\"")
	assessmentsCreateCmd.Flags().Int("threshold", 70, "minimum skill match percentage a candidate needs")
}

func createAssessment(cmd *cobra.Command) {
	ctx := context.Background()

	log, client, _, sess := mustEnvironment(ctx)
	requireRole(log, sess.CurrentUser(), skillgate.RoleRecruiter)

	threshold, err := strconv.Atoi(cmd.Flag("threshold").Value.String())
	if err != nil {
		log.Fatal("parsing threshold", zap.Error(err))
	}

	store := state.NewStore()
	ops := lifecycle.New(client, store, log)

	assessment, err := ops.CreateAssessment(&skillgate.CreateAssessmentParams{
		Title:               cmd.Flag("title").Value.String(),
		Description:         cmd.Flag("description").Value.String(),
		RequiredSkills:      cmd.Flag("skills").Value.String(),
		ThresholdPercentage: threshold,
	})
	if err != nil {
		log.Fatal("creating assessment", zap.String("reason", store.Snapshot().Err))
	}

	fmt.Printf("created assessment %d: share link path /api/assessment/public/%d\n", assessment.ID, assessment.ID)
}

func listAssessments(_ *cobra.Command) {
	ctx := context.Background()

	log, client, _, sess := mustEnvironment(ctx)
	requireRole(log, sess.CurrentUser(), skillgate.RoleRecruiter)

	store := state.NewStore()
	ops := lifecycle.New(client, store, log)

	if _, err := ops.FetchAssessments(); err != nil {
		log.Fatal("fetching assessments", zap.String("reason", store.Snapshot().Err))
	}

	assessments := store.Snapshot().Assessments
	if len(assessments) == 0 {
		log.Info("no assessments yet")
		return
	}

	for _, a := range assessments {
		fmt.Printf("%d\t%s\t%s\tthreshold %d%%\tskills: %v\n",
			a.ID, a.Status, a.Title, a.ThresholdPercentage, a.RequiredSkills)
	}
}

func showAssessment(_ *cobra.Command, rawID string) {
	ctx := context.Background()

	log, client, _, sess := mustEnvironment(ctx)
	requireRole(log, sess.CurrentUser(), skillgate.RoleRecruiter)

	id := mustAssessmentID(log, rawID)

	details, err := client.GetAssessmentDetails(id)
	if err != nil {
		log.Fatal("fetching assessment details", zap.Error(err))
	}

	printJSON(details)
}

func listCandidates(_ *cobra.Command, rawID string) {
	ctx := context.Background()

	log, client, _, sess := mustEnvironment(ctx)
	requireRole(log, sess.CurrentUser(), skillgate.RoleRecruiter)

	id := mustAssessmentID(log, rawID)

	reports, err := client.GetAssessmentCandidates(id)
	if err != nil {
		log.Fatal("fetching candidates", zap.Error(err))
	}

	if len(reports) == 0 {
		log.Info("no candidates yet", zap.Int("assessment_id", id))
		return
	}

	for _, report := range reports {
		if report.Result == nil {
			fmt.Printf("%s %s <%s>\tin progress\n",
				report.Candidate.FirstName, report.Candidate.LastName, report.Candidate.Email)
			continue
		}

		verdict := "failed"
		if report.Result.IsPassed {
			verdict = "passed"
		}
		fmt.Printf("%s %s <%s>\tscore %.1f\t%s\n",
			report.Candidate.FirstName, report.Candidate.LastName, report.Candidate.Email,
			report.Result.OverallScore, verdict)
	}
}

// requireRole enforces the precondition locally so role mistakes fail with a
// clear message instead of a backend 403.
func requireRole(log *zap.Logger, user *skillgate.User, role string) {
	if user == nil {
		log.Fatal("not logged in", zap.String("hint", "run 'skillgate login' first"))
	}
	if user.Role != role {
		log.Fatal("command requires a different role",
			zap.String("required", role),
			zap.String("current", user.Role),
		)
	}
}

func mustAssessmentID(log *zap.Logger, raw string) int {
	id, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatal("assessment id must be a number", zap.String("got", raw))
	}
	return id
}

func printJSON(v any) {
	pretty, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(pretty))
}
