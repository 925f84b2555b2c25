package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skillgate/skillgate/internal/lifecycle"
	"github.com/skillgate/skillgate/internal/precheck"
	"github.com/skillgate/skillgate/internal/skillgate"
	"github.com/skillgate/skillgate/internal/state"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var takeCmd = &cobra.Command{
	Use:   "take <assessment-id>",
	Short: "Take an assessment as a candidate: eligibility check, questions, final grading",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		take(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(takeCmd)

	takeCmd.Flags().StringP("resume", "r", "", "path to a plain-text resume; sent as text after local prechecks")
	takeCmd.Flags().StringP("upload", "u", "", "path to a resume file (e.g. pdf); uploaded for the backend to parse")
	takeCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before starting")
}

// take drives the whole candidate flow. One lifecycle operation is in flight
// at a time; the backend decides eligibility, question order, and completion.
func take(cmd *cobra.Command, rawID string) {
	ctx := context.Background()

	log, client, _, sess := mustEnvironment(ctx)

	if !sess.IsAuthenticated() {
		log.Fatal("not logged in", zap.String("hint", "run 'skillgate login' first"))
	}

	id := mustAssessmentID(log, rawID)

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	store := state.NewStore()
	ops := lifecycle.New(client, store, log)

	assessment, err := client.GetPublicAssessment(id)
	if err != nil {
		log.Fatal("fetching assessment", zap.Error(err))
	}

	fmt.Printf("%s\n", assessment.Title)
	if assessment.Description != "" {
		fmt.Printf("%s\n", assessment.Description)
	}
	fmt.Printf("required skills: %s, threshold: %d%%\n",
		strings.Join(assessment.RequiredSkills, ", "), assessment.ThresholdPercentage)

	if cmd.Flag("auto-approve").Value.String() == "false" {
		if !confirm("Start this assessment?") {
			log.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	result := startWithResume(ctx, cmd, log, config, ops, assessment)

	if !result.Eligible {
		fmt.Printf("not eligible: %s\n", result.Message)
		if percent, ok := result.MatchPercent(); ok {
			fmt.Printf("skill match: %.1f%% (needed %d%%)\n", percent, assessment.ThresholdPercentage)
		}
		if missing := result.MissingSkills(); len(missing) > 0 {
			fmt.Printf("missing skills: %s\n", strings.Join(missing, ", "))
		}
		return
	}

	log.Info("assessment started",
		zap.Int("assessment_id", id),
		zap.Int("total_questions", result.TotalQuestions),
	)

	answerLoop(log, ops, id)

	finalResult, err := ops.CompleteAssessment(id)
	if err != nil {
		log.Fatal("completing assessment", zap.String("reason", store.Snapshot().Err))
	}

	fmt.Printf("overall score: %.1f\n", finalResult.OverallScore)
	if finalResult.IsPassed {
		fmt.Println("result: passed")
	} else {
		fmt.Println("result: not passed")
	}
	if finalResult.Recommendations != "" {
		fmt.Printf("recommendations: %s\n", finalResult.Recommendations)
	}
}

// startWithResume reads the resume, runs prechecks for the text path, and
// invokes the start operation in whichever mode the flags selected.
func startWithResume(ctx context.Context, cmd *cobra.Command, log *zap.Logger, config *Config, ops *lifecycle.Operations, assessment *skillgate.Assessment) *skillgate.StartResult {
	resumePath := cmd.Flag("resume").Value.String()
	uploadPath := cmd.Flag("upload").Value.String()

	if (resumePath == "") == (uploadPath == "") {
		log.Fatal("exactly one of --resume and --upload is required")
	}

	if uploadPath != "" {
		file, err := os.Open(uploadPath)
		if err != nil {
			log.Fatal("opening resume file", zap.Error(err))
		}
		defer file.Close()

		result, err := ops.StartAssessmentFromFile(assessment.ID, filepath.Base(uploadPath), file)
		if err != nil {
			log.Fatal("starting assessment", zap.Error(err))
		}
		return result
	}

	data, err := os.ReadFile(resumePath)
	if err != nil {
		log.Fatal("reading resume file", zap.Error(err))
	}
	resumeText := string(data)

	runPrechecks(ctx, log, config, assessment, resumeText)

	result, err := ops.StartAssessment(assessment.ID, resumeText)
	if err != nil {
		log.Fatal("starting assessment", zap.Error(err))
	}
	return result
}

func runPrechecks(ctx context.Context, log *zap.Logger, config *Config, assessment *skillgate.Assessment, resumeText string) {
	var aiConfig *AIConfig
	if config != nil {
		aiConfig = config.AI
	}

	matcher, err := newAIMatcher(ctx, aiConfig, log)
	if err != nil {
		log.Warn("skipping ai precheck", zap.Error(err))
	}

	checks := []precheck.Check{
		precheck.NewBasics(),
		precheck.NewEstimate(matcher),
	}

	findings, err := precheck.Run(ctx, log, checks, &precheck.Resume{
		Text:       resumeText,
		Assessment: assessment,
	})
	if err != nil {
		log.Fatal("resume precheck failed", zap.Error(err))
	}

	for _, finding := range findings {
		if finding.OK || finding.Blocking {
			continue
		}
		// Advisory miss: warn and let the candidate decide. The backend is
		// the authority either way.
		fmt.Printf("warning (%s): %s\n", finding.Check, finding.Detail)
		if !confirm("Submit the resume anyway?") {
			log.Info("exiting", zap.String("reason", "got no from prompt"))
			os.Exit(0)
		}
	}
}

// answerLoop shows the backend's current question, collects an answer, and
// submits it until every question is answered. The next question always comes
// from the progress snapshot, never from local bookkeeping.
func answerLoop(log *zap.Logger, ops *lifecycle.Operations, id int) {
	for {
		progress, err := ops.FetchProgress(id)
		if err != nil {
			log.Fatal("fetching progress", zap.Error(err))
		}

		if progress.CurrentQuestion == nil {
			if progress.AnsweredQuestions < progress.TotalQuestions {
				log.Fatal("backend returned no current question with unanswered questions remaining",
					zap.Int("answered", progress.AnsweredQuestions),
					zap.Int("total", progress.TotalQuestions),
				)
			}
			return
		}

		question := progress.CurrentQuestion
		fmt.Printf("\n[%d/%d] %s (%s)\n%s\n",
			progress.AnsweredQuestions+1, progress.TotalQuestions,
			question.Skill, question.Difficulty, question.QuestionText)

		started := time.Now()
		answer, err := promptAnswer(question)
		if err != nil {
			log.Fatal("reading answer", zap.Error(err))
		}
		spent := int(time.Since(started).Seconds())

		graded, err := ops.SubmitAnswer(question.ID, answer, spent)
		if err != nil {
			log.Fatal("submitting answer", zap.Error(err))
		}

		if graded != nil && graded.AIFeedback != "" {
			fmt.Printf("feedback: %s\n", graded.AIFeedback)
		}
	}
}

func promptAnswer(question *skillgate.Question) (string, error) {
	if options := question.OptionList(); len(options) > 0 {
		prompt := promptui.Select{
			Label: "Choose an answer",
			Items: options,
		}
		_, answer, err := prompt.Run()
		return answer, err
	}

	prompt := promptui.Prompt{
		Label: "Answer",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("answer must not be empty")
			}
			return nil
		},
	}
	return prompt.Run()
}

func confirm(label string) bool {
	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}
	_, action, err := prompt.Run()
	if err != nil {
		return false
	}
	return action == PromptYes
}
