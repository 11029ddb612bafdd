package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/interview"
	"github.com/applyforge/applyforge/internal/logger"
	"github.com/applyforge/applyforge/internal/quota"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Practice a multiple-choice knowledge test for the configured job",
	Run: func(_ *cobra.Command, _ []string) {
		runTest()
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}

// runTest drives one full test session: up to the question cap, each
// question answered once and explained.
func runTest() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the applyforge test", zap.String("version", version))

	job, err := validateJob(config)
	if err != nil {
		logger.Fatal("validating the config", zap.Error(err))
	}

	registry, err := seedRegistry(config, logger)
	if err != nil {
		logger.Fatal("loading applicants", zap.Error(err))
	}

	applicant, err := mainApplicant(registry)
	if err != nil {
		logger.Fatal("resolving the main applicant", zap.Error(err))
	}

	gen, err := newGenerator(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the generator", zap.Error(err))
	}

	session := interview.NewSession(&interview.Deps{
		Generator: gen,
		Logger:    logger,
	}, config.maxAttempts())

	for {
		question, err := session.NextQuestion(ctx, job, applicant)
		if errors.Is(err, quota.ErrQuotaExceeded) {
			break
		}
		if err != nil {
			logger.Fatal("getting the next question", zap.Error(err))
		}

		fmt.Printf("\nQuestion %d of %d: %s\n\n", question.ID, quota.MaxTestQuestions, question.Text)

		answerPrompt := promptui.Select{
			Label: "Choose an answer and press ENTER",
			Items: question.Answers,
		}

		index, _, err := answerPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		explanation, err := session.Answer(ctx, job, applicant, question.ID, index)
		if err != nil {
			logger.Warn("explaining the answer failed", zap.Int("question_id", question.ID), zap.Error(err))
			continue
		}

		answered, _ := session.Question(question.ID)
		if answered.Correct() {
			fmt.Printf("\nCorrect!\n\n%s\n", explanation)
		} else {
			fmt.Printf("\nNot quite. The correct answer was: %s\n\n%s\n", answered.Answers[answered.CorrectAnswer], explanation)
		}
	}

	printTestSummary(session)
}

func printTestSummary(session *interview.Session) {
	questions := session.Questions()
	correct := 0
	for _, q := range questions {
		if q.Correct() {
			correct++
		}
	}
	fmt.Printf("\nYou have completed the test! Score: %d/%d\n", correct, len(questions))
}
