package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/application"
	"github.com/applyforge/applyforge/internal/letter"
	"github.com/applyforge/applyforge/internal/logger"
	"github.com/applyforge/applyforge/internal/prompt"
)

const (
	PromptRefine   = "Refine with an instruction"
	PromptShorten  = "Shorten"
	PromptExtend   = "Extend"
	PromptVersions = "Show versions"
	PromptReset    = "Reset and regenerate"
	PromptExit     = "Exit"
	PromptYes      = "Yes"
	PromptNo       = "No"
	PromptBack     = "back"
)

var errExit = errors.New("exit requested")

var letterPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptRefine, PromptShorten, PromptExtend, PromptVersions, PromptReset, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a cover letter and refine it interactively",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("captcha-token", "", "token to present to the bot-verification service, if enabled")
}

// run is the cover letter command of the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the applyforge", zap.String("version", version))

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

	verifier, err := newVerifier(config, logger)
	if err != nil {
		logger.Fatal("building the captcha verifier", zap.Error(err))
	}

	session := letter.NewSession(&letter.Deps{
		Generator: gen,
		Verifier:  verifier,
		Logger:    logger,
	}, config.maxAttempts())

	captchaToken := cmd.Flag("captcha-token").Value.String()

	initial, err := session.Create(ctx, job, applicant, captchaToken)
	if err != nil {
		logger.Fatal("generating the cover letter", zap.Error(err))
	}
	printVersion(initial)

	for {
		_, action, err := letterPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleLetterAction(ctx, action, session, job, applicant, captchaToken, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Warn("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func handleLetterAction(ctx context.Context, action string, session *letter.Session, job application.Job, applicant application.Applicant, captchaToken string, logger *zap.Logger) error {
	switch action {
	case PromptShorten:
		return refine(ctx, session, job, applicant, prompt.Shorten{})
	case PromptExtend:
		return refine(ctx, session, job, applicant, prompt.Extend{})
	case PromptRefine:
		instruction, err := askInstruction()
		if err != nil {
			return err
		}
		return refine(ctx, session, job, applicant, prompt.FreeInput{Instruction: instruction})
	case PromptVersions:
		return selectVersion(session)
	case PromptReset:
		confirmed, err := confirmReset()
		if err != nil || !confirmed {
			return err
		}
		session.Reset()
		v, err := session.Create(ctx, job, applicant, captchaToken)
		if err != nil {
			return err
		}
		printVersion(v)
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func refine(ctx context.Context, session *letter.Session, job application.Job, applicant application.Applicant, op prompt.RefineOp) error {
	v, err := session.Refine(ctx, job, applicant, op)
	if err != nil {
		return err
	}
	printVersion(v)
	return nil
}

func askInstruction() (string, error) {
	instructionPrompt := promptui.Prompt{
		Label: "Refinement instruction",
		Validate: func(input string) error {
			return prompt.FreeInput{Instruction: input}.Validate()
		},
	}
	return instructionPrompt.Run()
}

func selectVersion(session *letter.Session) error {
	versions := session.Versions()
	if len(versions) == 0 {
		return letter.ErrNoCoverLetter
	}

	items := make([]string, 0, len(versions)+1)
	for _, v := range versions {
		items = append(items, fmt.Sprintf("v%d - %s", v.ID, v.Label))
	}

	versionPrompt := promptui.Select{
		Label: "Choose a version and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := versionPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	id, err := strconv.Atoi(strings.TrimPrefix(strings.Split(selected, " ")[0], "v"))
	if err != nil {
		return fmt.Errorf("parsing version selection %q: %w", selected, err)
	}

	v, err := session.Select(id)
	if err != nil {
		return err
	}
	printVersion(v)
	return nil
}

func confirmReset() (bool, error) {
	confirmPrompt := promptui.Select{
		Label: "Discard all versions and start over?",
		Items: []string{PromptYes, PromptNo},
	}
	_, answer, err := confirmPrompt.Run()
	if err != nil {
		return false, err
	}
	return answer == PromptYes, nil
}

func printVersion(v letter.Version) {
	fmt.Printf("\n--- Cover letter v%d (%s) ---\n\n%s\n\n", v.ID, v.Label, v.Text)
}
