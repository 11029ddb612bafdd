package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/logger"
	"github.com/applyforge/applyforge/internal/resume"
)

var parseCmd = &cobra.Command{
	Use:   "parse <resume-file>",
	Short: "Extract structured applicant details from a plain text resume",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runParse(args[0])
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(path string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading the resume file", zap.String("path", path), zap.Error(err))
	}

	gen, err := newGenerator(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the generator", zap.Error(err))
	}

	parser := resume.NewParser(gen, logger, config.maxAttempts())

	applicant, err := parser.Parse(ctx, string(data))
	if err != nil {
		logger.Fatal("parsing the resume", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(applicant, "", "  ")
	if err != nil {
		logger.Fatal("rendering the applicant", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
