package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/account"
	"github.com/applyforge/applyforge/internal/ai"
	"github.com/applyforge/applyforge/internal/ai/fallback"
	"github.com/applyforge/applyforge/internal/ai/gemini"
	"github.com/applyforge/applyforge/internal/application"
	"github.com/applyforge/applyforge/internal/captcha"
	"github.com/applyforge/applyforge/internal/logger"
	"github.com/applyforge/applyforge/internal/quota"
	"github.com/applyforge/applyforge/internal/secrets"
)

// newGenerator builds the configured generation backend: the deterministic
// offline provider, or the Gemini client when a real backend is configured.
func newGenerator(ctx context.Context, config *Config, log *zap.Logger) (ai.Generator, error) {
	if config.AI == nil || config.AI.Offline {
		log.Info("using the offline fallback generator")
		return fallback.New(), nil
	}

	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
	}

	if config.AI.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is not offline")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithCommonFields(log, "gemini", config.AI.Gemini.Model)

	return gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxLogLength, genLogger)
}

// newVerifier builds the bot-verification client when configured, nil
// otherwise.
func newVerifier(config *Config, log *zap.Logger) (captcha.Verifier, error) {
	if config.Captcha == nil || !config.Captcha.Enabled {
		return nil, nil
	}

	secret, err := secrets.Load(secrets.Source{
		Name: "captcha secret",
		File: config.Captcha.SecretFile,
		Env:  "RECAPTCHA_SECRET",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set captcha.secret-file or RECAPTCHA_SECRET)", err)
	}

	return captcha.New(secret, log), nil
}

// seedRegistry loads the configured applicants into an account registry,
// enforcing the tier quota exactly as a persistent store would.
func seedRegistry(config *Config, log *zap.Logger) (*account.Registry, error) {
	registry := account.NewRegistry(quota.NewGate(), config.tier())

	for _, app := range config.Applicants {
		app.ID = ""
		created, err := registry.CreateOrUpdate(app, app.IsMain)
		if err != nil {
			return nil, fmt.Errorf("loading applicant %q: %w", app.FullName(), err)
		}
		log.Debug("applicant loaded",
			zap.String("applicant_id", created.ID),
			zap.Bool("main", created.IsMain),
		)
	}

	return registry, nil
}

// mainApplicant resolves the applicant all generation is based on.
func mainApplicant(registry *account.Registry) (application.Applicant, error) {
	applicant, ok := registry.Main()
	if !ok {
		return application.Applicant{}, errors.New("at least one applicant is required in the configuration")
	}
	return applicant, nil
}

func validateJob(config *Config) (application.Job, error) {
	if config.Job == nil || strings.TrimSpace(config.Job.Title) == "" {
		return application.Job{}, errors.New("a job with at least a title is required in the configuration")
	}
	return *config.Job, nil
}
