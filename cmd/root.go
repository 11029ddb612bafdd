package cmd

import (
	"errors"
	"log"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/applyforge/applyforge/internal/application"
	"github.com/applyforge/applyforge/internal/quota"
)

const (
	app = "applyforge"

	defaultMaxRetries = 3
)

type Config struct {
	Job        *application.Job        `mapstructure:"job"`
	Applicants []application.Applicant `mapstructure:"applicants"`
	Account    *AccountConfig          `mapstructure:"account"`
	AI         *AIConfig               `mapstructure:"ai"`
	Captcha    *CaptchaConfig          `mapstructure:"captcha"`
}

type AccountConfig struct {
	Tier quota.Tier `mapstructure:"tier"`
}

type AIConfig struct {
	// Offline selects the deterministic fallback generator instead of a real
	// backend.
	Offline    bool          `mapstructure:"offline"`
	Provider   string        `mapstructure:"provider"`
	MaxRetries int           `mapstructure:"max-retries"`
	Gemini     *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type CaptchaConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SecretFile string `mapstructure:"secret-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "applyforge is a cli for generating and refining job application cover letters and practicing interview tests",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is applyforge.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Local .env files may carry the API keys referenced by the config.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config is tolerated; commands validate what they
		// actually need. An explicitly named config must parse.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		tierDecodeHook(),
	)))
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// tierDecodeHook parses account tier strings into the typed tier so an
// unknown value fails at config load, not at the first quota check.
func tierDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(quota.Tier("")) {
			return data, nil
		}
		return quota.ParseTier(data.(string))
	}
}

func (c *Config) tier() quota.Tier {
	if c.Account == nil || c.Account.Tier == "" {
		return quota.TierFree
	}
	return c.Account.Tier
}

func (c *Config) maxAttempts() int {
	if c.AI != nil && c.AI.MaxRetries > 0 {
		return c.AI.MaxRetries
	}
	return defaultMaxRetries
}
