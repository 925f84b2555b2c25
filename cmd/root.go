package cmd

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/skillgate/skillgate/internal/ai"
	"github.com/skillgate/skillgate/internal/ai/gemini"
	"github.com/skillgate/skillgate/internal/secrets"
	"github.com/skillgate/skillgate/internal/session"
	"github.com/skillgate/skillgate/internal/skillgate"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "skillgate"
)

type Config struct {
	APIURL      string    `mapstructure:"api-url"`
	UserAgent   string    `mapstructure:"user-agent"`
	SessionFile string    `mapstructure:"session-file"`
	AI          *AIConfig `mapstructure:"ai"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillgate is a cli client for the skillgate assessment platform, for recruiters and candidates alike",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("session-file", "SKILLGATE_SESSION_FILE"); err != nil {
		log.Fatalf("binding SKILLGATE_SESSION_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("api-url", "SKILLGATE_API_URL"); err != nil {
		log.Fatalf("binding SKILLGATE_API_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillgate.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional: every command works from flags and
	// defaults. A present but unparseable file is still fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// newEnvironment wires the pieces every command needs: the session store, the
// loaded session, and the API client with its unauthorized hook pointed at
// the store. The hook is the only path that clears credentials involuntarily.
func newEnvironment(ctx context.Context, logger *zap.Logger, config *Config) (*skillgate.Client, *session.Store, *session.Session, error) {
	sessionPath := strings.TrimSpace(config.SessionFile)
	if sessionPath == "" {
		var err error
		sessionPath, err = session.DefaultPath()
		if err != nil {
			return nil, nil, nil, err
		}
	}

	store := session.NewStore(sessionPath)
	sess, err := store.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	client := skillgate.New(ctx, logger, sess.Token)
	if config.APIURL != "" {
		client.APIURL = strings.TrimRight(config.APIURL, "/")
	}
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	client.OnUnauthorized(func() {
		if err := store.Clear(); err != nil {
			logger.Warn("clearing stored session", zap.Error(err))
			return
		}
		logger.Warn("session expired, credentials cleared",
			zap.String("hint", "run 'skillgate login' to authenticate again"),
		)
	})

	return client, store, sess, nil
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Matcher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, errors.New("unsupported ai provider: " + cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai precheck is enabled")
	}

	apiKey, err := secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	}.Load()
	if err != nil {
		return nil, err
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewMatcher(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}
