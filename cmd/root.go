package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "eatwhat"
)

type Config struct {
	Server *ServerConfig `mapstructure:"server"`
	AI     *AIConfig     `mapstructure:"ai"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	AnalysisDelay  time.Duration `mapstructure:"analysis-delay"`
	CandidateDelay time.Duration `mapstructure:"candidate-delay"`
}

type AIConfig struct {
	Provider     string           `mapstructure:"provider"`
	MaxLogLength int              `mapstructure:"max-log-length"`
	DashScope    *DashScopeConfig `mapstructure:"dashscope"`
	Gemini       *GeminiConfig    `mapstructure:"gemini"`
}

type DashScopeConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	AppID      string `mapstructure:"app-id"`
	BaseURL    string `mapstructure:"base-url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api-key"`
	Model  string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "eatwhat recommends meeting venues for two people via a generative model",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env file is optional; environment wins over config file values.
	_ = godotenv.Load()

	for key, env := range map[string]string{
		"ai.dashscope.api-key":      "DASHSCOPE_API_KEY",
		"ai.dashscope.api-key-file": "DASHSCOPE_API_KEY_FILE",
		"ai.dashscope.app-id":       "DASHSCOPE_APP_ID",
		"ai.gemini.api-key":         "GEMINI_API_KEY",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is eatwhat.yaml in current directory)")
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

	// Credentials may come entirely from the environment, so a missing
	// config file is fine; a broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config Config

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, err
	}

	return &config, nil
}
