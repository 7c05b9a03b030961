package cmd

import (
	"log"

	"github.com/campuskit/campus-insight/internal/scoring"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "campus-insight"
)

type Config struct {
	Data    *DataConfig            `mapstructure:"data"`
	Weights *scoring.HealthWeights `mapstructure:"weights"`
	Filters *FiltersConfig         `mapstructure:"filters"`
	AI      *AIConfig              `mapstructure:"ai"`
}

type DataConfig struct {
	Students      string `mapstructure:"students"`
	Opportunities string `mapstructure:"opportunities"`
}

type FiltersConfig struct {
	Band     string `mapstructure:"band"`
	MinScore int    `mapstructure:"min-score"`
	// MaxGaps is a pointer so an explicit zero (no gaps allowed) can be
	// told apart from an absent setting.
	MaxGaps *int `mapstructure:"max-gaps"`
}

type AIConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Provider          string        `mapstructure:"provider"`
	MinimumConfidence float64       `mapstructure:"minimum-confidence"`
	Gemini            *GeminiConfig `mapstructure:"gemini"`
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
		Short: "campus-insight is a cli for assessing academic health and matching students to campus opportunities",
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

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is campus-insight.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the health and match commands. If
	// neither was called, initialization can be skipped.
	if healthCmd.CalledAs() == "" && matchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// healthWeights returns the configured weights, falling back to the
// documented defaults when the config omits them.
func (c *Config) healthWeights() scoring.HealthWeights {
	if c == nil || c.Weights == nil {
		return scoring.DefaultHealthWeights()
	}
	return *c.Weights
}
