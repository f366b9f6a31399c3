package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagehealth/vocalis/pkg/config"
)

var (
	// Global flags
	verbose      bool
	configFile   string
	formatOutput string

	// Global configuration (loaded at init time)
	globalConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vocalis",
	Short: "Voice biomarker extraction for vocal health tracking",
	Long: `vocalis - extract acoustic biomarkers from voice recordings.

The analyze command runs the extraction pipeline on a WAV file:
audio is downmixed and resampled, checked against quality thresholds,
and handed to the extractors registered for the recording task. Each
extractor contributes pitch, perturbation and harmonicity measures
plus a composite vocal stability score.

Results can be printed, or persisted as insights in a local store and
retrieved later with 'get' and 'list'.

Examples:
  # Analyze a sustained vowel recording and print the features
  vocalis analyze sample.wav

  # Analyze and persist the result for a recording
  vocalis analyze --db ./insights --recording rec-42 sample.wav

  # List what was stored
  vocalis list --db ./insights rec-42`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "analysis config YAML (defaults apply if unset)")
	rootCmd.PersistentFlags().StringVar(&formatOutput, "format", "yaml", "output format (yaml|json)")
}

// configLoadErr stores the error from config.Load for deferred
// reporting, so commands that never touch the config still run.
var configLoadErr error

func initConfig() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if configFile == "" {
		globalConfig = config.Default()
		return
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

// GetConfig returns the global configuration.
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		globalConfig = config.Default()
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
