package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagehealth/vocalis/pkg/audio"
	"github.com/sagehealth/vocalis/pkg/storage"
	"github.com/sagehealth/vocalis/pkg/vocal"
)

var (
	analyzeTask      string
	analyzeRecording string
	analyzeStore     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <wav-file>",
	Short: "Run voice-biomarker extraction on a WAV recording",
	Long: `Analyze a WAV recording and print the extracted feature record.

The recording is downmixed to mono, resampled to the target rate, and
checked against the quality gate before the extractors registered for
the task type run. A gate rejection is reported as an error; extractor
failures surface inside the record as error fields with all features
zero-filled.

With --store the argument is a blob path inside a recording store root
instead of a local file. With --db and --recording the result is also
persisted as an insight.

Examples:
  vocalis analyze sample.wav
  vocalis analyze --task reading --format json sample.wav
  vocalis analyze --store /var/recordings recordings/rec-42.wav
  vocalis analyze --db ./insights --recording rec-42 sample.wav`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}

		f, err := openRecording(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		channels, rate, err := audio.ReadWAV(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		buf, err := audio.Precondition(channels, rate, cfg.Audio.TargetSampleRate)
		if err != nil {
			return fmt.Errorf("precondition %s: %w", args[0], err)
		}

		gate := audio.QualityGate{
			MinDuration: cfg.Audio.MinDurationSeconds,
			MaxDuration: cfg.Audio.MaxDurationSeconds,
			MinRMS:      cfg.QualityGate.MinRMSThreshold,
		}
		if ok, reason := gate.Check(buf); !ok {
			return fmt.Errorf("recording rejected: %s", reason)
		}

		ext := vocal.NewVocalAnalysisExtractor(cfg, vocal.VocalAnalysisOptions{})
		registry := vocal.NewRegistry(ext)
		registry.Register(vocal.TaskSustainedVowel, ext)
		pipeline := vocal.NewPipeline(registry, nil)

		rec := pipeline.Run(cmd.Context(), buf, vocal.TaskType(analyzeTask))

		if dbDir != "" {
			if analyzeRecording == "" {
				return fmt.Errorf("flag --recording is required with --db")
			}
			insights, closeStore, err := openInsights()
			if err != nil {
				return err
			}
			defer closeStore()

			ins, err := insights.Save(cmd.Context(), analyzeRecording, rec)
			if err != nil {
				return err
			}
			return printResult(ins)
		}

		return printResult(rec)
	},
}

// openRecording resolves the analyze argument to a readable stream,
// either a plain local file or a path inside the --store blob root.
func openRecording(ctx context.Context, path string) (io.ReadCloser, error) {
	if analyzeStore == "" {
		return os.Open(path)
	}
	store, err := storage.NewLocal(analyzeStore)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, path)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTask, "task", string(vocal.TaskSustainedVowel), "recording task type")
	analyzeCmd.Flags().StringVar(&analyzeStore, "store", "", "recording store root directory")
	analyzeCmd.Flags().StringVar(&analyzeRecording, "recording", "", "recording id to store the insight under")
	analyzeCmd.Flags().StringVar(&dbDir, "db", "", "insight store directory")
	rootCmd.AddCommand(analyzeCmd)
}
