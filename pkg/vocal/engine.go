package vocal

import (
	"errors"
	"fmt"
	"os"

	"github.com/sagehealth/vocalis/pkg/audio"
	"github.com/sagehealth/vocalis/pkg/vocal/praat"
)

// ErrEngineUnavailable is returned by an Engine whose acoustic backend
// is not present at runtime. The extractor maps it to a zero-filled
// FeatureSet with ErrKindLibraryUnavailable instead of failing the
// pipeline.
var ErrEngineUnavailable = errors.New("vocal: analysis engine unavailable")

// Engine is the acoustic analysis backend behind VocalAnalysisExtractor.
//
// The engine consumes file-backed input: the extractor writes the
// buffer to a scratch WAV, the engine loads it back. This mirrors how
// external acoustic toolkits operate and keeps the analysis input
// byte-identical to what a file-based engine would see.
type Engine interface {
	// Load reads a scratch WAV file into a mono buffer.
	Load(path string) (audio.Buffer, error)

	// TrackPitch produces the F0 track for the waveform.
	TrackPitch(buf audio.Buffer, cfg praat.PitchConfig) (praat.Pitch, error)

	// PointProcess detects glottal pulse instants from the waveform and
	// its pitch track.
	PointProcess(buf audio.Buffer, pitch praat.Pitch) (praat.PointProcess, error)

	// Harmonicity computes the HNR contour.
	Harmonicity(buf audio.Buffer, timeStep, minPitch float64) ([]float64, error)
}

// PraatEngine is the built-in pure Go engine implementing the classical
// Praat algorithms (package praat).
type PraatEngine struct{}

func (PraatEngine) Load(path string) (audio.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("vocal: load scratch audio: %w", err)
	}
	defer f.Close()

	channels, rate, err := audio.ReadWAV(f)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("vocal: decode scratch audio: %w", err)
	}
	buf := audio.Buffer{Samples: audio.ToMono(channels), Rate: rate}
	if err := buf.Valid(); err != nil {
		return audio.Buffer{}, err
	}
	return buf, nil
}

func (PraatEngine) TrackPitch(buf audio.Buffer, cfg praat.PitchConfig) (praat.Pitch, error) {
	return praat.TrackPitch(buf.Samples, buf.Rate, cfg), nil
}

func (PraatEngine) PointProcess(buf audio.Buffer, pitch praat.Pitch) (praat.PointProcess, error) {
	return praat.ToPointProcess(buf.Samples, buf.Rate, pitch), nil
}

func (PraatEngine) Harmonicity(buf audio.Buffer, timeStep, minPitch float64) ([]float64, error) {
	return praat.Harmonicity(buf.Samples, buf.Rate, timeStep, minPitch), nil
}
