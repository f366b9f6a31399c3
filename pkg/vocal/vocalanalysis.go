package vocal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/sagehealth/vocalis/pkg/audio"
	"github.com/sagehealth/vocalis/pkg/config"
	"github.com/sagehealth/vocalis/pkg/vocal/praat"
)

// ExtractorName is the namespace of the sustained-vowel extractor.
const ExtractorName = "vocal_analysis"

const (
	// minAnalysisDuration is the clinical minimum for jitter/shimmer:
	// stricter than the generic quality gate because perturbation
	// measures need sustained phonation.
	minAnalysisDuration = 1.0 // seconds

	// minVoicedFrames is the voiced-frame count that must be exceeded
	// before voice-quality measures are attempted.
	minVoicedFrames = 10
)

// unavailableVoicedRatio is the nominal metadata placeholder reported
// when the engine is missing; it deliberately does not imply a real
// measurement.
const unavailableVoicedRatio = 0.8

var vocalFeatureNames = []string{
	"f0_mean",
	"f0_std",
	"f0_confidence",
	"jitter_local",
	"jitter_absolute",
	"jitter_rap",
	"jitter_ppq5",
	"shimmer_local",
	"shimmer_db",
	"shimmer_apq3",
	"shimmer_apq5",
	"hnr_mean",
	"hnr_std",
	"vocal_stability_score",
}

var qualityFeatureNames = vocalFeatureNames[3:13] // jitter, shimmer, hnr

var perturbationFeatureNames = vocalFeatureNames[3:11] // jitter, shimmer

// VocalAnalysisExtractor derives F0, jitter, shimmer, HNR and the
// composite stability score from a sustained-vowel recording in one
// analysis pass.
type VocalAnalysisExtractor struct {
	params     config.VocalAnalysis
	version    string
	engine     Engine
	scratchDir string
	log        *slog.Logger
}

// VocalAnalysisOptions configures optional collaborators of the
// extractor. The zero value selects the built-in engine, the default
// logger, and the OS temp directory for scratch files.
type VocalAnalysisOptions struct {
	Engine     Engine
	Logger     *slog.Logger
	ScratchDir string
}

// NewVocalAnalysisExtractor creates the sustained-vowel extractor.
// The version string comes from configuration so algorithm revisions
// are visible in stored records.
func NewVocalAnalysisExtractor(cfg *config.Config, opts VocalAnalysisOptions) *VocalAnalysisExtractor {
	engine := opts.Engine
	if engine == nil {
		engine = PraatEngine{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &VocalAnalysisExtractor{
		params:     cfg.VocalAnalysis,
		version:    cfg.Version(ExtractorName),
		engine:     engine,
		scratchDir: opts.ScratchDir,
		log:        log.With("extractor", ExtractorName),
	}
}

// Name implements Extractor.
func (x *VocalAnalysisExtractor) Name() string { return ExtractorName }

// FeatureNames implements Extractor.
func (x *VocalAnalysisExtractor) FeatureNames() []string {
	out := make([]string, len(vocalFeatureNames))
	copy(out, vocalFeatureNames)
	return out
}

// ValidateQuality implements Extractor. Voice-quality analysis needs at
// least one second of audio; shorter recordings are rejected here even
// if they passed the generic quality gate.
func (x *VocalAnalysisExtractor) ValidateQuality(buf audio.Buffer) bool {
	if buf.Valid() != nil {
		return false
	}
	if dur := buf.Duration(); dur < minAnalysisDuration {
		x.log.Warn("audio too short for voice quality analysis", "duration", dur)
		return false
	}
	return true
}

// Extract implements Extractor. It never returns an error: any failure
// is captured in the FeatureSet with zero-filled features so the record
// schema stays intact.
func (x *VocalAnalysisExtractor) Extract(ctx context.Context, buf audio.Buffer) FeatureSet {
	if err := ctx.Err(); err != nil {
		return x.failed(buf, err)
	}
	if err := buf.Valid(); err != nil {
		return x.failed(buf, err)
	}
	if !x.ValidateQuality(buf) {
		return x.failed(buf, fmt.Errorf("audio does not meet quality requirements (%.2fs)", buf.Duration()))
	}

	// The engine wants file-backed input; write the buffer to a scratch
	// WAV and guarantee its removal on every exit path.
	scratch, err := x.writeScratch(buf)
	if err != nil {
		return x.failed(buf, err)
	}
	defer func() {
		if err := os.Remove(scratch); err != nil {
			x.log.Warn("failed to remove scratch audio", "path", scratch, "error", err)
		}
	}()

	sound, err := x.engine.Load(scratch)
	if errors.Is(err, ErrEngineUnavailable) {
		x.log.Error("acoustic engine unavailable", "error", err)
		return x.unavailable(buf, err)
	}
	if err != nil {
		return x.failed(buf, err)
	}

	pitch, err := x.engine.TrackPitch(sound, praat.PitchConfig{
		TimeStep: x.params.TimeStep,
		Floor:    x.params.MinF0Hz,
		Ceiling:  x.params.MaxF0Hz,
	})
	if err != nil {
		return x.failed(buf, err)
	}

	features := make(map[string]float64, len(vocalFeatureNames))
	voiced := pitch.Voiced()
	frameCount := len(pitch.Frames)
	voicedCount := len(voiced)

	var voicedRatio float64
	if voicedCount > 0 {
		voicedRatio = float64(voicedCount) / float64(frameCount)
		features["f0_mean"] = round1(audio.Mean(voiced))
		features["f0_std"] = round1(audio.Std(voiced))
		features["f0_confidence"] = round1(voicedRatio * 100)
	} else {
		x.log.Warn("no voiced frames detected, returning zero F0 values")
		features["f0_mean"] = 0
		features["f0_std"] = 0
		features["f0_confidence"] = 0
	}

	if voicedCount > minVoicedFrames {
		x.measurePerturbation(sound, pitch, features)
		x.measureHarmonicity(sound, features)
	} else {
		// Too little voiced content for reliable perturbation measures.
		for _, name := range qualityFeatureNames {
			features[name] = 0
		}
	}

	features["vocal_stability_score"] = round1(StabilityScore(features, x.params.ExcellentHNRThreshold))

	x.log.Info("vocal analysis completed",
		"f0_mean", features["f0_mean"],
		"jitter_local", features["jitter_local"],
		"shimmer_local", features["shimmer_local"],
		"hnr_mean", features["hnr_mean"],
		"stability", features["vocal_stability_score"])

	return FeatureSet{
		Extractor: ExtractorName,
		Version:   x.version,
		Features:  features,
		Metadata: &FeatureMetadata{
			DurationSeconds:  buf.Duration(),
			VoicedRatio:      voicedRatio,
			SampleRate:       buf.Rate,
			FrameCount:       &frameCount,
			VoicedFrameCount: &voicedCount,
		},
	}
}

// measurePerturbation fills the jitter and shimmer features. Any
// failure in this block zero-fills all eight perturbation features and
// lets extraction continue; the HNR block is unaffected.
func (x *VocalAnalysisExtractor) measurePerturbation(sound audio.Buffer, pitch praat.Pitch, features map[string]float64) {
	defer func() {
		if r := recover(); r != nil {
			x.log.Warn("jitter/shimmer calculation failed", "error", r)
			for _, name := range perturbationFeatureNames {
				features[name] = 0
			}
		}
	}()

	pulses, err := x.engine.PointProcess(sound, pitch)
	if err != nil {
		panic(err)
	}

	jitter := praat.MeasureJitter(pulses)
	features["jitter_local"] = round3(jitter.Local * 100)       // %
	features["jitter_absolute"] = round1(jitter.Absolute * 1e6) // microseconds
	features["jitter_rap"] = round3(jitter.RAP * 100)
	features["jitter_ppq5"] = round3(jitter.PPQ5 * 100)

	shimmer := praat.MeasureShimmer(pulses)
	features["shimmer_local"] = round3(shimmer.Local * 100) // %
	features["shimmer_db"] = round3(shimmer.DB)
	features["shimmer_apq3"] = round3(shimmer.APQ3 * 100)
	features["shimmer_apq5"] = round3(shimmer.APQ5 * 100)
}

// measureHarmonicity fills hnr_mean/hnr_std. Fails independently of the
// jitter/shimmer block.
func (x *VocalAnalysisExtractor) measureHarmonicity(sound audio.Buffer, features map[string]float64) {
	defer func() {
		if r := recover(); r != nil {
			x.log.Warn("HNR calculation failed", "error", r)
			features["hnr_mean"] = 0
			features["hnr_std"] = 0
		}
	}()

	contour, err := x.engine.Harmonicity(sound, x.params.TimeStep, x.params.MinF0Hz)
	if err != nil {
		panic(err)
	}

	defined := praat.Defined(contour)
	if len(defined) > 0 {
		features["hnr_mean"] = round1(audio.Mean(defined))
		features["hnr_std"] = round1(audio.Std(defined))
	} else {
		features["hnr_mean"] = 0
		features["hnr_std"] = 0
	}
}

func (x *VocalAnalysisExtractor) writeScratch(buf audio.Buffer) (string, error) {
	f, err := os.CreateTemp(x.scratchDir, "vocalis-*.wav")
	if err != nil {
		return "", fmt.Errorf("vocal: create scratch audio: %w", err)
	}
	if err := audio.WriteWAV(f, buf.Samples, buf.Rate); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("vocal: write scratch audio: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("vocal: close scratch audio: %w", err)
	}
	return f.Name(), nil
}

func (x *VocalAnalysisExtractor) failed(buf audio.Buffer, err error) FeatureSet {
	x.log.Error("vocal analysis extraction failed", "error", err)
	return FeatureSet{
		Extractor: ExtractorName,
		Version:   x.version,
		Features:  zeroFeatures(vocalFeatureNames),
		Metadata: &FeatureMetadata{
			SampleRate: buf.Rate,
		},
		Error:        ErrKindExtractionFailed,
		ErrorMessage: err.Error(),
	}
}

func (x *VocalAnalysisExtractor) unavailable(buf audio.Buffer, err error) FeatureSet {
	return FeatureSet{
		Extractor: ExtractorName,
		Version:   x.version,
		Features:  zeroFeatures(vocalFeatureNames),
		Metadata: &FeatureMetadata{
			VoicedRatio: unavailableVoicedRatio,
			SampleRate:  buf.Rate,
		},
		Error:        ErrKindLibraryUnavailable,
		ErrorMessage: err.Error(),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
