package audio

import (
	"fmt"
	"log/slog"
)

// Default quality gate thresholds.
const (
	DefaultMinDuration = 0.5  // seconds
	DefaultMaxDuration = 60.0 // seconds
	DefaultMinRMS      = 0.001
)

// QualityGate rejects audio that is too short, too long, or too quiet
// before the expensive analysis pass runs.
//
// Both lower bounds are inclusive: a recording exactly at MinDuration or
// exactly at MinRMS passes.
type QualityGate struct {
	MinDuration float64 // seconds; 0 means DefaultMinDuration
	MaxDuration float64 // seconds; 0 means DefaultMaxDuration
	MinRMS      float64 // 0 means DefaultMinRMS

	// Logger receives the rejection reason. Nil means slog.Default().
	Logger *slog.Logger
}

func (g QualityGate) minDuration() float64 {
	if g.MinDuration > 0 {
		return g.MinDuration
	}
	return DefaultMinDuration
}

func (g QualityGate) maxDuration() float64 {
	if g.MaxDuration > 0 {
		return g.MaxDuration
	}
	return DefaultMaxDuration
}

func (g QualityGate) minRMS() float64 {
	if g.MinRMS > 0 {
		return g.MinRMS
	}
	return DefaultMinRMS
}

func (g QualityGate) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// Check reports whether the buffer is suitable for analysis.
//
// Check never returns an error: malformed input (empty samples, bad
// sample rate) fails the gate with a logged reason instead of panicking
// or propagating, so a bad upload can never abort a batch.
func (g QualityGate) Check(buf Buffer) (bool, string) {
	if len(buf.Samples) == 0 {
		return g.reject(buf, "empty audio buffer")
	}
	if buf.Rate <= 0 {
		return g.reject(buf, fmt.Sprintf("invalid sample rate %d", buf.Rate))
	}

	dur := buf.Duration()
	if dur < g.minDuration() {
		return g.reject(buf, fmt.Sprintf("duration %.3fs below minimum %.3fs", dur, g.minDuration()))
	}
	if dur > g.maxDuration() {
		return g.reject(buf, fmt.Sprintf("duration %.3fs above maximum %.3fs", dur, g.maxDuration()))
	}

	if rms := buf.RMS(); rms < g.minRMS() {
		return g.reject(buf, fmt.Sprintf("RMS %.6f below minimum %.6f", rms, g.minRMS()))
	}

	return true, ""
}

func (g QualityGate) reject(buf Buffer, reason string) (bool, string) {
	g.logger().Warn("quality gate failed",
		"reason", reason,
		"samples", len(buf.Samples),
		"sample_rate", buf.Rate)
	return false, reason
}
