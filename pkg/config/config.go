// Package config holds the process-lifetime configuration for the vocal
// biomarker pipeline. Configuration is loaded once from YAML (or built
// from defaults) and treated as read-only afterwards.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the root configuration.
type Config struct {
	Audio         Audio         `yaml:"audio"`
	VocalAnalysis VocalAnalysis `yaml:"vocal_analysis"`
	QualityGate   QualityGate   `yaml:"quality_gate"`

	// Versions maps extractor name to its version string, for tracking
	// algorithm changes in stored records. Missing entries fall back to
	// DefaultVersion.
	Versions map[string]string `yaml:"versions,omitempty"`
}

// Audio holds the preconditioning parameters.
type Audio struct {
	TargetSampleRate   int     `yaml:"target_sample_rate"`
	MinDurationSeconds float64 `yaml:"min_duration_seconds"`
	MaxDurationSeconds float64 `yaml:"max_duration_seconds"`
}

// VocalAnalysis holds the pitch and voice-quality analysis parameters.
// The jitter/shimmer/HNR thresholds are the clinical research thresholds
// (Farrús et al., 2007) used for interpretation, not for gating.
type VocalAnalysis struct {
	TimeStep              float64 `yaml:"time_step"`       // seconds between analysis frames
	MinF0Hz               float64 `yaml:"min_f0_hz"`       // pitch floor
	MaxF0Hz               float64 `yaml:"max_f0_hz"`       // pitch ceiling
	MaxJitterLocal        float64 `yaml:"max_jitter_local"`
	MaxShimmerLocal       float64 `yaml:"max_shimmer_local"`
	ExcellentHNRThreshold float64 `yaml:"excellent_hnr_threshold"`
}

// QualityGate holds the pre-analysis rejection thresholds.
type QualityGate struct {
	MinRMSThreshold float64 `yaml:"min_rms_threshold"`
}

// DefaultVersion is the extractor version used when the config carries
// no entry for an extractor.
const DefaultVersion = "1.0"

// Default returns the configuration used when no file is given.
// Values match the clinical defaults of the analysis protocol.
func Default() *Config {
	return &Config{
		Audio: Audio{
			TargetSampleRate:   48000,
			MinDurationSeconds: 0.5,
			MaxDurationSeconds: 60.0,
		},
		VocalAnalysis: VocalAnalysis{
			TimeStep:              0.0025, // 2.5ms, research-grade temporal resolution
			MinF0Hz:               75,
			MaxF0Hz:               400,
			MaxJitterLocal:        1.04,
			MaxShimmerLocal:       3.81,
			ExcellentHNRThreshold: 20.0,
		},
		QualityGate: QualityGate{
			MinRMSThreshold: 0.001,
		},
	}
}

// Load reads configuration from a YAML file. Fields missing from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Audio.TargetSampleRate <= 0 {
		return fmt.Errorf("config: target_sample_rate must be positive, got %d", c.Audio.TargetSampleRate)
	}
	if c.VocalAnalysis.MinF0Hz <= 0 || c.VocalAnalysis.MaxF0Hz <= c.VocalAnalysis.MinF0Hz {
		return fmt.Errorf("config: invalid F0 range %.1f..%.1f Hz", c.VocalAnalysis.MinF0Hz, c.VocalAnalysis.MaxF0Hz)
	}
	if c.VocalAnalysis.TimeStep <= 0 {
		return fmt.Errorf("config: time_step must be positive, got %g", c.VocalAnalysis.TimeStep)
	}
	return nil
}

// Version returns the configured version string for an extractor, or
// DefaultVersion when none is configured.
func (c *Config) Version(extractor string) string {
	if v, ok := c.Versions[extractor]; ok && v != "" {
		return v
	}
	return DefaultVersion
}
