package vocal

import (
	"context"

	"github.com/sagehealth/vocalis/pkg/audio"
)

// Extractor is the capability contract shared by all feature extractors.
//
// Extract never returns an error: failures are captured inside the
// returned FeatureSet (zero-filled features plus an error kind), so a
// single misbehaving extractor can never abort the pipeline.
type Extractor interface {
	// Name is the stable identifier used to namespace this extractor's
	// output in the aggregated record.
	Name() string

	// Extract derives this extractor's features from a preconditioned
	// mono buffer.
	Extract(ctx context.Context, buf audio.Buffer) FeatureSet

	// FeatureNames lists the canonical raw feature names this extractor
	// produces, in output order. Zero-filled fallbacks cover exactly
	// this list.
	FeatureNames() []string

	// ValidateQuality reports whether the buffer meets this extractor's
	// own quality requirements, which may be stricter than the generic
	// quality gate.
	ValidateQuality(buf audio.Buffer) bool
}
