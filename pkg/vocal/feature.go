// Package vocal implements the vocal biomarker extraction core: the
// feature entities, the extractor contract and its sustained-vowel
// implementation, the composite stability score, and the aggregation of
// extractor outputs into a flat storage-ready record.
package vocal

import "fmt"

// Error kinds carried on a FeatureSet. Exactly one error kind and one
// message appear together, or neither.
const (
	// ErrKindLibraryUnavailable means the acoustic analysis engine was
	// not available at runtime; features are zero-filled.
	ErrKindLibraryUnavailable = "voice_analysis_library_unavailable"

	// ErrKindExtractionFailed covers any other failure inside an
	// extractor; features are zero-filled and the message preserved.
	ErrKindExtractionFailed = "extraction_failed"
)

// FeatureMetadata describes one extraction run. FrameCount and
// VoicedFrameCount are pointers so "not computed" stays distinguishable
// from "computed as zero" in the flattened record.
type FeatureMetadata struct {
	DurationSeconds  float64
	VoicedRatio      float64
	SampleRate       int
	FrameCount       *int
	VoicedFrameCount *int
}

// fields returns the metadata as ordered key/value pairs, skipping
// fields that were never computed.
func (m *FeatureMetadata) fields() []metaField {
	out := []metaField{
		{"duration_seconds", m.DurationSeconds},
		{"voiced_ratio", m.VoicedRatio},
		{"sample_rate", m.SampleRate},
	}
	if m.FrameCount != nil {
		out = append(out, metaField{"frame_count", *m.FrameCount})
	}
	if m.VoicedFrameCount != nil {
		out = append(out, metaField{"voiced_frame_count", *m.VoicedFrameCount})
	}
	return out
}

type metaField struct {
	key   string
	value any
}

// FeatureSet is the unit of extractor output: one extractor run over one
// audio buffer. It is constructed once and never mutated.
//
// Invariant: Features is always a populated mapping. On failure every
// canonical feature of the extractor is present with value 0, so
// downstream schema expectations hold whether or not Error is set.
type FeatureSet struct {
	Extractor    string
	Version      string
	Features     map[string]float64
	Metadata     *FeatureMetadata
	Error        string // error kind, empty on success
	ErrorMessage string
}

// Record is the flat, namespaced key-value snapshot handed to the
// persistence collaborator. Keys never collide across extractors with
// distinct names; the record carries no identity and no timestamps.
type Record map[string]any

// Flatten namespaces and merges feature sets into a single Record.
//
// Every feature key k of extractor E becomes "E_k"; the version becomes
// "E_version"; error kind and message become "E_error_type" and
// "E_error_message" when set; each computed metadata field becomes
// "E_metadata_<field>". Absent metadata fields are omitted, never
// emitted as null.
func Flatten(featureSets []FeatureSet) Record {
	rec := make(Record)
	for _, fs := range featureSets {
		for k, v := range fs.Features {
			rec[fmt.Sprintf("%s_%s", fs.Extractor, k)] = v
		}
		rec[fs.Extractor+"_version"] = fs.Version
		if fs.Error != "" {
			rec[fs.Extractor+"_error_type"] = fs.Error
			rec[fs.Extractor+"_error_message"] = fs.ErrorMessage
		}
		if fs.Metadata != nil {
			for _, f := range fs.Metadata.fields() {
				rec[fmt.Sprintf("%s_metadata_%s", fs.Extractor, f.key)] = f.value
			}
		}
	}
	return rec
}

// zeroFeatures returns a mapping with every listed feature set to 0.
func zeroFeatures(names []string) map[string]float64 {
	m := make(map[string]float64, len(names))
	for _, n := range names {
		m[n] = 0
	}
	return m
}
