package vocal

import (
	"context"
	"testing"

	"github.com/sagehealth/vocalis/pkg/audio"
)

// stubExtractor records whether it ran and emits one fixed feature.
type stubExtractor struct {
	name string
	ran  bool
}

func (s *stubExtractor) Name() string { return s.name }

func (s *stubExtractor) Extract(ctx context.Context, buf audio.Buffer) FeatureSet {
	s.ran = true
	return FeatureSet{
		Extractor: s.name,
		Version:   "1.0",
		Features:  map[string]float64{"value": 1},
	}
}

func (s *stubExtractor) FeatureNames() []string { return []string{"value"} }

func (s *stubExtractor) ValidateQuality(audio.Buffer) bool { return true }

func TestRegistry_For(t *testing.T) {
	def := &stubExtractor{name: "default"}
	vowel := &stubExtractor{name: "vowel"}

	r := NewRegistry(def)
	r.Register(TaskSustainedVowel, vowel)

	if got := r.For(TaskSustainedVowel); len(got) != 1 || got[0] != Extractor(vowel) {
		t.Errorf("For(sustained_vowel) = %v, want the registered set", got)
	}
	// Unknown tasks get the fallback set, never an error.
	if got := r.For(TaskType("humming")); len(got) != 1 || got[0] != Extractor(def) {
		t.Errorf("For(humming) = %v, want fallback", got)
	}
}

func TestRegistry_ReRegisterReplaces(t *testing.T) {
	a := &stubExtractor{name: "a"}
	b := &stubExtractor{name: "b"}

	r := NewRegistry()
	r.Register(TaskReading, a)
	r.Register(TaskReading, b)

	got := r.For(TaskReading)
	if len(got) != 1 || got[0].Name() != "b" {
		t.Errorf("For(reading) = %v, want only the re-registered extractor", got)
	}
}

func TestPipeline_Run(t *testing.T) {
	a := &stubExtractor{name: "alpha"}
	b := &stubExtractor{name: "beta"}

	r := NewRegistry()
	r.Register(TaskSustainedVowel, a, b)
	p := NewPipeline(r, nil)

	buf := audio.Buffer{Samples: make([]float64, 48000), Rate: 48000}
	rec := p.Run(context.Background(), buf, TaskSustainedVowel)

	if !a.ran || !b.ran {
		t.Fatalf("extractors ran = %v/%v, want both", a.ran, b.ran)
	}
	if rec["alpha_value"] != 1.0 || rec["beta_value"] != 1.0 {
		t.Errorf("record = %v, missing namespaced values", rec)
	}
	if rec["alpha_version"] != "1.0" {
		t.Errorf("alpha_version = %v, want 1.0", rec["alpha_version"])
	}
}

func TestPipeline_EmptyExtractorSet(t *testing.T) {
	p := NewPipeline(NewRegistry(), nil)
	rec := p.Run(context.Background(), audio.Buffer{Samples: []float64{0}, Rate: 48000}, TaskConversation)
	if len(rec) != 0 {
		t.Errorf("record = %v, want empty", rec)
	}
}
