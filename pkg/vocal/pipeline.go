package vocal

import (
	"context"
	"log/slog"

	"github.com/sagehealth/vocalis/pkg/audio"
)

// TaskType identifies the recording task a voice sample was captured
// for. The task selects which extractors run.
type TaskType string

const (
	TaskSustainedVowel TaskType = "sustained_vowel"
	TaskReading        TaskType = "reading"
	TaskConversation   TaskType = "conversation"
)

// Registry maps task types to the ordered extractor set that handles
// them. Unregistered task types fall back to the default set, so an app
// shipping a new task name before the matching extractors exist still
// gets the baseline analysis instead of an error.
type Registry struct {
	sets     map[TaskType][]Extractor
	fallback []Extractor
}

// NewRegistry creates a registry with the given default extractor set.
func NewRegistry(fallback ...Extractor) *Registry {
	return &Registry{
		sets:     make(map[TaskType][]Extractor),
		fallback: fallback,
	}
}

// Register binds an extractor set to a task type, replacing any
// previous binding. Adding a task type never touches extractor code.
func (r *Registry) Register(task TaskType, extractors ...Extractor) {
	r.sets[task] = extractors
}

// For returns the extractor set for a task type, or the fallback set
// for unrecognized tasks.
func (r *Registry) For(task TaskType) []Extractor {
	if set, ok := r.sets[task]; ok {
		return set
	}
	return r.fallback
}

// Pipeline runs the configured extractors over one audio buffer and
// aggregates their outputs into a single flat record.
//
// The pipeline is stateless apart from its registry and may be invoked
// concurrently for distinct buffers.
type Pipeline struct {
	registry *Registry
	log      *slog.Logger
}

// NewPipeline creates a pipeline over the given registry.
func NewPipeline(registry *Registry, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{registry: registry, log: log}
}

// Run executes every extractor selected for the task and flattens the
// results. It never fails for per-record problems: an extractor failure
// surfaces as error fields inside the returned record, not as an error
// from Run.
func (p *Pipeline) Run(ctx context.Context, buf audio.Buffer, task TaskType) Record {
	extractors := p.registry.For(task)
	p.log.Info("running feature extraction",
		"task", string(task),
		"extractors", len(extractors),
		"duration", buf.Duration(),
		"sample_rate", buf.Rate)

	sets := make([]FeatureSet, 0, len(extractors))
	for _, ext := range extractors {
		sets = append(sets, ext.Extract(ctx, buf))
	}
	return Flatten(sets)
}
