// Package insight persists aggregated voice-analysis records. It is the
// storage collaborator of the extraction core: the core hands over a
// flat feature record carrying no identity, and this package wraps it
// with a recording id, a generated insight id, a status, and a
// write-time timestamp.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/sagehealth/vocalis/pkg/kv"
	"github.com/sagehealth/vocalis/pkg/vocal"
)

// Insight type and status identifiers as stored.
const (
	TypeVoiceAnalysis = "voice_analysis"

	StatusCompleted             = "completed"
	StatusCompletedWithWarnings = "completed_with_warnings"
)

// Insight is one stored analysis result for a recording.
type Insight struct {
	ID          string       `msgpack:"id"`
	RecordingID string       `msgpack:"recording_id"`
	Type        string       `msgpack:"type"`
	Status      string       `msgpack:"status"`
	Features    vocal.Record `msgpack:"features"`
	CreatedAt   time.Time    `msgpack:"created_at"`
}

// Store saves and retrieves insights through a kv.Store.
type Store struct {
	store kv.Store
	log   *slog.Logger
	now   func() time.Time
}

// NewStore creates an insight store on top of a kv backend.
func NewStore(store kv.Store, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{store: store, log: log, now: time.Now}
}

func key(recordingID, insightID string) kv.Key {
	return kv.Key{"recording", recordingID, "insight", insightID}
}

// Save wraps a feature record as a voice-analysis insight and persists
// it under the recording. The insight id and timestamp are assigned
// here, at write time; the extraction core never sees them.
func (s *Store) Save(ctx context.Context, recordingID string, rec vocal.Record) (*Insight, error) {
	if recordingID == "" {
		return nil, fmt.Errorf("insight: empty recording id")
	}

	ins := &Insight{
		ID:          uuid.NewString(),
		RecordingID: recordingID,
		Type:        TypeVoiceAnalysis,
		Status:      statusFor(rec),
		Features:    rec,
		CreatedAt:   s.now().UTC(),
	}

	data, err := msgpack.Marshal(ins)
	if err != nil {
		return nil, fmt.Errorf("insight: encode: %w", err)
	}
	if err := s.store.Set(ctx, key(recordingID, ins.ID), data); err != nil {
		return nil, fmt.Errorf("insight: store: %w", err)
	}

	s.log.Info("insight stored",
		"recording_id", recordingID,
		"insight_id", ins.ID,
		"status", ins.Status,
		"features", len(rec))
	return ins, nil
}

// Get retrieves one insight of a recording by id.
func (s *Store) Get(ctx context.Context, recordingID, insightID string) (*Insight, error) {
	data, err := s.store.Get(ctx, key(recordingID, insightID))
	if err != nil {
		return nil, err
	}
	var ins Insight
	if err := msgpack.Unmarshal(data, &ins); err != nil {
		return nil, fmt.Errorf("insight: decode %s: %w", insightID, err)
	}
	return &ins, nil
}

// List returns all insights stored for a recording.
func (s *Store) List(ctx context.Context, recordingID string) ([]Insight, error) {
	var out []Insight
	for entry, err := range s.store.List(ctx, kv.Key{"recording", recordingID, "insight"}) {
		if err != nil {
			return nil, err
		}
		var ins Insight
		if err := msgpack.Unmarshal(entry.Value, &ins); err != nil {
			return nil, fmt.Errorf("insight: decode %s: %w", entry.Key, err)
		}
		out = append(out, ins)
	}
	return out, nil
}

// statusFor derives the stored status from the record: any extractor
// error field downgrades the insight to completed-with-warnings.
func statusFor(rec vocal.Record) string {
	for k := range rec {
		if strings.HasSuffix(k, "_error_type") {
			return StatusCompletedWithWarnings
		}
	}
	return StatusCompleted
}
