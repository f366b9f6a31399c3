package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

func TestLocal(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "recordings"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "recordings", "a.wav"), []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal error: %v", err)
	}
	ctx := context.Background()

	rc, err := store.Open(ctx, "recordings/a.wav")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "RIFF" {
		t.Errorf("read %q, want RIFF", data)
	}

	if _, err := store.Open(ctx, "recordings/missing.wav"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open missing = %v, want ErrNotExist", err)
	}

	ok, err := store.Exists(ctx, "recordings/a.wav")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v; want true", ok, err)
	}
	ok, err = store.Exists(ctx, "recordings/missing.wav")
	if err != nil || ok {
		t.Errorf("Exists missing = %v, %v; want false", ok, err)
	}
}

// fakeS3 serves objects from a map and reports NoSuchKey otherwise.
type fakeS3 struct {
	objects map[string][]byte
}

type s3APIError struct{ code string }

func (e s3APIError) Error() string                 { return e.code }
func (e s3APIError) ErrorCode() string             { return e.code }
func (e s3APIError) ErrorMessage() string          { return e.code }
func (e s3APIError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, s3APIError{"NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*params.Key]; !ok {
		return nil, s3APIError{"NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{
		"recordings/a.wav": []byte("RIFF"),
	}}
	store := NewS3(fake, "voice-bucket", "")
	ctx := context.Background()

	rc, err := store.Open(ctx, "recordings/a.wav")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "RIFF" {
		t.Errorf("read %q, want RIFF", data)
	}

	if _, err := store.Open(ctx, "recordings/missing.wav"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open missing = %v, want ErrNotExist", err)
	}

	ok, err := store.Exists(ctx, "recordings/a.wav")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v; want true", ok, err)
	}
	ok, err = store.Exists(ctx, "recordings/missing.wav")
	if err != nil || ok {
		t.Errorf("Exists missing = %v, %v; want false", ok, err)
	}
}

func TestS3Store_Prefix(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{
		"uploads/recordings/a.wav": []byte("RIFF"),
	}}
	store := NewS3(fake, "voice-bucket", "uploads")

	ok, err := store.Exists(context.Background(), "recordings/a.wav")
	if err != nil || !ok {
		t.Errorf("Exists with prefix = %v, %v; want true", ok, err)
	}
}
