package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/theo-privacy/theo/internal/detect"
	"github.com/theo-privacy/theo/internal/pii"
)

// stubDetector returns canned detections or a canned error.
type stubDetector struct {
	dets []detect.Detection
	err  error
}

func (d stubDetector) Analyze(_ context.Context, _ string, _ string) ([]detect.Detection, error) {
	return d.dets, d.err
}

func TestAppendRecordsMessageAndEntities(t *testing.T) {
	det := stubDetector{dets: []detect.Detection{
		{EntityType: "PERSON", Start: 11, End: 15, Confidence: 0.85},
	}}
	s := newSession("s1", Config{Detector: det})

	result, err := s.Append(context.Background(), "user", "My name is John.")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if result.Index != 0 {
		t.Fatalf("Index = %d, want 0", result.Index)
	}
	if result.Degraded {
		t.Fatal("unexpected degraded result")
	}
	if len(result.Message.Entities) != 1 || result.Message.Entities[0].Text != "John" {
		t.Fatalf("unexpected entities %+v", result.Message.Entities)
	}
	if result.Score <= 0 {
		t.Fatalf("Score = %d, want > 0", result.Score)
	}
	if result.PreviousScore != 0 {
		t.Fatalf("PreviousScore = %d, want 0 for the first message", result.PreviousScore)
	}
	if got := s.MessageCount(); got != 1 {
		t.Fatalf("MessageCount = %d, want 1", got)
	}
}

func TestAppendRejectsInvalidRole(t *testing.T) {
	s := newSession("s1", Config{Detector: stubDetector{}})
	for _, role := range []string{"", "system", "USER"} {
		_, err := s.Append(context.Background(), role, "hello")
		if !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("role %q: expected ErrInvalidRole, got %v", role, err)
		}
	}
	if got := s.MessageCount(); got != 0 {
		t.Fatalf("MessageCount = %d, want 0 after rejected appends", got)
	}
}

func TestAppendDegradesOnDetectorFailure(t *testing.T) {
	det := stubDetector{err: errors.New("connection refused")}
	s := newSession("s1", Config{Detector: det})

	result, err := s.Append(context.Background(), "user", "my email is a@b.com")
	if err != nil {
		t.Fatalf("Append should not fail on detector error: %v", err)
	}
	if !result.Degraded {
		t.Fatal("expected degraded result")
	}
	if len(result.Message.Entities) != 0 {
		t.Fatalf("degraded message carries entities: %+v", result.Message.Entities)
	}
	// Conversational history never drops.
	if got := s.MessageCount(); got != 1 {
		t.Fatalf("MessageCount = %d, want 1", got)
	}
	if got := s.Score(); got != 0 {
		t.Fatalf("Score = %d, want 0 with no entities", got)
	}
}

func TestAppendAtomicOnInvalidOffsets(t *testing.T) {
	det := stubDetector{dets: []detect.Detection{
		{EntityType: "PERSON", Start: 0, End: 999, Confidence: 0.9},
	}}
	s := newSession("s1", Config{Detector: det})

	_, err := s.Append(context.Background(), "user", "short")
	if !errors.Is(err, pii.ErrInvalidOffsets) {
		t.Fatalf("expected ErrInvalidOffsets, got %v", err)
	}
	// Neither the message list nor the profile moved.
	if got := s.MessageCount(); got != 0 {
		t.Fatalf("MessageCount = %d, want 0", got)
	}
	if got := s.Score(); got != 0 {
		t.Fatalf("Score = %d, want 0", got)
	}
}

func TestAppendAppliesThreshold(t *testing.T) {
	det := stubDetector{dets: []detect.Detection{
		{EntityType: "URL", Start: 0, End: 5, Confidence: 0.39},
		{EntityType: "PERSON", Start: 0, End: 5, Confidence: 0.41},
	}}
	s := newSession("s1", Config{Detector: det})

	result, err := s.Append(context.Background(), "user", "hello")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(result.Message.Entities) != 1 || result.Message.Entities[0].EntityType != "PERSON" {
		t.Fatalf("default threshold should keep only PERSON, got %+v", result.Message.Entities)
	}
}

func TestAppendWithoutDetector(t *testing.T) {
	s := newSession("s1", Config{})
	result, err := s.Append(context.Background(), "assistant", "no detector wired")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if result.Degraded || len(result.Message.Entities) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestReset(t *testing.T) {
	det := stubDetector{dets: []detect.Detection{
		{EntityType: "PERSON", Start: 0, End: 4, Confidence: 0.9},
	}}
	s := newSession("s1", Config{Detector: det})

	if _, err := s.Append(context.Background(), "user", "John here"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if s.Score() == 0 {
		t.Fatal("expected nonzero score before reset")
	}

	s.Reset()
	if got := s.MessageCount(); got != 0 {
		t.Fatalf("MessageCount = %d, want 0 after reset", got)
	}
	if got := s.Score(); got != 0 {
		t.Fatalf("Score = %d, want 0 after reset", got)
	}

	// The session accepts new messages after reset.
	result, err := s.Append(context.Background(), "user", "Jane now")
	if err != nil {
		t.Fatalf("Append after reset: %v", err)
	}
	if result.Index != 0 {
		t.Fatalf("Index = %d, want 0 for first message after reset", result.Index)
	}
}

func TestNarrationCacheInvalidation(t *testing.T) {
	det := stubDetector{dets: []detect.Detection{
		{EntityType: "PERSON", Start: 0, End: 4, Confidence: 0.9},
	}}
	s := newSession("s1", Config{Detector: det})

	if _, err := s.Append(context.Background(), "user", "John here"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	_, hash := s.InferenceContext()
	s.StoreNarration("a story about john", hash)

	if cached, ok := s.CachedNarration(); !ok || cached != "a story about john" {
		t.Fatalf("expected cached narration, got %q ok=%v", cached, ok)
	}

	// New disclosures change the hash and invalidate the cache.
	if _, err := s.Append(context.Background(), "user", "Jane too!"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, ok := s.CachedNarration(); ok {
		t.Fatal("cache should invalidate when the profile changes")
	}
}

func TestConcurrentAppends(t *testing.T) {
	det := stubDetector{dets: []detect.Detection{
		{EntityType: "LOCATION", Start: 0, End: 4, Confidence: 0.9},
	}}
	s := newSession("s1", Config{Detector: det})

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := fmt.Sprintf("msg %02d", i)
			if _, err := s.Append(context.Background(), "user", content); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := s.MessageCount(); got != n {
		t.Fatalf("MessageCount = %d, want %d", got, n)
	}
	// Indices in the message list are dense.
	msgs := s.Messages()
	for i, m := range msgs {
		if len(m.Entities) != 1 {
			t.Fatalf("message %d has %d entities, want 1", i, len(m.Entities))
		}
		if m.Entities[0].MessageIndex != i {
			t.Fatalf("message %d entity index = %d", i, m.Entities[0].MessageIndex)
		}
	}
}
