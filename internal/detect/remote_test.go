package detect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRemoteDetector_Analyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Text     string `json:"text"`
			Language string `json:"language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "My name is John." {
			t.Errorf("text = %q", req.Text)
		}
		if req.Language != "en" {
			t.Errorf("language = %q", req.Language)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"entity_type":"PERSON","start":11,"end":15,"score":0.85}]`))
	}))
	defer srv.Close()

	d := NewRemoteDetector(srv.URL, time.Second)
	dets, err := d.Analyze(context.Background(), "My name is John.", "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("got %d detections, want 1", len(dets))
	}
	want := Detection{EntityType: "PERSON", Start: 11, End: 15, Confidence: 0.85}
	if dets[0] != want {
		t.Fatalf("detection = %+v, want %+v", dets[0], want)
	}
}

func TestRemoteDetector_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "analyzer exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewRemoteDetector(srv.URL, time.Second)
	if _, err := d.Analyze(context.Background(), "hello", "en"); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestRemoteDetector_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	d := NewRemoteDetector(srv.URL, time.Second)
	if _, err := d.Analyze(context.Background(), "hello", "en"); err == nil {
		t.Fatal("expected error on malformed response")
	}
}

func TestRemoteDetector_Unreachable(t *testing.T) {
	d := NewRemoteDetector("http://127.0.0.1:1", 200*time.Millisecond)
	if _, err := d.Analyze(context.Background(), "hello", "en"); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestRemoteDetector_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewRemoteDetector(srv.URL, time.Second)
	if _, err := d.Analyze(ctx, "hello", "en"); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
