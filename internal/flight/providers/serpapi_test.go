package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSerpAPIWithoutKeyIsSilentMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("adapter without a key must not touch the network")
	}))
	defer srv.Close()

	p := NewSerpAPIProvider(srv.Client(), "").WithBaseURL(srv.URL).WithProbeURL(srv.URL)
	rec, err := p.Fetch(context.Background(), "JAL123")
	if err != nil || rec != nil {
		t.Errorf("expected silent miss, got rec=%+v err=%v", rec, err)
	}
}

func TestSerpAPIAnswerBoxBecomesSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if !strings.Contains(q, "JAL123") || !strings.Contains(q, "flight status") {
			t.Errorf("query = %q", q)
		}
		w.Write([]byte(`{"answer_box": {
			"type": "google_flights",
			"airline": "Japan Airlines",
			"status": "In flight",
			"departure": {"airport": "HND", "time": "09:00"},
			"arrival": {"airport": "FUK", "time": "11:05"}
		}}`))
	}))
	defer srv.Close()

	p := NewSerpAPIProvider(srv.Client(), "k3").WithBaseURL(srv.URL)
	rec, err := p.Fetch(context.Background(), "JAL123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.Schedule == nil || rec.Detail == nil {
		t.Fatalf("expected schedule and detail from the answer box, got %+v", rec)
	}
	if rec.Schedule.Departure.Airport != "HND" || rec.Schedule.Arrival.Airport != "FUK" {
		t.Errorf("schedule = %+v", rec.Schedule)
	}
	if rec.Detail.Status != "In flight" {
		t.Errorf("status = %q", rec.Detail.Status)
	}
}

func TestSerpAPIOrganicResultsCappedAsEvidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic_results": [
			{"title": "r1", "snippet": "s1"},
			{"title": "r2", "snippet": "s2"},
			{"title": "r3", "snippet": "s3"},
			{"title": "r4", "snippet": "s4"},
			{"title": "r5", "snippet": "s5"},
			{"title": "r6", "snippet": "s6"},
			{"title": "r7", "snippet": "s7"}
		]}`))
	}))
	defer srv.Close()

	p := NewSerpAPIProvider(srv.Client(), "k3").WithBaseURL(srv.URL)
	rec, err := p.Fetch(context.Background(), "JAL123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || len(rec.Evidence) != organicEvidenceLimit {
		t.Fatalf("evidence = %v, want %d entries", rec.Evidence, organicEvidenceLimit)
	}
	if rec.Evidence[0] != "r1: s1" {
		t.Errorf("evidence[0] = %q", rec.Evidence[0])
	}
}

func TestSerpAPIEmptyPayloadIsMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := NewSerpAPIProvider(srv.Client(), "k3").WithBaseURL(srv.URL)
	rec, err := p.Fetch(context.Background(), "JAL123")
	if err != nil || rec != nil {
		t.Errorf("expected miss, got rec=%+v err=%v", rec, err)
	}
}

func TestSerpAPISearchFailureFallsBackToProbe(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer api.Close()

	var probed bool
	probe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probed = true
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("probe User-Agent = %q", got)
		}
		w.Write([]byte("<html>results</html>"))
	}))
	defer probe.Close()

	p := NewSerpAPIProvider(api.Client(), "k3").WithBaseURL(api.URL).WithProbeURL(probe.URL)
	rec, err := p.Fetch(context.Background(), "JAL123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !probed {
		t.Fatal("expected the plain probe to be attempted")
	}
	if rec == nil || len(rec.Evidence) != 1 {
		t.Fatalf("expected a placeholder evidence record, got %+v", rec)
	}
}

func TestSerpAPIBothPathsFailingSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewSerpAPIProvider(srv.Client(), "k3").WithBaseURL(srv.URL).WithProbeURL(srv.URL)
	rec, err := p.Fetch(context.Background(), "JAL123")
	if err == nil {
		t.Error("expected an error when both search and probe fail")
	}
	if rec != nil {
		t.Errorf("expected absent record, got %+v", rec)
	}
}
