package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aviapedia/flight-tracker/internal/flight"
)

func TestAviationStackWithoutKeyIsSilentMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("adapter without a key must not touch the network")
	}))
	defer srv.Close()

	p := NewAviationStackProvider(srv.Client(), "").WithBaseURL(srv.URL)
	rec, err := p.Fetch(context.Background(), "JAL123")
	if err != nil || rec != nil {
		t.Errorf("expected silent miss, got rec=%+v err=%v", rec, err)
	}
}

func TestAviationStackMapsScheduleFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("access_key"); got != "k1" {
			t.Errorf("access_key = %q", got)
		}
		if got := r.URL.Query().Get("flight_iata"); got != "JL123" {
			t.Errorf("flight_iata = %q", got)
		}
		w.Write([]byte(`{"data": [{
			"flight_status": "active",
			"airline": {"name": "Japan Airlines"},
			"flight": {"iata": "JL123"},
			"aircraft": {"registration": "JA733J"},
			"departure": {"airport": "Tokyo Haneda", "terminal": "1", "gate": "12", "scheduled": "2026-09-01T09:00:00+09:00"},
			"arrival": {"airport": "Fukuoka", "estimated": "2026-09-01T11:05:00+09:00"}
		}]}`))
	}))
	defer srv.Close()

	p := NewAviationStackProvider(srv.Client(), "k1").WithBaseURL(srv.URL)
	rec, err := p.Fetch(context.Background(), "JL123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.Schedule == nil || rec.Detail == nil {
		t.Fatalf("expected schedule and detail blocks, got %+v", rec)
	}
	if rec.Source != flight.SourceAviationStack {
		t.Errorf("source = %q", rec.Source)
	}
	if rec.Schedule.Airline != "Japan Airlines" || rec.Schedule.Registration != "JA733J" {
		t.Errorf("schedule = %+v", rec.Schedule)
	}
	if rec.Schedule.Departure.Airport != "Tokyo Haneda" || rec.Schedule.Departure.Gate != "12" {
		t.Errorf("departure = %+v", rec.Schedule.Departure)
	}
	if rec.Schedule.Arrival.Estimated != "2026-09-01T11:05:00+09:00" {
		t.Errorf("arrival = %+v", rec.Schedule.Arrival)
	}
	if rec.Detail.Status != "active" {
		t.Errorf("status = %q", rec.Detail.Status)
	}
}

func TestAviationStackEmptyDataIsMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	p := NewAviationStackProvider(srv.Client(), "k1").WithBaseURL(srv.URL)
	rec, err := p.Fetch(context.Background(), "JL123")
	if err != nil || rec != nil {
		t.Errorf("expected miss, got rec=%+v err=%v", rec, err)
	}
}

func TestAviationStackServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewAviationStackProvider(srv.Client(), "k1").WithBaseURL(srv.URL)
	if _, err := p.Fetch(context.Background(), "JL123"); err == nil {
		t.Error("expected an error for logging on upstream failure")
	}
}
