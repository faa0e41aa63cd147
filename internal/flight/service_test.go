package flight

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// stubPosition serves a fixed feed through the real matcher, standing in for
// the live-position adapter.
type stubPosition struct {
	states     []StateVector
	fail       bool
	fetchCalls []string
}

func (s *stubPosition) Name() string      { return "opensky" }
func (s *stubPosition) Source() SourceTag { return SourceOpenSky }

func (s *stubPosition) Fetch(_ context.Context, identifier string) (*Record, error) {
	s.fetchCalls = append(s.fetchCalls, identifier)
	if s.fail {
		return nil, errors.New("feed unavailable")
	}
	m := Match(Variants(identifier), s.states)
	if m == nil {
		return nil, nil
	}
	return &Record{
		Source: SourceOpenSky,
		Realtime: &RealtimeBlock{
			Callsign:      strings.TrimSpace(m.Callsign),
			OriginCountry: m.OriginCountry,
			Latitude:      m.Latitude,
			Longitude:     m.Longitude,
			BaroAltitude:  m.BaroAltitude,
			Velocity:      m.Velocity,
			OnGround:      m.OnGround,
		},
	}, nil
}

func (s *stubPosition) RegionalStates(context.Context) ([]StateVector, error) {
	if s.fail {
		return nil, errors.New("feed unavailable")
	}
	return s.states, nil
}

// stubProvider returns a canned record, standing in for a keyed adapter.
type stubProvider struct {
	tag SourceTag
	rec *Record
	err error
}

func (s *stubProvider) Name() string      { return string(s.tag) }
func (s *stubProvider) Source() SourceTag { return s.tag }

func (s *stubProvider) Fetch(context.Context, string) (*Record, error) {
	return s.rec, s.err
}

// stubGenerator returns a canned completion.
type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (s *stubGenerator) Complete(context.Context, string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func liveFeed() []StateVector {
	jal := airborne("JAL123 ", 35.2, 139.8)
	jal.OriginCountry = "Japan"
	return []StateVector{jal}
}

func TestResolveIdentifierWithoutSecrets(t *testing.T) {
	svc := NewService([]Provider{&stubPosition{states: liveFeed()}}, nil, nil)

	res := svc.Resolve(context.Background(), Query{FlightNumber: "jal123"})

	resp, ok := res.Flight.(*Response)
	if !ok {
		t.Fatalf("expected deterministic *Response, got %T", res.Flight)
	}
	for name, v := range map[string]string{
		"status": resp.Status, "origin": resp.Origin, "destination": resp.Destination,
		"altitude": resp.Altitude, "speed": resp.Speed, "estimatedArrival": resp.EstimatedArrival,
		"weather": resp.Weather, "message": resp.Message,
		"city": resp.CurrentLocation.City, "region": resp.CurrentLocation.Region,
	} {
		if v == "" {
			t.Errorf("field %s left empty", name)
		}
	}
}

func TestResolveTotalMissReturnsSuggestions(t *testing.T) {
	pos := &stubPosition{states: []StateVector{
		airborne("XYZ3", 35, 135),
		airborne("UAL2", 36, 136),
		airborne("ANA1", 37, 137),
	}}
	svc := NewService([]Provider{pos}, nil, nil)

	res := svc.Resolve(context.Background(), Query{FlightNumber: "QQQ999"})

	if res.NotFound == nil {
		t.Fatalf("expected NotFound, got %+v", res)
	}
	if res.NotFound.Error == "" || res.NotFound.Suggestion == "" {
		t.Error("not-found outcome must carry actionable text")
	}
	want := []string{"ANA1", "UAL2", "XYZ3"}
	if len(res.NotFound.AvailableFlights) != len(want) {
		t.Fatalf("availableFlights = %v", res.NotFound.AvailableFlights)
	}
	for i, w := range want {
		if res.NotFound.AvailableFlights[i].Callsign != w {
			t.Errorf("availableFlights[%d] = %q, want %q", i, res.NotFound.AvailableFlights[i].Callsign, w)
		}
	}
}

func TestResolveBroadenedPrefixRetry(t *testing.T) {
	pos := &stubPosition{states: []StateVector{airborne("JAL51", 35, 135)}}
	svc := NewService([]Provider{pos}, nil, nil)

	res := svc.Resolve(context.Background(), Query{FlightNumber: "JAL999"})

	if res.Flight == nil {
		t.Fatalf("expected broadened prefix to locate the carrier, got %+v", res)
	}
	found := false
	for _, call := range pos.fetchCalls {
		if call == "JAL" {
			found = true
		}
	}
	if !found {
		t.Errorf("position adapter was not retried with the operator prefix: %v", pos.fetchCalls)
	}
}

func TestResolveIdempotent(t *testing.T) {
	svc := NewService([]Provider{&stubPosition{states: liveFeed()}}, nil, nil)
	q := Query{FlightNumber: "JAL123"}

	a, _ := json.Marshal(svc.Resolve(context.Background(), q).Flight)
	b, _ := json.Marshal(svc.Resolve(context.Background(), q).Flight)

	if string(a) != string(b) {
		t.Errorf("identical input produced different output:\n%s\n%s", a, b)
	}
}

func TestResolveGenerationFailureFallsBackExactly(t *testing.T) {
	q := Query{FlightNumber: "JAL123"}

	plain := NewService([]Provider{&stubPosition{states: liveFeed()}}, nil, nil)
	want, _ := json.Marshal(plain.Resolve(context.Background(), q).Flight)

	for name, gen := range map[string]*stubGenerator{
		"no JSON at all":   {reply: "I could not find that flight."},
		"missing status":   {reply: `{"currentLocation": {"latitude": 35.2}}`},
		"transport error":  {err: errors.New("upstream timeout")},
		"malformed object": {reply: "{status: in flight"},
	} {
		svc := NewService([]Provider{&stubPosition{states: liveFeed()}}, gen, nil)
		got, _ := json.Marshal(svc.Resolve(context.Background(), q).Flight)
		if string(got) != string(want) {
			t.Errorf("%s: output differs from deterministic composition:\n%s\n%s", name, got, want)
		}
	}
}

func TestResolveGenerationOutputReturnedWhenValid(t *testing.T) {
	gen := &stubGenerator{reply: "Here you go:\n" + `{"status": "in flight", "currentLocation": {"latitude": 35.2, "longitude": 139.8, "city": "Yokohama", "region": "Kanagawa"}, "origin": "Japan"}`}
	svc := NewService([]Provider{&stubPosition{states: liveFeed()}}, gen, nil)

	res := svc.Resolve(context.Background(), Query{FlightNumber: "JAL123"})

	m, ok := res.Flight.(map[string]interface{})
	if !ok {
		t.Fatalf("expected validated generation object, got %T", res.Flight)
	}
	if m["status"] != "in flight" {
		t.Errorf("status = %v", m["status"])
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
}

func TestResolveGenerationSkippedOnTotalMiss(t *testing.T) {
	gen := &stubGenerator{reply: `{"status": "x", "currentLocation": {}}`}
	svc := NewService([]Provider{&stubPosition{}}, gen, nil)

	res := svc.Resolve(context.Background(), Query{FlightNumber: "QQQ999"})

	if res.NotFound == nil {
		t.Fatal("expected NotFound")
	}
	if gen.calls != 0 {
		t.Errorf("generator must not run when every adapter missed; called %d times", gen.calls)
	}
}

func TestResolveRouteMode(t *testing.T) {
	pos := &stubPosition{states: []StateVector{
		airborne("ANA52", 35, 135),
		airborne("FAR99", 10, 135),
	}}
	svc := NewService([]Provider{pos}, nil, nil)

	res := svc.Resolve(context.Background(), Query{Departure: "Tokyo", Arrival: "osaka"})

	if res.Route == nil {
		t.Fatalf("expected route outcome, got %+v", res)
	}
	if res.Route.Departure.IATA != "HND" || res.Route.Arrival.IATA != "ITM" {
		t.Errorf("endpoints = %+v / %+v", res.Route.Departure, res.Route.Arrival)
	}
	if len(res.Route.AvailableFlights) != 1 || res.Route.AvailableFlights[0].Callsign != "ANA52" {
		t.Errorf("availableFlights = %v, want only the in-box candidate", res.Route.AvailableFlights)
	}
	if len(res.Route.SearchTips) == 0 {
		t.Error("route response must carry static search tips")
	}
}

func TestResolveAbsorbsProviderFailures(t *testing.T) {
	failing := &stubProvider{tag: SourceAviationStack, err: errors.New("quota exhausted")}
	svc := NewService([]Provider{&stubPosition{states: liveFeed()}, failing}, nil, nil)

	res := svc.Resolve(context.Background(), Query{FlightNumber: "JAL123"})

	resp, ok := res.Flight.(*Response)
	if !ok {
		t.Fatalf("expected composed response despite provider failure, got %+v", res)
	}
	if len(resp.DataSources) != 1 || resp.DataSources[0] != "opensky" {
		t.Errorf("dataSources = %v, want only the surviving adapter", resp.DataSources)
	}
}

func TestResolveAllProvidersFailingStillTerminates(t *testing.T) {
	pos := &stubPosition{fail: true}
	failing := &stubProvider{tag: SourceFlightLabs, err: errors.New("down")}
	svc := NewService([]Provider{pos, failing}, nil, nil)

	res := svc.Resolve(context.Background(), Query{FlightNumber: "JAL123"})

	if res.NotFound == nil {
		t.Fatalf("expected NotFound, got %+v", res)
	}
	if res.NotFound.AvailableFlights == nil {
		t.Error("availableFlights must be an empty list, not null")
	}
}
