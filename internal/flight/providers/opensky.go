package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/aviapedia/flight-tracker/internal/flight"
)

const defaultOpenSkyBaseURL = "https://opensky-network.org/api"

// OpenSkyProvider implements the flight.PositionProvider interface over the
// OpenSky Network bulk live-state feed. The feed needs no credentials.
type OpenSkyProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	box     flight.BoundingBox
}

func NewOpenSkyProvider(client *http.Client) *OpenSkyProvider {
	return &OpenSkyProvider{
		name:    "opensky",
		baseURL: defaultOpenSkyBaseURL,
		client:  client,
		circuit: newBreaker("opensky"),
		box:     flight.JapanBox,
	}
}

// WithBaseURL overrides the API endpoint (useful for testing).
func (p *OpenSkyProvider) WithBaseURL(u string) *OpenSkyProvider {
	p.baseURL = u
	return p
}

func (p *OpenSkyProvider) Name() string { return p.name }

func (p *OpenSkyProvider) Source() flight.SourceTag { return flight.SourceOpenSky }

// Fetch looks the identifier up in the full bulk feed. On transport failure
// or a miss it retries exactly once against the regional bounding box and
// reapplies the matcher; any remaining failure is a miss, never an error the
// pipeline would propagate.
func (p *OpenSkyProvider) Fetch(ctx context.Context, identifier string) (*flight.Record, error) {
	patterns := flight.Variants(identifier)
	if len(patterns) == 0 {
		return nil, nil
	}

	states, err := p.fetchStates(ctx, nil)
	if err == nil {
		if match := flight.Match(patterns, states); match != nil {
			return positionRecord(flight.SourceOpenSky, match), nil
		}
	}

	// Regional fallback: one retry with a fixed bounding box.
	states, fallbackErr := p.fetchStates(ctx, &p.box)
	if fallbackErr != nil {
		if err != nil {
			return nil, fmt.Errorf("bulk feed: %v; regional fallback: %w", err, fallbackErr)
		}
		return nil, nil
	}
	if match := flight.Match(patterns, states); match != nil {
		return positionRecord(flight.SourceOpenSkyJapan, match), nil
	}
	return nil, nil
}

// RegionalStates returns the regional live feed used for suggestions and
// route search.
func (p *OpenSkyProvider) RegionalStates(ctx context.Context) ([]flight.StateVector, error) {
	return p.fetchStates(ctx, &p.box)
}

// openSkyResponse mirrors the JSON shape returned by /states/all.
type openSkyResponse struct {
	Time   int64           `json:"time"`
	States [][]interface{} `json:"states"`
}

func (p *OpenSkyProvider) fetchStates(ctx context.Context, box *flight.BoundingBox) ([]flight.StateVector, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/states/all", p.baseURL)
		if box != nil {
			values := url.Values{}
			values.Set("lamin", fmt.Sprintf("%g", box.MinLat))
			values.Set("lomin", fmt.Sprintf("%g", box.MinLon))
			values.Set("lamax", fmt.Sprintf("%g", box.MaxLat))
			values.Set("lomax", fmt.Sprintf("%g", box.MaxLon))
			u = fmt.Sprintf("%s?%s", u, values.Encode())
		}
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw openSkyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing states: %w", err)
	}

	return parseStates(raw), nil
}

// parseStates converts the positional state tuples into StateVectors.
// Tuples shorter than the documented 17 elements are skipped.
func parseStates(raw openSkyResponse) []flight.StateVector {
	states := make([]flight.StateVector, 0, len(raw.States))
	for _, s := range raw.States {
		if len(s) < 17 {
			continue
		}
		sv := flight.StateVector{
			ICAO24:        stringVal(s[0]),
			Callsign:      stringVal(s[1]),
			OriginCountry: stringVal(s[2]),
			TimePosition:  intVal(s[3]),
			LastContact:   intVal(s[4]),
			Longitude:     floatVal(s[5]),
			Latitude:      floatVal(s[6]),
			BaroAltitude:  floatVal(s[7]),
			OnGround:      boolVal(s[8]),
			Velocity:      floatVal(s[9]),
			TrueTrack:     floatVal(s[10]),
			VerticalRate:  floatVal(s[11]),
			GeoAltitude:   floatVal(s[13]),
			Squawk:        stringVal(s[14]),
			Spi:           boolVal(s[15]),
		}
		if ps := floatVal(s[16]); ps != nil {
			sv.PositionSource = int(*ps)
		}
		states = append(states, sv)
	}
	return states
}

// positionRecord normalizes a matched state vector into the adapter output
// shape.
func positionRecord(source flight.SourceTag, s *flight.StateVector) *flight.Record {
	return &flight.Record{
		Source: source,
		Realtime: &flight.RealtimeBlock{
			ICAO24:        s.ICAO24,
			Callsign:      strings.TrimSpace(s.Callsign),
			OriginCountry: s.OriginCountry,
			Latitude:      s.Latitude,
			Longitude:     s.Longitude,
			BaroAltitude:  s.BaroAltitude,
			GeoAltitude:   s.GeoAltitude,
			Velocity:      s.Velocity,
			TrueTrack:     s.TrueTrack,
			VerticalRate:  s.VerticalRate,
			OnGround:      s.OnGround,
			LastContact:   s.LastContact,
			Squawk:        s.Squawk,
		},
	}
}

func stringVal(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func boolVal(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

func floatVal(v interface{}) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func intVal(v interface{}) *int64 {
	if f, ok := v.(float64); ok {
		n := int64(f)
		return &n
	}
	return nil
}
