package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/aviapedia/flight-tracker/internal/flight"
)

const defaultFlightLabsBaseURL = "https://app.goflightlabs.com"

// FlightLabsProvider implements the flight.Provider interface over the
// FlightLabs detail feed. Like the schedule feed it is gated by an API key
// and returns a miss without one.
type FlightLabsProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewFlightLabsProvider(client *http.Client, apiKey string) *FlightLabsProvider {
	return &FlightLabsProvider{
		name:    "flightlabs",
		apiKey:  apiKey,
		baseURL: defaultFlightLabsBaseURL,
		client:  client,
		circuit: newBreaker("flightlabs"),
	}
}

// WithBaseURL overrides the API endpoint (useful for testing).
func (p *FlightLabsProvider) WithBaseURL(u string) *FlightLabsProvider {
	p.baseURL = u
	return p
}

func (p *FlightLabsProvider) Name() string { return p.name }

func (p *FlightLabsProvider) Source() flight.SourceTag { return flight.SourceFlightLabs }

// flightLabsResponse mirrors the /flights payload, reduced to the fields the
// detail block needs.
type flightLabsResponse struct {
	Data []struct {
		Status       string `json:"status"`
		DepIATA      string `json:"dep_iata"`
		ArrIATA      string `json:"arr_iata"`
		AircraftICAO string `json:"aircraft_icao"`
		RegNumber    string `json:"reg_number"`
	} `json:"data"`
}

// Fetch issues one authenticated lookup by flight code. Non-success status or
// an empty result array is a miss; there is no retry.
func (p *FlightLabsProvider) Fetch(ctx context.Context, identifier string) (*flight.Record, error) {
	if p.apiKey == "" {
		return nil, nil
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("access_key", p.apiKey)
		values.Set("flight_iata", identifier)

		u := fmt.Sprintf("%s/flights?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload flightLabsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing flights: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, nil
	}

	d := payload.Data[0]
	route := ""
	if d.DepIATA != "" && d.ArrIATA != "" {
		route = fmt.Sprintf("%s-%s", d.DepIATA, d.ArrIATA)
	}

	rec := &flight.Record{
		Source: flight.SourceFlightLabs,
		Detail: &flight.DetailBlock{
			AircraftModel: d.AircraftICAO,
			Route:         route,
			Status:        d.Status,
		},
	}
	if d.RegNumber != "" {
		rec.Schedule = &flight.ScheduleBlock{Registration: d.RegNumber}
	}
	return rec, nil
}
