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

const defaultAviationStackBaseURL = "https://api.aviationstack.com/v1"

// AviationStackProvider implements the flight.Provider interface over the
// AviationStack schedule feed. It requires an API key; without one the
// adapter short-circuits to a miss without a network call.
type AviationStackProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewAviationStackProvider(client *http.Client, apiKey string) *AviationStackProvider {
	return &AviationStackProvider{
		name:    "aviationstack",
		apiKey:  apiKey,
		baseURL: defaultAviationStackBaseURL,
		client:  client,
		circuit: newBreaker("aviationstack"),
	}
}

// WithBaseURL overrides the API endpoint (useful for testing).
func (p *AviationStackProvider) WithBaseURL(u string) *AviationStackProvider {
	p.baseURL = u
	return p
}

func (p *AviationStackProvider) Name() string { return p.name }

func (p *AviationStackProvider) Source() flight.SourceTag { return flight.SourceAviationStack }

// aviationStackResponse mirrors the /flights payload, reduced to the fields
// the schedule block needs.
type aviationStackResponse struct {
	Data []struct {
		FlightStatus string `json:"flight_status"`
		Airline      struct {
			Name string `json:"name"`
		} `json:"airline"`
		Flight struct {
			IATA string `json:"iata"`
		} `json:"flight"`
		Aircraft struct {
			Registration string `json:"registration"`
		} `json:"aircraft"`
		Departure aviationStackMovement `json:"departure"`
		Arrival   aviationStackMovement `json:"arrival"`
	} `json:"data"`
}

type aviationStackMovement struct {
	Airport   string `json:"airport"`
	Terminal  string `json:"terminal"`
	Gate      string `json:"gate"`
	Scheduled string `json:"scheduled"`
	Estimated string `json:"estimated"`
	Actual    string `json:"actual"`
}

// Fetch issues one authenticated lookup by flight code. Non-success status or
// an empty result array is a miss; there is no retry.
func (p *AviationStackProvider) Fetch(ctx context.Context, identifier string) (*flight.Record, error) {
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

	var payload aviationStackResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing flights: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, nil
	}

	d := payload.Data[0]
	return &flight.Record{
		Source: flight.SourceAviationStack,
		Schedule: &flight.ScheduleBlock{
			Airline:      d.Airline.Name,
			FlightNumber: d.Flight.IATA,
			Registration: d.Aircraft.Registration,
			Departure:    toMovement(d.Departure),
			Arrival:      toMovement(d.Arrival),
		},
		Detail: &flight.DetailBlock{
			Status: d.FlightStatus,
		},
	}, nil
}

func toMovement(m aviationStackMovement) flight.Movement {
	return flight.Movement{
		Airport:   m.Airport,
		Terminal:  m.Terminal,
		Gate:      m.Gate,
		Scheduled: m.Scheduled,
		Estimated: m.Estimated,
		Actual:    m.Actual,
	}
}
