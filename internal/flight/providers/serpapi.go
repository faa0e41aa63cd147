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

const (
	defaultSerpAPIBaseURL = "https://serpapi.com"

	// probeURL is fetched unauthenticated when the structured search fails,
	// purely to confirm the search engine is reachable at all.
	defaultProbeURL = "https://www.google.com/search"

	organicEvidenceLimit = 5
)

// SerpAPIProvider implements the flight.Provider interface over a structured
// web-search feed. Preference order: structured flight answer box, then the
// first organic results as unstructured evidence, then a bare reachability
// probe yielding a minimal placeholder record.
type SerpAPIProvider struct {
	name     string
	apiKey   string
	baseURL  string
	probeURL string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
}

func NewSerpAPIProvider(client *http.Client, apiKey string) *SerpAPIProvider {
	return &SerpAPIProvider{
		name:     "serpapi",
		apiKey:   apiKey,
		baseURL:  defaultSerpAPIBaseURL,
		probeURL: defaultProbeURL,
		client:   client,
		circuit:  newBreaker("serpapi"),
	}
}

// WithBaseURL overrides the API endpoint (useful for testing).
func (p *SerpAPIProvider) WithBaseURL(u string) *SerpAPIProvider {
	p.baseURL = u
	return p
}

// WithProbeURL overrides the fallback probe target (useful for testing).
func (p *SerpAPIProvider) WithProbeURL(u string) *SerpAPIProvider {
	p.probeURL = u
	return p
}

func (p *SerpAPIProvider) Name() string { return p.name }

func (p *SerpAPIProvider) Source() flight.SourceTag { return flight.SourceSerpAPI }

// serpAPIResponse mirrors the structured search payload, reduced to the
// flight answer box and organic results.
type serpAPIResponse struct {
	AnswerBox struct {
		Type      string `json:"type"`
		Title     string `json:"title"`
		Airline   string `json:"airline"`
		Status    string `json:"status"`
		Departure struct {
			Airport string `json:"airport"`
			Time    string `json:"time"`
		} `json:"departure"`
		Arrival struct {
			Airport string `json:"airport"`
			Time    string `json:"time"`
		} `json:"arrival"`
	} `json:"answer_box"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// Fetch issues one structured search for the identifier. A structured flight
// block is normalized into schedule fields; otherwise the first organic
// results become unstructured evidence; on total failure a plain HTML fetch
// confirms reachability and yields a placeholder record.
func (p *SerpAPIProvider) Fetch(ctx context.Context, identifier string) (*flight.Record, error) {
	if p.apiKey == "" {
		return nil, nil
	}

	payload, err := p.search(ctx, identifier)
	if err != nil {
		if p.probe(ctx, identifier) {
			return &flight.Record{
				Source:   flight.SourceSerpAPI,
				Evidence: []string{fmt.Sprintf("search engine reachable for %q; no structured data", identifier)},
			}, nil
		}
		return nil, err
	}

	if box := payload.AnswerBox; box.Status != "" || box.Departure.Airport != "" {
		rec := &flight.Record{
			Source: flight.SourceSerpAPI,
			Schedule: &flight.ScheduleBlock{
				Airline:      box.Airline,
				FlightNumber: identifier,
				Departure:    flight.Movement{Airport: box.Departure.Airport, Scheduled: box.Departure.Time},
				Arrival:      flight.Movement{Airport: box.Arrival.Airport, Scheduled: box.Arrival.Time},
			},
			Detail: &flight.DetailBlock{Status: box.Status},
		}
		return rec, nil
	}

	if len(payload.OrganicResults) > 0 {
		limit := organicEvidenceLimit
		if len(payload.OrganicResults) < limit {
			limit = len(payload.OrganicResults)
		}
		evidence := make([]string, 0, limit)
		for _, r := range payload.OrganicResults[:limit] {
			evidence = append(evidence, fmt.Sprintf("%s: %s", r.Title, r.Snippet))
		}
		return &flight.Record{Source: flight.SourceSerpAPI, Evidence: evidence}, nil
	}

	return nil, nil
}

func (p *SerpAPIProvider) search(ctx context.Context, identifier string) (*serpAPIResponse, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("engine", "google")
		values.Set("q", fmt.Sprintf("%s flight status", identifier))
		values.Set("api_key", p.apiKey)

		u := fmt.Sprintf("%s/search.json?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}
	return &payload, nil
}

// probe fetches a plain search results page without credentials, only to
// confirm reachability. The body is never parsed.
func (p *SerpAPIProvider) probe(ctx context.Context, identifier string) bool {
	u := fmt.Sprintf("%s?q=%s", p.probeURL, url.QueryEscape(identifier+" flight status"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
