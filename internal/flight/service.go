package flight

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// adapterTimeout bounds every outbound adapter call. The upstream providers
// have their own timeout behaviour, but a fixed per-call deadline keeps one
// slow collaborator from stalling the whole request.
const adapterTimeout = 10 * time.Second

// notFoundSearchTips is the static guidance attached to not-found responses.
var notFoundSearchTips = []string{
	"Use the airline's ICAO callsign prefix, e.g. JAL123 rather than JL123.",
	"The flight may not be airborne right now; live feeds only carry active flights.",
	"Try one of the currently airborne flights listed below.",
}

// Resolution is the terminal outcome of a resolve call. Exactly one field is
// non-nil: Flight holds either a *Response or a validated generation object
// for identifier queries, Route a route-mode result, NotFound a total miss.
type Resolution struct {
	Flight   interface{}
	Route    *RouteResponse
	NotFound *NotFoundResponse
}

// Service orchestrates the source adapters, the callsign matcher, the merge
// and fallback policy, and the optional text-generation pass. It holds no
// mutable state across requests; every record is built per request and
// discarded.
type Service struct {
	providers []Provider
	generator Generator       // nil = deterministic composition only
	geocode   ReverseGeocoder // nil = sentinel city/region
}

// NewService creates a Service over the registered adapters. generator and
// geocode may be nil; a missing collaborator silently narrows the pipeline
// rather than failing requests.
func NewService(providers []Provider, generator Generator, geocode ReverseGeocoder) *Service {
	return &Service{
		providers: providers,
		generator: generator,
		geocode:   geocode,
	}
}

// position returns the registered live-position adapter, if any.
func (s *Service) position() PositionProvider {
	for _, p := range s.providers {
		if pp, ok := p.(PositionProvider); ok {
			return pp
		}
	}
	return nil
}

// Resolve runs the full resolution pipeline for a query. No adapter or
// generation failure ever aborts the pipeline; it always terminates in one of
// the three outcome shapes.
func (s *Service) Resolve(ctx context.Context, q Query) *Resolution {
	if q.RouteMode() {
		return &Resolution{Route: s.searchRoute(ctx, q.Departure, q.Arrival)}
	}

	requestID := uuid.NewString()
	records := s.fanOut(ctx, requestID, q.FlightNumber)

	// Broadened operator-prefix retries against the position feed alone.
	if !hasSource(records, SourceOpenSky) && !hasSource(records, SourceOpenSkyJapan) {
		records = append(records, s.broadenedPosition(ctx, requestID, q.FlightNumber)...)
	}

	if len(records) == 0 {
		return &Resolution{NotFound: s.notFound(ctx, q.FlightNumber)}
	}

	fallback := Compose(q, records, s.geocode)

	if s.generator == nil {
		return &Resolution{Flight: fallback}
	}

	genCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	text, err := s.generator.Complete(genCtx, BuildPrompt(q, records))
	if err != nil {
		log.Printf("generation failed for %s (request %s): %v", q.FlightNumber, requestID, err)
		return &Resolution{Flight: fallback}
	}

	generated, ok := ExtractJSON(text)
	if !ok {
		log.Printf("generation output for %s (request %s) contained no JSON object; using deterministic composition", q.FlightNumber, requestID)
		return &Resolution{Flight: fallback}
	}

	return &Resolution{Flight: Shape(generated, fallback)}
}

// fanOut invokes every registered adapter concurrently and joins on all.
// Failures are logged and absorbed; partial results are the normal case.
func (s *Service) fanOut(ctx context.Context, requestID, identifier string) []Record {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		records []Record
	)

	for _, p := range s.providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
			defer cancel()

			rec, err := p.Fetch(callCtx, identifier)
			if err != nil {
				log.Printf("provider %s fetch failed for %s (request %s): %v", p.Name(), identifier, requestID, err)
				return
			}
			if rec == nil {
				return
			}

			mu.Lock()
			records = append(records, *rec)
			mu.Unlock()
		}()
	}

	wg.Wait()
	return records
}

// broadenedPosition retries the position adapter with up to three
// operator-code prefixes of decreasing length, stopping at the first hit.
func (s *Service) broadenedPosition(ctx context.Context, requestID, identifier string) []Record {
	pos := s.position()
	if pos == nil {
		return nil
	}

	for _, prefix := range BroadenedPrefixes(identifier) {
		callCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
		rec, err := pos.Fetch(callCtx, prefix)
		cancel()
		if err != nil {
			log.Printf("broadened position fetch %q failed for %s (request %s): %v", prefix, identifier, requestID, err)
			continue
		}
		if rec != nil {
			return []Record{*rec}
		}
	}
	return nil
}

// notFound builds the total-miss outcome, carrying a curated list of
// currently airborne flights so the caller can offer alternatives.
func (s *Service) notFound(ctx context.Context, identifier string) *NotFoundResponse {
	resp := &NotFoundResponse{
		Error:            "No flight information found for " + strings.TrimSpace(identifier) + ". Check the flight number.",
		Suggestion:       "The flight may not be airborne, or its callsign may differ from the flight number.",
		AvailableFlights: []CandidateFlight{},
		SearchTips:       notFoundSearchTips,
	}

	pos := s.position()
	if pos == nil {
		return resp
	}

	callCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	states, err := pos.RegionalStates(callCtx)
	if err != nil {
		log.Printf("regional feed unavailable while building suggestions for %s: %v", identifier, err)
		return resp
	}

	resp.AvailableFlights = PrioritizeSuggestions(states)
	return resp
}

// searchRoute resolves both endpoints through the fixed place-name table and
// returns currently airborne flights inside the regional box. This is a
// nearby-traffic approximation, not an origin-to-destination path search.
func (s *Service) searchRoute(ctx context.Context, departure, arrival string) *RouteResponse {
	resp := &RouteResponse{
		Departure:        ResolveEndpoint(departure),
		Arrival:          ResolveEndpoint(arrival),
		AvailableFlights: []CandidateFlight{},
		SearchTips:       routeSearchTips,
		Message:          "Flights currently airborne in the region; not a scheduled-route search.",
	}

	pos := s.position()
	if pos == nil {
		return resp
	}

	callCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	states, err := pos.RegionalStates(callCtx)
	if err != nil {
		log.Printf("regional feed unavailable for route %s-%s: %v", departure, arrival, err)
		return resp
	}

	resp.AvailableFlights = FilterAirborne(states, JapanBox, routeCandidateCap)
	return resp
}

func hasSource(records []Record, tag SourceTag) bool {
	for i := range records {
		if records[i].Source == tag {
			return true
		}
	}
	return false
}
