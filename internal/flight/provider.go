package flight

import "context"

// Provider abstracts one upstream flight-data source. Fetch returns a
// normalized partial record for the identifier, or (nil, nil) when the
// provider had no data. Transport errors may be returned for logging; the
// resolution pipeline treats them the same as a miss and never propagates
// them to the caller.
type Provider interface {
	Name() string
	Source() SourceTag
	Fetch(ctx context.Context, identifier string) (*Record, error)
}

// PositionProvider is implemented by the live-position adapter. Beyond
// identifier lookup it exposes the regional bulk feed, which the pipeline
// uses for not-found suggestions and route search.
type PositionProvider interface {
	Provider
	RegionalStates(ctx context.Context) ([]StateVector, error)
}

// Generator is a one-shot text completion collaborator. It is treated as just
// another unreliable adapter: output that fails to parse is discarded in favor
// of the deterministic composition.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ReverseGeocoder maps coordinates to a city and region. Implementations
// return ok=false on any failure; the composition then falls back to the
// Unknown sentinel.
type ReverseGeocoder func(lat, lon float64) (city, region string, ok bool)
