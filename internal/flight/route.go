package flight

import "strings"

// BoundingBox is a geographic filter in degrees.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Contains reports whether the point lies inside the box (inclusive).
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// JapanBox is the regional bounding box used for the position-feed fallback
// query, route-search candidates, and not-found suggestions.
var JapanBox = BoundingBox{MinLat: 24, MaxLat: 46, MinLon: 123, MaxLon: 146}

// routeCandidateCap bounds the number of candidates in a route response.
const routeCandidateCap = 20

// airport is an ICAO/IATA/name triple for the fixed place-name table.
type airport struct {
	ICAO string
	IATA string
	Name string
}

// airportTable maps lowercased common place names to airports. Unresolvable
// names pass through uppercased as-is.
var airportTable = map[string]airport{
	"tokyo":     {ICAO: "RJTT", IATA: "HND", Name: "Tokyo Haneda"},
	"haneda":    {ICAO: "RJTT", IATA: "HND", Name: "Tokyo Haneda"},
	"narita":    {ICAO: "RJAA", IATA: "NRT", Name: "Tokyo Narita"},
	"osaka":     {ICAO: "RJOO", IATA: "ITM", Name: "Osaka Itami"},
	"itami":     {ICAO: "RJOO", IATA: "ITM", Name: "Osaka Itami"},
	"kansai":    {ICAO: "RJBB", IATA: "KIX", Name: "Kansai International"},
	"sapporo":   {ICAO: "RJCC", IATA: "CTS", Name: "Sapporo New Chitose"},
	"chitose":   {ICAO: "RJCC", IATA: "CTS", Name: "Sapporo New Chitose"},
	"nagoya":    {ICAO: "RJGG", IATA: "NGO", Name: "Nagoya Chubu Centrair"},
	"chubu":     {ICAO: "RJGG", IATA: "NGO", Name: "Nagoya Chubu Centrair"},
	"fukuoka":   {ICAO: "RJFF", IATA: "FUK", Name: "Fukuoka"},
	"naha":      {ICAO: "ROAH", IATA: "OKA", Name: "Naha"},
	"okinawa":   {ICAO: "ROAH", IATA: "OKA", Name: "Naha"},
	"sendai":    {ICAO: "RJSS", IATA: "SDJ", Name: "Sendai"},
	"hiroshima": {ICAO: "RJOA", IATA: "HIJ", Name: "Hiroshima"},
}

// ResolveEndpoint resolves a free-text route endpoint through the fixed
// place-name table.
func ResolveEndpoint(query string) Endpoint {
	trimmed := strings.TrimSpace(query)
	if a, ok := airportTable[strings.ToLower(trimmed)]; ok {
		return Endpoint{Query: trimmed, ICAO: a.ICAO, IATA: a.IATA, Name: a.Name}
	}
	return Endpoint{Query: trimmed, Name: strings.ToUpper(trimmed)}
}

// routeSearchTips is the static guidance attached to route responses.
var routeSearchTips = []string{
	"Route results list flights currently airborne in the region, not scheduled service between the two airports.",
	"For a specific flight use its flight number, e.g. JAL123 or NH006.",
	"Callsigns may differ from marketing flight numbers; try the airline's ICAO code prefix.",
}

// FilterAirborne returns the states inside the box whose on-ground flag is
// false, capped at limit, as candidate flights. States without coordinates
// are skipped.
func FilterAirborne(states []StateVector, box BoundingBox, limit int) []CandidateFlight {
	out := make([]CandidateFlight, 0, limit)
	for i := range states {
		s := &states[i]
		if s.OnGround || s.Latitude == nil || s.Longitude == nil {
			continue
		}
		if !box.Contains(*s.Latitude, *s.Longitude) {
			continue
		}
		out = append(out, toCandidate(s))
		if len(out) >= limit {
			break
		}
	}
	return out
}

func toCandidate(s *StateVector) CandidateFlight {
	c := CandidateFlight{
		Callsign:      strings.TrimSpace(s.Callsign),
		OriginCountry: s.OriginCountry,
	}
	if s.Latitude != nil {
		c.Latitude = *s.Latitude
	}
	if s.Longitude != nil {
		c.Longitude = *s.Longitude
	}
	if s.BaroAltitude != nil {
		c.Altitude = *s.BaroAltitude
	}
	if s.Velocity != nil {
		c.Velocity = *s.Velocity
	}
	return c
}

// Carrier allow-lists used to prioritize not-found suggestions. Domestic
// carriers come first, then the listed international carriers, then the rest.
var (
	domesticPrefixes = []string{
		"JAL", "ANA", "JTA", "SKY", "ADO", "SNA", "SFJ", "APJ", "JJP", "WAJ", "IBX", "FDA",
	}
	internationalPrefixes = []string{
		"UAL", "AAL", "DAL", "KAL", "AAR", "CPA", "CES", "CSN", "SIA", "THA", "EVA", "CAL",
	}
)

// Per-group caps for the suggestion list.
const (
	domesticSuggestionCap      = 8
	internationalSuggestionCap = 6
	otherSuggestionCap         = 6
	suggestionCap              = 20
)

// PrioritizeSuggestions orders airborne candidates for a not-found response:
// domestic allow-list first, then international allow-list, then everything
// else, each group truncated to its cap and the whole list capped at 20.
// Within a group, feed order is preserved.
func PrioritizeSuggestions(states []StateVector) []CandidateFlight {
	var domestic, international, other []CandidateFlight

	for i := range states {
		s := &states[i]
		if s.OnGround || s.Latitude == nil || s.Longitude == nil {
			continue
		}
		callsign := strings.TrimSpace(s.Callsign)
		if callsign == "" {
			continue
		}
		switch {
		case hasAnyPrefix(callsign, domesticPrefixes):
			if len(domestic) < domesticSuggestionCap {
				domestic = append(domestic, toCandidate(s))
			}
		case hasAnyPrefix(callsign, internationalPrefixes):
			if len(international) < internationalSuggestionCap {
				international = append(international, toCandidate(s))
			}
		default:
			if len(other) < otherSuggestionCap {
				other = append(other, toCandidate(s))
			}
		}
	}

	out := make([]CandidateFlight, 0, len(domestic)+len(international)+len(other))
	out = append(out, domestic...)
	out = append(out, international...)
	out = append(out, other...)
	if len(out) > suggestionCap {
		out = out[:suggestionCap]
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
