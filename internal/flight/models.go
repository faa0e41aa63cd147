package flight

// SourceTag identifies which upstream provider produced a record.
type SourceTag string

const (
	SourceOpenSky       SourceTag = "opensky"
	SourceOpenSkyJapan  SourceTag = "opensky_japan"
	SourceAviationStack SourceTag = "aviationstack"
	SourceFlightLabs    SourceTag = "flightlabs"
	SourceSerpAPI       SourceTag = "serpapi"
)

// Unknown is the sentinel filled into every response field the upstream
// providers had no data for. The calling surface never sees a missing field.
const Unknown = "unknown"

// Default coordinates (Tokyo) used when no position data is available at all.
const (
	DefaultLatitude  = 35.6762
	DefaultLongitude = 139.6503
)

// StateVector is one entry of the bulk live-position feed. Fields that the
// feed reports as null are nil pointers. Fetched fresh per request, never
// persisted.
type StateVector struct {
	ICAO24         string   `json:"icao24"`
	Callsign       string   `json:"callsign"` // may be blank or whitespace-padded
	OriginCountry  string   `json:"origin_country"`
	TimePosition   *int64   `json:"time_position"`
	LastContact    *int64   `json:"last_contact"`
	Longitude      *float64 `json:"longitude"`
	Latitude       *float64 `json:"latitude"`
	BaroAltitude   *float64 `json:"baro_altitude"`
	OnGround       bool     `json:"on_ground"`
	Velocity       *float64 `json:"velocity"`
	TrueTrack      *float64 `json:"true_track"`
	VerticalRate   *float64 `json:"vertical_rate"`
	GeoAltitude    *float64 `json:"geo_altitude"`
	Squawk         string   `json:"squawk"`
	Spi            bool     `json:"spi"`
	PositionSource int      `json:"position_source"`
}

// Record is a single provider's normalized view of a flight. Every block is
// optional; a nil block means "this provider had nothing", not an error.
type Record struct {
	Source   SourceTag      `json:"source"`
	Realtime *RealtimeBlock `json:"realtime,omitempty"`
	Schedule *ScheduleBlock `json:"schedule,omitempty"`
	Detail   *DetailBlock   `json:"detail,omitempty"`

	// Evidence holds unstructured text snippets (search results) when a
	// provider found no structured flight block.
	Evidence []string `json:"evidence,omitempty"`
}

// RealtimeBlock carries live-position data from the bulk feed.
type RealtimeBlock struct {
	ICAO24        string   `json:"icao24"`
	Callsign      string   `json:"callsign"`
	OriginCountry string   `json:"originCountry"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	BaroAltitude  *float64 `json:"baroAltitude"`
	GeoAltitude   *float64 `json:"geoAltitude"`
	Velocity      *float64 `json:"velocity"`
	TrueTrack     *float64 `json:"trueTrack"`
	VerticalRate  *float64 `json:"verticalRate"`
	OnGround      bool     `json:"onGround"`
	LastContact   *int64   `json:"lastContact"`
	Squawk        string   `json:"squawk"`
}

// ScheduleBlock carries airline schedule data from an authenticated feed.
type ScheduleBlock struct {
	Airline      string   `json:"airline"`
	FlightNumber string   `json:"flightNumber"`
	Registration string   `json:"registration"`
	Departure    Movement `json:"departure"`
	Arrival      Movement `json:"arrival"`
}

// Movement describes one end of a scheduled flight.
type Movement struct {
	Airport   string `json:"airport"`
	Terminal  string `json:"terminal"`
	Gate      string `json:"gate"`
	Scheduled string `json:"scheduled"`
	Estimated string `json:"estimated"`
	Actual    string `json:"actual"`
}

// DetailBlock carries aircraft/route detail from a detail feed.
type DetailBlock struct {
	AircraftModel string `json:"aircraftModel"`
	Route         string `json:"route"`
	Status        string `json:"status"`
}

// Location is a point with an inferred city and region.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Region    string  `json:"region"`
}

// Response is the fixed contract returned to the calling surface for an
// identifier query. Every field is always populated; missing upstream data is
// filled with the Unknown sentinel so the caller never needs null checks.
type Response struct {
	Status           string    `json:"status"`
	CurrentLocation  Location  `json:"currentLocation"`
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	Altitude         string    `json:"altitude"`
	Speed            string    `json:"speed"`
	EstimatedArrival string    `json:"estimatedArrival"`
	Weather          string    `json:"weather"`
	Message          string    `json:"message"`
	Departure        *Movement `json:"departure,omitempty"`
	Arrival          *Movement `json:"arrival,omitempty"`
	DataSources      []string  `json:"dataSources,omitempty"`
}

// Endpoint is a route-search endpoint resolved to airport codes. Unresolvable
// names pass through uppercased with empty codes.
type Endpoint struct {
	Query string `json:"query"`
	ICAO  string `json:"icao"`
	IATA  string `json:"iata"`
	Name  string `json:"name"`
}

// CandidateFlight is one currently-airborne flight offered as a suggestion or
// route-search candidate.
type CandidateFlight struct {
	Callsign      string  `json:"callsign"`
	OriginCountry string  `json:"originCountry"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Altitude      float64 `json:"altitude"`
	Velocity      float64 `json:"velocity"`
}

// RouteResponse is the output shape for a route (origin+destination) query.
// Candidates are an approximation of what is currently flying in the region,
// not a true origin-to-destination path search.
type RouteResponse struct {
	Departure        Endpoint          `json:"departure"`
	Arrival          Endpoint          `json:"arrival"`
	AvailableFlights []CandidateFlight `json:"availableFlights"`
	SearchTips       []string          `json:"searchTips"`
	Message          string            `json:"message"`
}

// NotFoundResponse is returned when every adapter missed. It carries
// actionable suggestions rather than a bare error.
type NotFoundResponse struct {
	Error            string            `json:"error"`
	Suggestion       string            `json:"suggestion"`
	AvailableFlights []CandidateFlight `json:"availableFlights"`
	SearchTips       []string          `json:"searchTips"`
}

// Query is the parsed inbound request. Exactly one mode is valid: either
// FlightNumber is set (identifier mode) or both Departure and Arrival are set
// (route mode).
type Query struct {
	FlightNumber  string
	AircraftModel string // cosmetic, passed through for display only
	Departure     string
	Arrival       string
}

// RouteMode reports whether the query is a route search.
func (q Query) RouteMode() bool {
	return q.FlightNumber == "" && q.Departure != "" && q.Arrival != ""
}
