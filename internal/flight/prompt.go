package flight

import (
	"fmt"
	"strings"
	"time"
)

// BuildPrompt renders the collected adapter data into a one-shot completion
// prompt asking for the fixed response schema. The generation output is
// parsed with ExtractJSON and validated by Shape; anything else is discarded.
func BuildPrompt(q Query, records []Record) string {
	var b strings.Builder

	b.WriteString("The following real-time flight data was collected from live aviation data sources. ")
	b.WriteString("Organize it into a clear, human-readable summary.\n\n")

	fmt.Fprintf(&b, "Requested flight number: %s\n", q.FlightNumber)
	if q.AircraftModel != "" {
		fmt.Fprintf(&b, "Aircraft type (user supplied): %s\n", q.AircraftModel)
	}

	for _, r := range records {
		fmt.Fprintf(&b, "\nData source: %s\n", r.Source)
		if rt := r.Realtime; rt != nil {
			fmt.Fprintf(&b, "  Callsign: %s\n", strings.TrimSpace(rt.Callsign))
			fmt.Fprintf(&b, "  Origin country: %s\n", rt.OriginCountry)
			fmt.Fprintf(&b, "  Position: latitude %s, longitude %s\n", floatOrUnknown(rt.Latitude), floatOrUnknown(rt.Longitude))
			fmt.Fprintf(&b, "  Altitude: %sm barometric (%sm geometric)\n", floatOrUnknown(rt.BaroAltitude), floatOrUnknown(rt.GeoAltitude))
			if rt.OnGround {
				b.WriteString("  State: on ground\n")
			} else {
				b.WriteString("  State: in flight\n")
			}
			fmt.Fprintf(&b, "  Speed: %sm/s, track %s degrees, vertical rate %sm/s\n",
				floatOrUnknown(rt.Velocity), floatOrUnknown(rt.TrueTrack), floatOrUnknown(rt.VerticalRate))
			fmt.Fprintf(&b, "  ICAO24: %s\n", rt.ICAO24)
			if rt.LastContact != nil {
				fmt.Fprintf(&b, "  Last contact: %s\n", time.Unix(*rt.LastContact, 0).UTC().Format(time.RFC3339))
			}
		}
		if sc := r.Schedule; sc != nil {
			fmt.Fprintf(&b, "  Airline: %s, flight %s, registration %s\n", sc.Airline, sc.FlightNumber, sc.Registration)
			fmt.Fprintf(&b, "  Departure: %s terminal %s gate %s, scheduled %s, estimated %s, actual %s\n",
				sc.Departure.Airport, sc.Departure.Terminal, sc.Departure.Gate,
				sc.Departure.Scheduled, sc.Departure.Estimated, sc.Departure.Actual)
			fmt.Fprintf(&b, "  Arrival: %s terminal %s gate %s, scheduled %s, estimated %s, actual %s\n",
				sc.Arrival.Airport, sc.Arrival.Terminal, sc.Arrival.Gate,
				sc.Arrival.Scheduled, sc.Arrival.Estimated, sc.Arrival.Actual)
		}
		if d := r.Detail; d != nil {
			fmt.Fprintf(&b, "  Aircraft model: %s, route: %s, status: %s\n", d.AircraftModel, d.Route, d.Status)
		}
		for _, ev := range r.Evidence {
			fmt.Fprintf(&b, "  Search evidence: %s\n", ev)
		}
	}

	b.WriteString(`
Based on this data, respond with ONLY a JSON object in exactly this shape:
{
  "status": "flight status",
  "currentLocation": {
    "latitude": <number>,
    "longitude": <number>,
    "city": "nearest city (best guess)",
    "region": "region (best guess)"
  },
  "origin": "departure location",
  "destination": "arrival location (best guess)",
  "altitude": "<altitude>m",
  "speed": "<speed>km/h",
  "estimatedArrival": "estimated arrival time (best guess)",
  "weather": "estimated weather at current location",
  "message": "one-line summary of the tracking data"
}
`)

	return b.String()
}

func floatOrUnknown(f *float64) string {
	if f == nil {
		return Unknown
	}
	return fmt.Sprintf("%g", *f)
}
