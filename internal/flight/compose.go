package flight

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Compose builds the deterministic response directly from whatever adapter
// fields are present. Every field of the result is defined: missing upstream
// data becomes the Unknown sentinel, never an omitted field. This composition
// is the final fallback for every identifier-mode request and is used
// verbatim when no generation credential is configured.
func Compose(q Query, records []Record, geocode ReverseGeocoder) *Response {
	var (
		realtime *RealtimeBlock
		schedule *ScheduleBlock
		detail   *DetailBlock
	)
	sources := make([]string, 0, len(records))
	for i := range records {
		r := &records[i]
		sources = append(sources, string(r.Source))
		if realtime == nil && r.Realtime != nil {
			realtime = r.Realtime
		}
		if schedule == nil && r.Schedule != nil {
			schedule = r.Schedule
		}
		if detail == nil && r.Detail != nil {
			detail = r.Detail
		}
	}
	// The merge treats adapters as an unordered set; sorting keeps the
	// output identical regardless of completion order.
	sort.Strings(sources)

	resp := &Response{
		Status:           Unknown,
		Origin:           Unknown,
		Destination:      Unknown,
		Altitude:         Unknown,
		Speed:            Unknown,
		EstimatedArrival: Unknown,
		Weather:          Unknown,
		CurrentLocation: Location{
			Latitude:  DefaultLatitude,
			Longitude: DefaultLongitude,
			City:      Unknown,
			Region:    Unknown,
		},
		DataSources: sources,
	}

	if realtime != nil {
		if realtime.OnGround {
			resp.Status = "on ground"
		} else {
			resp.Status = "in flight"
		}
		if realtime.Latitude != nil && realtime.Longitude != nil {
			resp.CurrentLocation.Latitude = *realtime.Latitude
			resp.CurrentLocation.Longitude = *realtime.Longitude
			if geocode != nil {
				if city, region, ok := geocode(*realtime.Latitude, *realtime.Longitude); ok {
					resp.CurrentLocation.City = city
					resp.CurrentLocation.Region = region
				}
			}
		}
		if resp.CurrentLocation.Region == Unknown && realtime.OriginCountry != "" {
			resp.CurrentLocation.Region = realtime.OriginCountry
		}
		if realtime.OriginCountry != "" {
			resp.Origin = realtime.OriginCountry
		}
		if realtime.BaroAltitude != nil {
			resp.Altitude = fmt.Sprintf("%.0fm", *realtime.BaroAltitude)
		}
		if realtime.Velocity != nil {
			// m/s to km/h.
			resp.Speed = fmt.Sprintf("%dkm/h", int(math.Round(*realtime.Velocity*3.6)))
		}
	}

	if detail != nil {
		if resp.Status == Unknown && detail.Status != "" {
			resp.Status = detail.Status
		}
		if resp.Destination == Unknown && detail.Route != "" {
			resp.Destination = detail.Route
		}
	}

	if schedule != nil {
		if schedule.Departure.Airport != "" {
			resp.Origin = schedule.Departure.Airport
		}
		if schedule.Arrival.Airport != "" {
			resp.Destination = schedule.Arrival.Airport
		}
		switch {
		case schedule.Arrival.Estimated != "":
			resp.EstimatedArrival = schedule.Arrival.Estimated
		case schedule.Arrival.Scheduled != "":
			resp.EstimatedArrival = schedule.Arrival.Scheduled
		}
		dep, arr := schedule.Departure, schedule.Arrival
		resp.Departure = fillMovement(&dep)
		resp.Arrival = fillMovement(&arr)
	}

	identifier := q.FlightNumber
	if realtime != nil && strings.TrimSpace(realtime.Callsign) != "" {
		identifier = strings.TrimSpace(realtime.Callsign)
	}
	model := ""
	if q.AircraftModel != "" {
		model = fmt.Sprintf(" (%s)", q.AircraftModel)
	}
	resp.Message = fmt.Sprintf("Live tracking data for flight %s%s assembled from: %s.",
		identifier, model, strings.Join(sources, ", "))

	return resp
}

// fillMovement replaces empty movement fields with the sentinel so the
// itemized blocks obey the same no-missing-fields contract.
func fillMovement(m *Movement) *Movement {
	out := *m
	for _, f := range []*string{&out.Airport, &out.Terminal, &out.Gate, &out.Scheduled, &out.Estimated, &out.Actual} {
		if *f == "" {
			*f = Unknown
		}
	}
	return &out
}

// Shape validates a generated response object against the output contract.
// Any object lacking a non-empty status or a currentLocation is discarded in
// favor of the deterministic fallback; a partially-applied generation result
// is never returned.
func Shape(generated map[string]interface{}, fallback *Response) interface{} {
	if generated == nil {
		return fallback
	}
	status, ok := generated["status"].(string)
	if !ok || strings.TrimSpace(status) == "" {
		return fallback
	}
	if _, ok := generated["currentLocation"]; !ok {
		return fallback
	}
	return generated
}

// ExtractJSON parses the largest brace-delimited substring of a generation
// response as a JSON object. ok is false when no parsable object is found.
func ExtractJSON(s string) (map[string]interface{}, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s[start:end+1]), &out); err != nil {
		return nil, false
	}
	return out, true
}
