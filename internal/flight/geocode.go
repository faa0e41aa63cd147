package flight

import (
	"log"

	"github.com/kelvins/geocoder"
)

// NewGoogleReverseGeocoder wires the Google Geocoding API as the optional
// city/region resolver for the deterministic composition. The geocoder
// package holds its key globally, so the key is set once here at wiring time.
// Every failure degrades to ok=false and the sentinel, never an error.
func NewGoogleReverseGeocoder(apiKey string) ReverseGeocoder {
	geocoder.ApiKey = apiKey

	return func(lat, lon float64) (city, region string, ok bool) {
		addresses, err := geocoder.GeocodingReverse(geocoder.Location{
			Latitude:  lat,
			Longitude: lon,
		})
		if err != nil || len(addresses) == 0 {
			log.Printf("reverse geocode failed for (%f, %f): %v", lat, lon, err)
			return "", "", false
		}

		addr := addresses[0]
		city = addr.City
		region = addr.State
		if region == "" {
			region = addr.Country
		}
		if city == "" && region == "" {
			return "", "", false
		}
		if city == "" {
			city = Unknown
		}
		if region == "" {
			region = Unknown
		}
		return city, region, true
	}
}
