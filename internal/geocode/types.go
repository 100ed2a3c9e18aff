package geocode

import "encoding/json"

// Suggestion is one geocoding candidate offered to the user.
type Suggestion struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// nominatimRecord mirrors the fields of the provider's search payload we read.
// lat/lon arrive as string-encoded decimals.
type nominatimRecord struct {
	PlaceID     json.Number `json:"place_id"`
	OSMType     string      `json:"osm_type"`
	OSMID       json.Number `json:"osm_id"`
	DisplayName string      `json:"display_name"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
}
