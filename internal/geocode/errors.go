package geocode

import "fmt"

// LookupError reports a transport, status or decode failure while geocoding.
// Callers get an empty result alongside it and may treat it like "no matches".
type LookupError struct {
	Query string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Query, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
