package datemath

import "time"

// Window is a half-open absolute time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}
