package composer

// Config tunes the composer for one deployment.
type Config struct {
	Model       string  // per-stage model override, empty uses provider default
	Temperature float64 // defaults to ComposeTemperature
	Timezone    string  // IANA name for time context in answers, empty uses UTC
}
