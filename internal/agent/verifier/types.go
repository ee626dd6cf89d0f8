package verifier

// Config tunes the verifier for one deployment.
type Config struct {
	Model       string  // per-stage model override, empty uses provider default
	Temperature float64 // defaults to VerifyTemperature
}

// verifyResponse is the JSON shape the LLM must return.
type verifyResponse struct {
	Verdict string   `json:"verdict"` // accept | reject
	Reasons []string `json:"reasons"`
}
