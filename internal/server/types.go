package server

// APIResponse is the envelope of the service's own endpoints.
// Conversion endpoints answer with their own bodies.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// HealthData is the payload of GET /health
type HealthData struct {
	Status  string `json:"status"`
	Codec   string `json:"codec"`
	Version string `json:"version"`
}
