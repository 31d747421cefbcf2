package dto

// HealthResponse describes the payload returned by the /health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RootResponse is the banner returned from the service root.
type RootResponse struct {
	Message string `json:"message"`
}
