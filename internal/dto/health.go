package dto

// HealthResponse is the body of /healthz, /livez and /readyz. Details maps a
// dependency to "ok" or its failure and is only set by readiness checks.
type HealthResponse struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}
