package models

// HealthResponse represents the health check response
type HealthResponse struct {
	Status           string                 `json:"status"`
	State            string                 `json:"state"`
	Passes           int                    `json:"passes"`
	LastPass         *PassReport            `json:"last_pass,omitempty"`
	Timestamp        int64                  `json:"timestamp"`
	ConnectionStatus map[string]interface{} `json:"connection_status,omitempty"`
}

// PassReport summarizes one reconciliation pass
type PassReport struct {
	ID           string   `json:"id"`
	StartedAt    int64    `json:"started_at"`
	DurationMS   int64    `json:"duration_ms"`
	Repositories int      `json:"repositories"`
	Provisioned  []string `json:"provisioned"`
	Existing     []string `json:"existing"`
	Blacklisted  []string `json:"blacklisted"`
	Error        string   `json:"error,omitempty"`
	ErrorKind    string   `json:"error_kind,omitempty"`
	ErrorCode    string   `json:"error_code,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
