package model

// Envelope is the response shape of every endpoint: statusCode and message
// always, data only on success.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}
