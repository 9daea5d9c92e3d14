package models

import "time"

const (
	Status201        = "201"
	Message201       = "Card created successfully"
	Status200        = "200"
	Message200       = "Request processed successfully"
	Status417        = "417"
	Message417Update = "Update operation failed. Please try again or contact Dev team"
	Message417Delete = "Delete operation failed. Please try again or contact Dev team"
)

type Response struct {
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
}

type ErrorResponse struct {
	ApiPath      string    `json:"apiPath"`
	ErrorCode    string    `json:"errorCode"`
	ErrorMessage string    `json:"errorMessage"`
	ErrorTime    time.Time `json:"errorTime"`
}

// ContactInfo is served as-is from configuration.
type ContactInfo struct {
	Message        string            `json:"message"`
	ContactDetails map[string]string `json:"contactDetails"`
	OnCallSupport  []string          `json:"onCallSupport"`
}
