package api

const (
	msgMethodNotAllowed = "Method Not Allowed"
	msgMissingFields    = "Missing required fields. All fields are mandatory."
	msgInvalidBody      = "Invalid request body."
	msgInternalError    = "An internal error occurred."
	msgBlueprintSent    = "Blueprint sent successfully!"
)

// MessageResponse is returned for client errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse is the success/failure envelope of the blueprint endpoint.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
