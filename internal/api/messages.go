package api

// Canonical response messages. Handlers and tests reference these constants
// rather than repeating wire strings.
const (
	WelcomeMessage        = "Welcome to the Population Management System."
	CreatedMessage        = "Location created successfully."
	SuccessMessage        = "Request was successful."
	UpdateSuccessMessage  = "Location updated successfully."
	AllLocationsMessage   = "All locations retrieved successfully."
	NoRecordsMessage      = "No records found."
	RecordNotFoundMessage = "Record not found."
	DuplicateMessage      = "A location with that name already exists."
	ServerErrorMessage    = "Something went wrong, please try again later."
	InvalidRouteMessage   = "Invalid route"
)
