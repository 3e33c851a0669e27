package logging

// Common structured log field names.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldType      = "type"
	FieldPort      = "port"
	FieldSignal    = "signal"
	FieldEndpoint  = "endpoint"
	FieldUserID    = "userId"
	FieldSourceID  = "kinopoiskId"
	FieldMediaID   = "tmdbId"
	FieldTitle     = "title"
	FieldAttempt   = "attempt"
	FieldState     = "state"
)
