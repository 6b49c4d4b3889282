package constants

import "errors"

// Configuration errors.
var (
	ErrURLNotConfigured = errors.New("DATAVERSE_URL not configured")
	ErrNoAuthMethod     = errors.New("no valid authentication method available")
)

// Command input errors.
var (
	ErrSolutionIDOrNameRequired = errors.New("either --id or --name must be provided")
	ErrNoUpdateParameters       = errors.New("no update parameters provided")
)
