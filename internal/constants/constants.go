package constants

// Web API versioning.
const (
	// APIPath is the Dataverse Web API base path appended to the
	// environment URL.
	APIPath = "/api/data/v9.2"

	// ODataVersion is sent in the OData-Version and OData-MaxVersion
	// headers on every request.
	ODataVersion = "4.0"
)

// DefaultAuthorityBase is the Microsoft identity platform authority; the
// tenant ID is appended as a path segment.
const DefaultAuthorityBase = "https://login.microsoftonline.com"

// Environment variable names read by the configuration resolver.
const (
	EnvDataverseURL  = "DATAVERSE_URL"
	EnvEnvironmentID = "DATAVERSE_ENVIRONMENT_ID"
	EnvClientID      = "DATAVERSE_CLIENT_ID"
	EnvClientSecret  = "DATAVERSE_CLIENT_SECRET"
	EnvTenantID      = "DATAVERSE_TENANT_ID"
	EnvUsername      = "DATAVERSE_USERNAME"
	EnvPassword      = "DATAVERSE_PASSWORD"
	EnvAccessToken   = "DATAVERSE_ACCESS_TOKEN"

	// EnvAuthorityBase overrides the identity provider authority.
	EnvAuthorityBase = "DATAVERSE_AUTHORITY_BASE"
)

// Dataverse type codes.
const (
	// ModernFlowCategory is the workflow category for modern cloud flows.
	ModernFlowCategory = 5

	// WorkflowComponentType is the solution component type for workflows.
	WorkflowComponentType = 29

	// ConnectorComponentType is the solution component type for custom
	// connectors.
	ConnectorComponentType = 372
)

// Process exit codes.
const (
	// ExitSuccess indicates a successful command.
	ExitSuccess = 0

	// ExitFailure indicates a generic or validation failure.
	ExitFailure = 1

	// ExitClientError indicates a configuration, authentication, or API
	// error.
	ExitClientError = 2

	// ExitInterrupted indicates the process was interrupted.
	ExitInterrupted = 130
)

// HTTP status codes commonly checked.
const (
	HTTPStatusOK        = 200
	HTTPStatusNoContent = 204
)
