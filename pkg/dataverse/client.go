package dataverse

import (
	"context"
	"time"
)

// Client provides access to the Dataverse Web API.
type Client interface {
	// Workflows returns the workflows (flows) resource client.
	Workflows() WorkflowsClient

	// Solutions returns the solutions resource client.
	Solutions() SolutionsClient

	// Entities returns the generic entity query client.
	Entities() EntitiesClient

	// Connectors returns the custom connectors resource client.
	Connectors() ConnectorsClient

	// WhoAmI calls the WhoAmI() function to verify authentication.
	WhoAmI(ctx context.Context) (*WhoAmIResponse, error)

	// Get issues a raw GET against a relative endpoint.
	Get(ctx context.Context, endpoint string, params *QueryParams) (Entity, error)

	// Post issues a raw POST with a JSON body.
	Post(ctx context.Context, endpoint string, body interface{}) (Entity, error)

	// Patch issues a raw PATCH with a JSON body.
	Patch(ctx context.Context, endpoint string, body interface{}) (Entity, error)

	// Delete issues a raw DELETE.
	Delete(ctx context.Context, endpoint string) error
}

// WorkflowsClient manages Dataverse workflows (modern cloud flows).
type WorkflowsClient interface {
	List(ctx context.Context, opts WorkflowListOptions) ([]Workflow, error)
	Get(ctx context.Context, workflowID string) (Entity, error)
	Create(ctx context.Context, req *WorkflowCreateRequest) (string, error)
	Update(ctx context.Context, workflowID string, req *WorkflowUpdateRequest) error
	Delete(ctx context.Context, workflowID string) error
	Activate(ctx context.Context, workflowID string) error
	Deactivate(ctx context.Context, workflowID string) error
}

// SolutionsClient manages Dataverse solutions.
type SolutionsClient interface {
	List(ctx context.Context, managed *bool) ([]Solution, error)
	Get(ctx context.Context, solutionID string) (Entity, error)
	FindByName(ctx context.Context, friendlyName string) (*Solution, error)
	Components(ctx context.Context, solutionID string, componentType int) ([]SolutionComponent, error)
	Flows(ctx context.Context, solutionID string) ([]Workflow, error)
}

// EntitiesClient queries arbitrary Dataverse entity sets.
type EntitiesClient interface {
	Query(ctx context.Context, entitySet string, params *QueryParams) (interface{}, error)
	Get(ctx context.Context, entitySet, recordID string, selectFields []string) (Entity, error)
	Count(ctx context.Context, entitySet, filter string) (int, error)
	Metadata(ctx context.Context, logicalName string) (Entity, error)
}

// ConnectorsClient manages custom connectors, including dependency-aware
// deletion.
type ConnectorsClient interface {
	Get(ctx context.Context, connectorID string) (*Connector, error)
	Dependencies(ctx context.Context, connectorID string) (Entity, error)
	Delete(ctx context.Context, connectorID string) error
}

// Logger is the logging interface consumed by the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Dataverse client.
//
// Authentication precedence, first match wins:
//  1. AccessToken: used directly as a static Bearer token.
//  2. ClientID/ClientSecret/TenantID: OAuth2 client_credentials grant
//     against the Microsoft identity platform (service principal).
//  3. ClientID/TenantID/Username/Password: OAuth2 password grant.
//
// The token is acquired once at client construction; a long-running
// process does not re-authenticate mid-run.
type Config struct {
	// DataverseURL is the environment base URL, e.g.
	// "https://org.crm.dynamics.com". A trailing slash is trimmed.
	DataverseURL string

	// EnvironmentID identifies the Power Platform environment. Informational.
	EnvironmentID string

	// TenantID is the Azure AD tenant for token acquisition.
	TenantID string

	// ClientID is the Azure AD application (client) ID.
	ClientID string

	// ClientSecret enables the client_credentials grant.
	ClientSecret string

	// Username and Password enable the resource-owner password grant.
	Username string
	Password string

	// AccessToken, when set, is used as-is without contacting the
	// identity provider.
	AccessToken string

	// AuthorityBase overrides the identity provider authority
	// ("https://login.microsoftonline.com" by default). Used by tests.
	AuthorityBase string

	// HTTPTimeout optionally bounds each request. Zero means the HTTP
	// library default.
	HTTPTimeout time.Duration

	// Debug enables verbose HTTP request/response logging when a Logger
	// is provided.
	Debug bool

	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger
}
