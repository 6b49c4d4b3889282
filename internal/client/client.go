// Package client implements the dataverse.Client interface over the
// Dataverse Web API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/dataverse-cli/internal/auth"
	"github.com/fivetwenty-io/dataverse-cli/internal/constants"
	dvhttp "github.com/fivetwenty-io/dataverse-cli/internal/http"
	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// Client implements the dataverse.Client interface.
type Client struct {
	httpClient *dvhttp.Client
	baseURL    string

	workflows  *WorkflowsClient
	solutions  *SolutionsClient
	entities   *EntitiesClient
	connectors *ConnectorsClient
}

// New creates an authenticated Dataverse client. The bearer token is
// acquired once here; the client never re-authenticates mid-run.
//
// Authentication precedence, first match wins: pre-supplied access token,
// service principal (client_credentials), user credentials (password).
func New(ctx context.Context, config *dataverse.Config) (*Client, error) {
	if config == nil || config.DataverseURL == "" {
		return nil, &dataverse.ConfigurationError{
			Message: constants.ErrURLNotConfigured.Error(),
		}
	}

	token, err := acquireToken(ctx, config)
	if err != nil {
		return nil, err
	}

	return newWithToken(config, token), nil
}

// acquireToken selects the authentication strategy and obtains a token.
func acquireToken(ctx context.Context, config *dataverse.Config) (string, error) {
	if config.AccessToken != "" {
		return config.AccessToken, nil
	}

	scope := strings.TrimSuffix(config.DataverseURL, "/") + "/.default"
	oauthConfig := &auth.OAuth2Config{
		AuthorityBase: config.AuthorityBase,
		TenantID:      config.TenantID,
		ClientID:      config.ClientID,
		ClientSecret:  config.ClientSecret,
		Username:      config.Username,
		Password:      config.Password,
		Scope:         scope,
	}

	if config.ClientID != "" && config.ClientSecret != "" && config.TenantID != "" {
		return auth.NewClientCredentialsTokenManager(oauthConfig).GetToken(ctx)
	}

	if config.ClientID != "" && config.TenantID != "" && config.Username != "" && config.Password != "" {
		return auth.NewPasswordTokenManager(oauthConfig).GetToken(ctx)
	}

	return "", &dataverse.ConfigurationError{
		Message: constants.ErrNoAuthMethod.Error(),
	}
}

func newWithToken(config *dataverse.Config, token string) *Client {
	baseURL := strings.TrimSuffix(config.DataverseURL, "/")

	opts := []dvhttp.Option{
		dvhttp.WithDefaultHeaders(map[string]string{
			"OData-MaxVersion": constants.ODataVersion,
			"OData-Version":    constants.ODataVersion,
		}),
	}

	if config.Logger != nil {
		opts = append(opts, dvhttp.WithLogger(config.Logger), dvhttp.WithDebug(config.Debug))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, dvhttp.WithTimeout(config.HTTPTimeout))
	}

	client := &Client{
		httpClient: dvhttp.NewClient(baseURL, auth.NewStaticTokenManager(token), opts...),
		baseURL:    baseURL,
	}

	client.workflows = &WorkflowsClient{client: client}
	client.solutions = &SolutionsClient{client: client}
	client.entities = &EntitiesClient{client: client}
	client.connectors = &ConnectorsClient{client: client}

	return client
}

// Workflows returns the workflows resource client.
func (c *Client) Workflows() dataverse.WorkflowsClient {
	return c.workflows
}

// Solutions returns the solutions resource client.
func (c *Client) Solutions() dataverse.SolutionsClient {
	return c.solutions
}

// Entities returns the generic entity query client.
func (c *Client) Entities() dataverse.EntitiesClient {
	return c.entities
}

// Connectors returns the connectors resource client.
func (c *Client) Connectors() dataverse.ConnectorsClient {
	return c.connectors
}

// WhoAmI calls the WhoAmI() function.
func (c *Client) WhoAmI(ctx context.Context) (*dataverse.WhoAmIResponse, error) {
	var result dataverse.WhoAmIResponse
	if err := c.getTyped(ctx, "WhoAmI()", nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func endpointPath(endpoint string) string {
	return constants.APIPath + "/" + strings.TrimPrefix(endpoint, "/")
}

// Get issues a GET against a relative endpoint. An empty response body
// decodes to an empty entity.
func (c *Client) Get(ctx context.Context, endpoint string, params *dataverse.QueryParams) (dataverse.Entity, error) {
	resp, err := c.httpClient.Get(ctx, endpointPath(endpoint), params.ToValues())
	if err != nil {
		return nil, err
	}

	return decodeEntity(resp.Body)
}

// Post issues a POST with a JSON body. A 204 response carries the created
// record's ID in the OData-EntityId header; it is surfaced as {"id": guid}.
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}) (dataverse.Entity, error) {
	resp, err := c.httpClient.Do(ctx, &dvhttp.Request{
		Method:  "POST",
		Path:    endpointPath(endpoint),
		Headers: map[string]string{"Prefer": "return=representation"},
		Body:    body,
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == constants.HTTPStatusNoContent {
		if id := extractEntityID(resp.Headers.Get("OData-EntityId")); id != "" {
			return dataverse.Entity{"id": id}, nil
		}

		return dataverse.Entity{}, nil
	}

	return decodeEntity(resp.Body)
}

// Patch issues a PATCH with a JSON body. Dataverse typically returns no
// body on PATCH; an empty body is not an error.
func (c *Client) Patch(ctx context.Context, endpoint string, body interface{}) (dataverse.Entity, error) {
	resp, err := c.httpClient.Patch(ctx, endpointPath(endpoint), body)
	if err != nil {
		return nil, err
	}

	return decodeEntity(resp.Body)
}

// Delete issues a DELETE. Nothing is returned on success.
func (c *Client) Delete(ctx context.Context, endpoint string) error {
	_, err := c.httpClient.Delete(ctx, endpointPath(endpoint))

	return err
}

// getTyped decodes a GET response directly into out.
func (c *Client) getTyped(ctx context.Context, endpoint string, params *dataverse.QueryParams, out interface{}) error {
	resp, err := c.httpClient.Get(ctx, endpointPath(endpoint), params.ToValues())
	if err != nil {
		return err
	}

	if len(resp.Body) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func decodeEntity(body []byte) (dataverse.Entity, error) {
	if len(body) == 0 {
		return dataverse.Entity{}, nil
	}

	var entity dataverse.Entity
	if err := json.Unmarshal(body, &entity); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return entity, nil
}

// extractEntityID parses the GUID out of an OData-EntityId header of the
// form ".../entityset(guid)". A malformed or absent header yields "".
func extractEntityID(header string) string {
	open := strings.Index(header, "(")
	if open < 0 {
		return ""
	}

	rest := header[open+1:]

	closing := strings.Index(rest, ")")
	if closing < 0 {
		return ""
	}

	return rest[:closing]
}
