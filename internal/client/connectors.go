package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dataverse-cli/internal/constants"
	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// ConnectorsClient implements dataverse.ConnectorsClient.
type ConnectorsClient struct {
	client *Client
}

// Get fetches a connector's identifying fields.
func (c *ConnectorsClient) Get(ctx context.Context, connectorID string) (*dataverse.Connector, error) {
	params := dataverse.NewQueryParams().
		WithSelect("connectorid", "name", "displayname")

	var connector dataverse.Connector
	if err := c.client.getTyped(ctx, fmt.Sprintf("connectors(%s)", connectorID), params, &connector); err != nil {
		return nil, err
	}

	return &connector, nil
}

// Dependencies calls the RetrieveDependenciesForDelete action to report
// what still references the connector.
func (c *ConnectorsClient) Dependencies(ctx context.Context, connectorID string) (dataverse.Entity, error) {
	return c.client.Post(ctx, "RetrieveDependenciesForDelete", map[string]interface{}{
		"ObjectId":      connectorID,
		"ComponentType": constants.ConnectorComponentType,
	})
}

// Delete removes a connector. A dependency conflict surfaces as an
// APIError whose body mentions "referenced by"; callers can check
// IsDependencyConflict.
func (c *ConnectorsClient) Delete(ctx context.Context, connectorID string) error {
	return c.client.Delete(ctx, fmt.Sprintf("connectors(%s)", connectorID))
}
