package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// EntitiesClient implements dataverse.EntitiesClient for arbitrary
// entity sets.
type EntitiesClient struct {
	client *Client
}

// Query runs an OData query against an entity set. List responses are
// unwrapped to a plain collection.
func (e *EntitiesClient) Query(ctx context.Context, entitySet string, params *dataverse.QueryParams) (interface{}, error) {
	result, err := e.client.Get(ctx, entitySet, params)
	if err != nil {
		return nil, err
	}

	return dataverse.Unwrap(result), nil
}

// Get fetches a single record by ID.
func (e *EntitiesClient) Get(ctx context.Context, entitySet, recordID string, selectFields []string) (dataverse.Entity, error) {
	params := dataverse.NewQueryParams()
	if len(selectFields) > 0 {
		params.WithSelect(selectFields...)
	}

	return e.client.Get(ctx, fmt.Sprintf("%s(%s)", entitySet, recordID), params)
}

// Count returns the total record count for an entity set, optionally
// filtered.
func (e *EntitiesClient) Count(ctx context.Context, entitySet, filter string) (int, error) {
	params := dataverse.NewQueryParams().WithCount().WithTop(1)
	if filter != "" {
		params.WithFilter(filter)
	}

	result, err := e.client.Get(ctx, entitySet, params)
	if err != nil {
		return 0, err
	}

	// JSON numbers decode as float64.
	if count, ok := result["@odata.count"].(float64); ok {
		return int(count), nil
	}

	return 0, nil
}

// Metadata returns entity metadata from EntityDefinitions by logical name.
func (e *EntitiesClient) Metadata(ctx context.Context, logicalName string) (dataverse.Entity, error) {
	params := dataverse.NewQueryParams().
		WithFilter(fmt.Sprintf("LogicalName eq '%s'", logicalName)).
		WithSelect("LogicalName", "DisplayName", "PrimaryIdAttribute", "PrimaryNameAttribute", "EntitySetName")

	result, err := e.client.Get(ctx, "EntityDefinitions", params)
	if err != nil {
		return nil, err
	}

	unwrapped := dataverse.Unwrap(result)
	if records, ok := unwrapped.([]interface{}); ok {
		if len(records) == 0 {
			return dataverse.Entity{}, nil
		}

		if first, ok := records[0].(map[string]interface{}); ok {
			return dataverse.Entity(first), nil
		}
	}

	return result, nil
}
