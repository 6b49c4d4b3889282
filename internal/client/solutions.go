package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/dataverse-cli/internal/constants"
	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// SolutionsClient implements dataverse.SolutionsClient.
type SolutionsClient struct {
	client *Client
}

// List returns all solutions, optionally filtered by managed state.
func (s *SolutionsClient) List(ctx context.Context, managed *bool) ([]dataverse.Solution, error) {
	params := dataverse.NewQueryParams().
		WithSelect("solutionid", "friendlyname", "uniquename", "version", "ismanaged", "installedon").
		WithOrderBy("friendlyname")

	if managed != nil {
		params.WithFilter(fmt.Sprintf("ismanaged eq %t", *managed))
	}

	var list dataverse.ListResponse[dataverse.Solution]
	if err := s.client.getTyped(ctx, "solutions", params, &list); err != nil {
		return nil, err
	}

	return list.Value, nil
}

// Get returns the full solution record.
func (s *SolutionsClient) Get(ctx context.Context, solutionID string) (dataverse.Entity, error) {
	return s.client.Get(ctx, fmt.Sprintf("solutions(%s)", solutionID), nil)
}

// FindByName resolves a solution by its friendly name.
func (s *SolutionsClient) FindByName(ctx context.Context, friendlyName string) (*dataverse.Solution, error) {
	params := dataverse.NewQueryParams().
		WithFilter(fmt.Sprintf("friendlyname eq '%s'", friendlyName))

	var list dataverse.ListResponse[dataverse.Solution]
	if err := s.client.getTyped(ctx, "solutions", params, &list); err != nil {
		return nil, err
	}

	if len(list.Value) == 0 {
		return nil, dataverse.NewUserError("solution '%s' not found", friendlyName)
	}

	return &list.Value[0], nil
}

// Components lists the component records of a solution. A componentType
// of zero means no type filter.
func (s *SolutionsClient) Components(ctx context.Context, solutionID string, componentType int) ([]dataverse.SolutionComponent, error) {
	filter := fmt.Sprintf("_solutionid_value eq %s", solutionID)
	if componentType != 0 {
		filter += fmt.Sprintf(" and componenttype eq %d", componentType)
	}

	params := dataverse.NewQueryParams().
		WithFilter(filter).
		WithSelect("solutioncomponentid", "componenttype", "objectid", "createdon")

	var list dataverse.ListResponse[dataverse.SolutionComponent]
	if err := s.client.getTyped(ctx, "solutioncomponents", params, &list); err != nil {
		return nil, err
	}

	return list.Value, nil
}

// Flows lists the modern flows belonging to a solution. This is a two-hop
// join performed client-side: workflow component IDs come from
// solutioncomponents, then the workflows are fetched by an OR-ed ID
// disjunction. An empty component set short-circuits without the second
// query.
func (s *SolutionsClient) Flows(ctx context.Context, solutionID string) ([]dataverse.Workflow, error) {
	components, err := s.Components(ctx, solutionID, constants.WorkflowComponentType)
	if err != nil {
		return nil, err
	}

	workflowIDs := make([]string, 0, len(components))

	for _, component := range components {
		if component.ObjectID != "" {
			workflowIDs = append(workflowIDs, component.ObjectID)
		}
	}

	if len(workflowIDs) == 0 {
		return []dataverse.Workflow{}, nil
	}

	idFilters := make([]string, len(workflowIDs))
	for i, id := range workflowIDs {
		idFilters[i] = fmt.Sprintf("workflowid eq %s", id)
	}

	params := dataverse.NewQueryParams().
		WithFilter(fmt.Sprintf("category eq %d and (%s)",
			constants.ModernFlowCategory, strings.Join(idFilters, " or "))).
		WithSelect("workflowid", "name", "statecode", "createdon", "modifiedon").
		WithOrderBy("modifiedon desc")

	var list dataverse.ListResponse[dataverse.Workflow]
	if err := s.client.getTyped(ctx, "workflows", params, &list); err != nil {
		return nil, err
	}

	return list.Value, nil
}
