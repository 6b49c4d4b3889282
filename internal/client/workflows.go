package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/dataverse-cli/internal/constants"
	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// WorkflowsClient implements dataverse.WorkflowsClient.
type WorkflowsClient struct {
	client *Client
}

var workflowListSelect = []string{
	"workflowid", "name", "statecode", "statuscode", "createdon", "modifiedon", "solutionid",
}

// List returns modern cloud flows, optionally filtered by state and
// solution name. Solution filtering resolves the friendly name to a
// solution ID first, then matches client-side on the fetched list.
func (w *WorkflowsClient) List(ctx context.Context, opts dataverse.WorkflowListOptions) ([]dataverse.Workflow, error) {
	filters := []string{fmt.Sprintf("category eq %d", constants.ModernFlowCategory)}

	if opts.State != "" {
		stateCode := dataverse.WorkflowStateDraft
		if strings.EqualFold(opts.State, "activated") {
			stateCode = dataverse.WorkflowStateActivated
		}

		filters = append(filters, fmt.Sprintf("statecode eq %d", stateCode))
	}

	params := dataverse.NewQueryParams().
		WithFilter(strings.Join(filters, " and ")).
		WithSelect(workflowListSelect...).
		WithOrderBy("modifiedon desc")

	var list dataverse.ListResponse[dataverse.Workflow]
	if err := w.client.getTyped(ctx, "workflows", params, &list); err != nil {
		return nil, err
	}

	flows := list.Value

	if opts.SolutionName != "" {
		solutionID, err := w.lookupSolutionID(ctx, opts.SolutionName)
		if err != nil {
			return nil, err
		}

		// An unknown solution name leaves the list unfiltered, matching
		// the CLI's historical behavior.
		if solutionID != "" {
			filtered := make([]dataverse.Workflow, 0, len(flows))

			for _, flow := range flows {
				if flow.SolutionID == solutionID {
					filtered = append(filtered, flow)
				}
			}

			flows = filtered
		}
	}

	return flows, nil
}

func (w *WorkflowsClient) lookupSolutionID(ctx context.Context, friendlyName string) (string, error) {
	params := dataverse.NewQueryParams().
		WithFilter(fmt.Sprintf("friendlyname eq '%s'", friendlyName)).
		WithSelect("solutionid")

	var list dataverse.ListResponse[dataverse.Solution]
	if err := w.client.getTyped(ctx, "solutions", params, &list); err != nil {
		return "", err
	}

	if len(list.Value) == 0 {
		return "", nil
	}

	return list.Value[0].SolutionID, nil
}

// Get returns the full workflow record.
func (w *WorkflowsClient) Get(ctx context.Context, workflowID string) (dataverse.Entity, error) {
	return w.client.Get(ctx, fmt.Sprintf("workflows(%s)", workflowID), nil)
}

// Create builds and posts a new modern flow record. The flow definition
// (Logic Apps workflow schema) is serialized into the clientdata field.
func (w *WorkflowsClient) Create(ctx context.Context, req *dataverse.WorkflowCreateRequest) (string, error) {
	trigger, err := dataverse.ParseTriggerType(string(req.Trigger))
	if err != nil {
		return "", err
	}

	clientData, err := buildClientData(trigger)
	if err != nil {
		return "", err
	}

	data := map[string]interface{}{
		"name":                     req.Name,
		"type":                     1,
		"category":                 constants.ModernFlowCategory,
		"primaryentity":            "none",
		"mode":                     0,
		"ondemand":                 false,
		"subprocess":               false,
		"scope":                    4,
		"triggeroncreate":          false,
		"triggerondelete":          false,
		"asyncautodelete":          false,
		"syncworkflowlogonfailure": false,
		"statecode":                dataverse.WorkflowStateDraft,
		"statuscode":               1,
		"clientdata":               clientData,
		"istransacted":             true,
		"runas":                    1,
		"modernflowtype":           0,
		"clientdataiscompressed":   false,
	}

	if req.Description != "" {
		data["description"] = req.Description
	}

	if req.SolutionID != "" {
		data["solutionid"] = req.SolutionID
	}

	result, err := w.client.Post(ctx, "workflows", data)
	if err != nil {
		return "", err
	}

	if id, ok := result["workflowid"].(string); ok && id != "" {
		return id, nil
	}

	id, _ := result["id"].(string)

	return id, nil
}

// buildClientData assembles the serialized Logic Apps definition envelope
// for the given trigger type.
func buildClientData(trigger dataverse.TriggerType) (string, error) {
	emptySchema := map[string]interface{}{
		"schema": map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}

	var triggers map[string]interface{}

	switch trigger {
	case dataverse.TriggerHTTP:
		triggers = map[string]interface{}{
			"Incoming_Topics": map[string]interface{}{
				"type":   "Request",
				"kind":   "Http",
				"inputs": emptySchema,
			},
		}
	case dataverse.TriggerManual:
		triggers = map[string]interface{}{
			"manual": map[string]interface{}{
				"type":   "Request",
				"kind":   "Button",
				"inputs": emptySchema,
			},
		}
	default:
		return "", dataverse.NewUserError("unsupported trigger type: %s", trigger)
	}

	clientData := map[string]interface{}{
		"properties": map[string]interface{}{
			"connectionReferences": map[string]interface{}{},
			"definition": map[string]interface{}{
				"$schema":        "https://schema.management.azure.com/providers/Microsoft.Logic/schemas/2016-06-01/workflowdefinition.json#",
				"contentVersion": "1.0.0.0",
				"parameters": map[string]interface{}{
					"$authentication": map[string]interface{}{
						"defaultValue": map[string]interface{}{},
						"type":         "SecureObject",
					},
					"$connections": map[string]interface{}{
						"defaultValue": map[string]interface{}{},
						"type":         "Object",
					},
				},
				"triggers": triggers,
				"actions":  map[string]interface{}{},
			},
		},
		"schemaVersion": "1.0.0.0",
	}

	serialized, err := json.Marshal(clientData)
	if err != nil {
		return "", fmt.Errorf("failed to serialize flow definition: %w", err)
	}

	return string(serialized), nil
}

// Update patches a workflow record. At least one field must be set.
func (w *WorkflowsClient) Update(ctx context.Context, workflowID string, req *dataverse.WorkflowUpdateRequest) error {
	data := map[string]interface{}{}

	if req.Name != "" {
		data["name"] = req.Name
	}

	if req.Description != "" {
		data["description"] = req.Description
	}

	if req.State != "" {
		stateCode := dataverse.WorkflowStateDraft
		if strings.EqualFold(req.State, "activated") {
			stateCode = dataverse.WorkflowStateActivated
		}

		data["statecode"] = stateCode
	}

	if len(data) == 0 {
		return dataverse.NewUserError(constants.ErrNoUpdateParameters.Error())
	}

	_, err := w.client.Patch(ctx, fmt.Sprintf("workflows(%s)", workflowID), data)

	return err
}

// Delete removes a workflow.
func (w *WorkflowsClient) Delete(ctx context.Context, workflowID string) error {
	return w.client.Delete(ctx, fmt.Sprintf("workflows(%s)", workflowID))
}

// Activate turns a workflow on.
func (w *WorkflowsClient) Activate(ctx context.Context, workflowID string) error {
	_, err := w.client.Patch(ctx, fmt.Sprintf("workflows(%s)", workflowID),
		map[string]interface{}{"statecode": dataverse.WorkflowStateActivated})

	return err
}

// Deactivate turns a workflow off.
func (w *WorkflowsClient) Deactivate(ctx context.Context, workflowID string) error {
	_, err := w.client.Patch(ctx, fmt.Sprintf("workflows(%s)", workflowID),
		map[string]interface{}{"statecode": dataverse.WorkflowStateDraft})

	return err
}
