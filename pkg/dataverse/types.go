package dataverse

import "time"

// Entity is a generic Dataverse record, decoded as raw JSON.
type Entity map[string]interface{}

// ListResponse represents the OData collection envelope returned by
// Dataverse list endpoints.
type ListResponse[T any] struct {
	Context string `json:"@odata.context,omitempty"`
	Count   int    `json:"@odata.count,omitempty"`
	Value   []T    `json:"value"`
}

// Unwrap removes the OData "value" envelope from a decoded response. List
// responses yield the plain collection; single records pass through
// unchanged. Every command site relies on this normalization.
func Unwrap(result Entity) interface{} {
	if result == nil {
		return Entity{}
	}

	if value, ok := result["value"]; ok {
		return value
	}

	return result
}

// Workflow state codes.
const (
	WorkflowStateDraft     = 0
	WorkflowStateActivated = 1
)

// Workflow represents a Dataverse workflow record. Modern cloud flows are
// workflows with category 5.
type Workflow struct {
	WorkflowID  string    `json:"workflowid"            yaml:"workflowid"`
	Name        string    `json:"name"                  yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Category    int       `json:"category,omitempty"    yaml:"category,omitempty"`
	StateCode   int       `json:"statecode"             yaml:"statecode"`
	StatusCode  int       `json:"statuscode,omitempty"  yaml:"statuscode,omitempty"`
	SolutionID  string    `json:"solutionid,omitempty"  yaml:"solutionid,omitempty"`
	CreatedOn   time.Time `json:"createdon,omitempty"   yaml:"createdon,omitempty"`
	ModifiedOn  time.Time `json:"modifiedon,omitempty"  yaml:"modifiedon,omitempty"`
}

// StateName returns the human-readable workflow state.
func (w *Workflow) StateName() string {
	if w.StateCode == WorkflowStateActivated {
		return "Activated"
	}

	return "Draft"
}

// TriggerType identifies how a created flow is triggered.
type TriggerType string

// Supported trigger types for flow creation.
const (
	TriggerHTTP   TriggerType = "http"
	TriggerManual TriggerType = "manual"
)

// ParseTriggerType validates a user-supplied trigger type string. An
// unsupported value is a user error, not a system fault.
func ParseTriggerType(s string) (TriggerType, error) {
	switch TriggerType(s) {
	case TriggerHTTP:
		return TriggerHTTP, nil
	case TriggerManual:
		return TriggerManual, nil
	default:
		return "", NewUserError("unsupported trigger type: %s", s)
	}
}

// WorkflowListOptions holds the filters for listing workflows.
type WorkflowListOptions struct {
	// State filters by workflow state ("draft" or "activated"); empty
	// means no state filter.
	State string

	// SolutionName filters the result to flows belonging to the solution
	// with this friendly name. Resolution happens through a secondary
	// solution lookup, then client-side matching on solutionid.
	SolutionName string
}

// WorkflowCreateRequest describes a new flow.
type WorkflowCreateRequest struct {
	Name        string
	Trigger     TriggerType
	SolutionID  string
	Description string
}

// WorkflowUpdateRequest describes a partial flow update. Empty fields are
// left untouched; State accepts "draft" or "activated".
type WorkflowUpdateRequest struct {
	Name        string
	Description string
	State       string
}

// Solution represents a Dataverse solution record.
type Solution struct {
	SolutionID   string    `json:"solutionid"            yaml:"solutionid"`
	FriendlyName string    `json:"friendlyname"          yaml:"friendlyname"`
	UniqueName   string    `json:"uniquename"            yaml:"uniquename"`
	Version      string    `json:"version,omitempty"     yaml:"version,omitempty"`
	IsManaged    bool      `json:"ismanaged"             yaml:"ismanaged"`
	InstalledOn  time.Time `json:"installedon,omitempty" yaml:"installedon,omitempty"`
}

// SolutionComponent represents the join record associating a component
// with a solution.
type SolutionComponent struct {
	SolutionComponentID string    `json:"solutioncomponentid" yaml:"solutioncomponentid"`
	ComponentType       int       `json:"componenttype"       yaml:"componenttype"`
	ObjectID            string    `json:"objectid"            yaml:"objectid"`
	CreatedOn           time.Time `json:"createdon,omitempty" yaml:"createdon,omitempty"`
}

// Connector represents a custom connector record.
type Connector struct {
	ConnectorID string `json:"connectorid"           yaml:"connectorid"`
	Name        string `json:"name"                  yaml:"name"`
	DisplayName string `json:"displayname,omitempty" yaml:"displayname,omitempty"`
}

// WhoAmIResponse is the result of the WhoAmI() function.
type WhoAmIResponse struct {
	BusinessUnitID string `json:"BusinessUnitId" yaml:"business_unit_id"`
	UserID         string `json:"UserId"         yaml:"user_id"`
	OrganizationID string `json:"OrganizationId" yaml:"organization_id"`
}
