// Package dataverse provides types and interfaces for interacting with the
// Microsoft Dataverse Web API (OData v4).
//
// The package defines the client configuration, the error taxonomy shared by
// the CLI and the client implementation, OData query parameters, and typed
// representations of the handful of Dataverse resources the CLI manages
// (workflows, solutions, solution components, connectors).
//
// Basic usage:
//
//	cfg := &dataverse.Config{
//		DataverseURL: "https://org.crm.dynamics.com",
//		TenantID:     "...",
//		ClientID:     "...",
//		ClientSecret: "...",
//	}
//	c, err := client.New(context.Background(), cfg)
//	if err != nil {
//		// *dataverse.ConfigurationError or *dataverse.AuthError
//	}
//	flows, err := c.Workflows().List(context.Background(), dataverse.WorkflowListOptions{})
//
// All list responses arrive from Dataverse wrapped in an OData envelope
// ({"value": [...]}); the client unwraps that envelope before returning
// results, so callers always see plain slices.
package dataverse
