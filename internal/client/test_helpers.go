package client

import (
	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// NewTestClient creates a client against the given base URL with a fixed
// bearer token, skipping token acquisition.
func NewTestClient(baseURL string) *Client {
	return newWithToken(&dataverse.Config{DataverseURL: baseURL}, "test-token")
}
