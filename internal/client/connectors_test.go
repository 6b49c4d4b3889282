package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

func TestConnectorsClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/v9.2/connectors(conn-guid)", r.URL.Path)
		assert.Equal(t, "connectorid,name,displayname", r.URL.Query().Get("$select"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"connectorid": "conn-guid",
			"name":        "shared_custom",
			"displayname": "Custom Connector",
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	connector, err := client.Connectors().Get(context.Background(), "conn-guid")
	require.NoError(t, err)
	assert.Equal(t, "conn-guid", connector.ConnectorID)
	assert.Equal(t, "Custom Connector", connector.DisplayName)
}

func TestConnectorsClient_Dependencies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/data/v9.2/RetrieveDependenciesForDelete", r.URL.Path)

		body, _ := io.ReadAll(r.Body)

		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "conn-guid", payload["ObjectId"])
		assert.Equal(t, float64(372), payload["ComponentType"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"EntityCollection": map[string]interface{}{"Entities": []interface{}{}},
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	result, err := client.Connectors().Dependencies(context.Background(), "conn-guid")
	require.NoError(t, err)
	assert.Contains(t, result, "EntityCollection")
}

func TestConnectorsClient_Delete(t *testing.T) {
	t.Run("deletes by ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/data/v9.2/connectors(conn-guid)", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		err := client.Connectors().Delete(context.Background(), "conn-guid")
		require.NoError(t, err)
	})

	t.Run("dependency conflict is detectable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"The connector cannot be deleted because it is referenced by 2 flows."}}`))
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		err := client.Connectors().Delete(context.Background(), "conn-guid")
		require.Error(t, err)

		apiErr := &dataverse.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsDependencyConflict())
	})
}
