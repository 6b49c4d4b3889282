package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

func TestSolutionsClient_List(t *testing.T) {
	t.Run("lists all solutions ordered by name", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/data/v9.2/solutions", r.URL.Path)
			assert.Equal(t, "friendlyname", r.URL.Query().Get("$orderby"))
			assert.Empty(t, r.URL.Query().Get("$filter"))

			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"value": []map[string]interface{}{
					{"solutionid": "sol-1", "friendlyname": "Alpha", "uniquename": "alpha", "ismanaged": true},
					{"solutionid": "sol-2", "friendlyname": "Beta", "uniquename": "beta", "ismanaged": false},
				},
			})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		solutions, err := client.Solutions().List(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, solutions, 2)
		assert.Equal(t, "Alpha", solutions[0].FriendlyName)
		assert.True(t, solutions[0].IsManaged)
	})

	t.Run("managed filter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "ismanaged eq true", r.URL.Query().Get("$filter"))

			_ = json.NewEncoder(w).Encode(map[string]interface{}{"value": []interface{}{}})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		managed := true
		_, err := client.Solutions().List(context.Background(), &managed)
		require.NoError(t, err)
	})
}

func TestSolutionsClient_FindByName(t *testing.T) {
	t.Run("returns the first match", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "friendlyname eq 'My Solution'", r.URL.Query().Get("$filter"))

			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"value": []map[string]interface{}{
					{"solutionid": "sol-guid", "friendlyname": "My Solution", "uniquename": "mysolution"},
				},
			})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		solution, err := client.Solutions().FindByName(context.Background(), "My Solution")
		require.NoError(t, err)
		assert.Equal(t, "sol-guid", solution.SolutionID)
	})

	t.Run("not found is a user error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"value": []interface{}{}})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		_, err := client.Solutions().FindByName(context.Background(), "Missing")
		require.Error(t, err)

		userErr := &dataverse.UserError{}
		require.ErrorAs(t, err, &userErr)
		assert.Contains(t, err.Error(), "Missing")
	})
}

func TestSolutionsClient_Components(t *testing.T) {
	t.Run("filters by solution and optional type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/data/v9.2/solutioncomponents", r.URL.Path)
			assert.Equal(t, "_solutionid_value eq sol-guid and componenttype eq 29",
				r.URL.Query().Get("$filter"))

			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"value": []map[string]interface{}{
					{"solutioncomponentid": "comp-1", "componenttype": 29, "objectid": "flow-1"},
				},
			})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		components, err := client.Solutions().Components(context.Background(), "sol-guid", 29)
		require.NoError(t, err)
		require.Len(t, components, 1)
		assert.Equal(t, "flow-1", components[0].ObjectID)
	})

	t.Run("no type filter when zero", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "_solutionid_value eq sol-guid", r.URL.Query().Get("$filter"))

			_ = json.NewEncoder(w).Encode(map[string]interface{}{"value": []interface{}{}})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		_, err := client.Solutions().Components(context.Background(), "sol-guid", 0)
		require.NoError(t, err)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestSolutionsClient_Flows(t *testing.T) {
	t.Run("joins components to workflows", func(t *testing.T) {
		calls := 0

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++

			switch r.URL.Path {
			case "/api/data/v9.2/solutioncomponents":
				assert.Equal(t, "_solutionid_value eq sol-guid and componenttype eq 29",
					r.URL.Query().Get("$filter"))

				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"value": []map[string]interface{}{
						{"solutioncomponentid": "c1", "componenttype": 29, "objectid": "flow-1"},
						{"solutioncomponentid": "c2", "componenttype": 29, "objectid": "flow-2"},
					},
				})
			case "/api/data/v9.2/workflows":
				assert.Equal(t,
					"category eq 5 and (workflowid eq flow-1 or workflowid eq flow-2)",
					r.URL.Query().Get("$filter"))

				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"value": []map[string]interface{}{
						{"workflowid": "flow-1", "name": "First", "statecode": 1},
						{"workflowid": "flow-2", "name": "Second", "statecode": 0},
					},
				})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		flows, err := client.Solutions().Flows(context.Background(), "sol-guid")
		require.NoError(t, err)
		require.Len(t, flows, 2)
		assert.Equal(t, 2, calls)
	})

	t.Run("empty component set short-circuits without a second call", func(t *testing.T) {
		calls := 0

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++

			assert.Equal(t, "/api/data/v9.2/solutioncomponents", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"value": []interface{}{}})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		flows, err := client.Solutions().Flows(context.Background(), "sol-guid")
		require.NoError(t, err)
		assert.Empty(t, flows)
		assert.Equal(t, 1, calls)
	})

	t.Run("components without object IDs short-circuit too", func(t *testing.T) {
		calls := 0

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++

			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"value": []map[string]interface{}{
					{"solutioncomponentid": "c1", "componenttype": 29},
				},
			})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		flows, err := client.Solutions().Flows(context.Background(), "sol-guid")
		require.NoError(t, err)
		assert.Empty(t, flows)
		assert.Equal(t, 1, calls)
	})
}
