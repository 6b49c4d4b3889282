package auth

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

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	manager := NewStaticTokenManager("static-token")

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "static-token", token)
}

func TestClientCredentialsTokenManager_Acquire(t *testing.T) {
	t.Run("successful grant", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/tenant-id/oauth2/v2.0/token", r.URL.Path)
			assert.Equal(t, "POST", r.Method)

			err := r.ParseForm()
			require.NoError(t, err)
			assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
			assert.Equal(t, "client-id", r.Form.Get("client_id"))
			assert.Equal(t, "client-secret", r.Form.Get("client_secret"))
			assert.Equal(t, "https://org.crm.dynamics.com/.default", r.Form.Get("scope"))

			_ = json.NewEncoder(w).Encode(Token{
				AccessToken: "sp-token",
				TokenType:   "Bearer",
				ExpiresIn:   3599,
			})
		}))
		defer server.Close()

		manager := NewClientCredentialsTokenManager(&OAuth2Config{
			AuthorityBase: server.URL,
			TenantID:      "tenant-id",
			ClientID:      "client-id",
			ClientSecret:  "client-secret",
			Scope:         "https://org.crm.dynamics.com/.default",
		})

		token, err := manager.Acquire(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "sp-token", token.AccessToken)
		assert.Equal(t, "Bearer", token.TokenType)
		assert.Equal(t, 3599, token.ExpiresIn)
	})

	t.Run("provider error surfaces as AuthError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_client",
				"error_description": "AADSTS7000215: Invalid client secret provided.",
			})
		}))
		defer server.Close()

		manager := NewClientCredentialsTokenManager(&OAuth2Config{
			AuthorityBase: server.URL,
			TenantID:      "tenant-id",
			ClientID:      "client-id",
			ClientSecret:  "wrong",
			Scope:         "scope",
		})

		_, err := manager.GetToken(context.Background())
		require.Error(t, err)

		authErr := &dataverse.AuthError{}
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "service principal", authErr.Strategy)
		assert.Equal(t, "invalid_client", authErr.Code)
		assert.Contains(t, authErr.Description, "AADSTS7000215")
		assert.Contains(t, err.Error(), "AADSTS7000215")
	})

	t.Run("response without token is AuthError even on 200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"token_type": "Bearer"})
		}))
		defer server.Close()

		manager := NewClientCredentialsTokenManager(&OAuth2Config{
			AuthorityBase: server.URL,
			TenantID:      "tenant-id",
		})

		_, err := manager.GetToken(context.Background())
		require.Error(t, err)

		authErr := &dataverse.AuthError{}
		require.ErrorAs(t, err, &authErr)
		assert.Contains(t, err.Error(), "unknown error")
	})
}

func TestPasswordTokenManager_Acquire(t *testing.T) {
	t.Run("successful grant", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := r.ParseForm()
			require.NoError(t, err)
			assert.Equal(t, "password", r.Form.Get("grant_type"))
			assert.Equal(t, "user@example.com", r.Form.Get("username"))
			assert.Equal(t, "hunter2", r.Form.Get("password"))
			assert.Empty(t, r.Form.Get("client_secret"))

			_ = json.NewEncoder(w).Encode(Token{
				AccessToken: "user-token",
				TokenType:   "Bearer",
				ExpiresIn:   3599,
			})
		}))
		defer server.Close()

		manager := NewPasswordTokenManager(&OAuth2Config{
			AuthorityBase: server.URL,
			TenantID:      "tenant-id",
			ClientID:      "client-id",
			Username:      "user@example.com",
			Password:      "hunter2",
			Scope:         "scope",
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "user-token", token)
	})

	t.Run("strategy named in failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "AADSTS50126: Invalid username or password.",
			})
		}))
		defer server.Close()

		manager := NewPasswordTokenManager(&OAuth2Config{
			AuthorityBase: server.URL,
			TenantID:      "tenant-id",
		})

		_, err := manager.GetToken(context.Background())
		require.Error(t, err)

		authErr := &dataverse.AuthError{}
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "user credentials", authErr.Strategy)
		assert.Contains(t, err.Error(), "user credentials")
	})
}

func TestOAuth2Config_TokenURL(t *testing.T) {
	t.Parallel()

	cfg := &OAuth2Config{TenantID: "tenant-id"}
	assert.Equal(t, "https://login.microsoftonline.com/tenant-id/oauth2/v2.0/token", cfg.tokenURL())

	cfg = &OAuth2Config{AuthorityBase: "http://localhost:1234/", TenantID: "t"}
	assert.Equal(t, "http://localhost:1234/t/oauth2/v2.0/token", cfg.tokenURL())
}
