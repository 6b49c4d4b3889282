package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, name := range []string{
		"DATAVERSE_URL",
		"DATAVERSE_ENVIRONMENT_ID",
		"DATAVERSE_CLIENT_ID",
		"DATAVERSE_CLIENT_SECRET",
		"DATAVERSE_TENANT_ID",
		"DATAVERSE_USERNAME",
		"DATAVERSE_PASSWORD",
		"DATAVERSE_ACCESS_TOKEN",
		"DATAVERSE_AUTHORITY_BASE",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATAVERSE_URL", "https://org.crm.dynamics.com")
	t.Setenv("DATAVERSE_CLIENT_ID", "client-id")
	t.Setenv("DATAVERSE_TENANT_ID", "tenant-id")

	cfg := Load()
	assert.Equal(t, "https://org.crm.dynamics.com", cfg.DataverseURL)
	assert.Equal(t, "client-id", cfg.ClientID)
	assert.Equal(t, "tenant-id", cfg.TenantID)
	assert.Empty(t, cfg.ClientSecret)
}

func TestConfig_HasTokenAuth(t *testing.T) {
	t.Run("token and URL present", func(t *testing.T) {
		cfg := &Config{DataverseURL: "https://org.crm.dynamics.com", AccessToken: "token"}
		assert.True(t, cfg.HasTokenAuth())
	})

	t.Run("true regardless of other fields", func(t *testing.T) {
		cfg := &Config{DataverseURL: "https://org.crm.dynamics.com", AccessToken: "token"}
		assert.True(t, cfg.HasTokenAuth())
		assert.Empty(t, cfg.MissingCredentials())
	})

	t.Run("missing token", func(t *testing.T) {
		cfg := &Config{DataverseURL: "https://org.crm.dynamics.com"}
		assert.False(t, cfg.HasTokenAuth())
	})

	t.Run("missing URL", func(t *testing.T) {
		cfg := &Config{AccessToken: "token"}
		assert.False(t, cfg.HasTokenAuth())
	})
}

func TestConfig_HasServicePrincipalAuth(t *testing.T) {
	complete := Config{
		DataverseURL: "https://org.crm.dynamics.com",
		ClientID:     "client-id",
		ClientSecret: "secret",
		TenantID:     "tenant-id",
	}

	assert.True(t, complete.HasServicePrincipalAuth())

	t.Run("each field required", func(t *testing.T) {
		for name, mutate := range map[string]func(*Config){
			"url":    func(c *Config) { c.DataverseURL = "" },
			"client": func(c *Config) { c.ClientID = "" },
			"secret": func(c *Config) { c.ClientSecret = "" },
			"tenant": func(c *Config) { c.TenantID = "" },
		} {
			cfg := complete
			mutate(&cfg)
			assert.False(t, cfg.HasServicePrincipalAuth(), name)
		}
	})
}

func TestConfig_HasUserAuth(t *testing.T) {
	complete := Config{
		DataverseURL: "https://org.crm.dynamics.com",
		ClientID:     "client-id",
		TenantID:     "tenant-id",
		Username:     "user@example.com",
		Password:     "hunter2",
	}

	assert.True(t, complete.HasUserAuth())

	cfg := complete
	cfg.Password = ""
	assert.False(t, cfg.HasUserAuth())
}

func TestConfig_MissingCredentials(t *testing.T) {
	t.Run("token auth short-circuits", func(t *testing.T) {
		cfg := &Config{DataverseURL: "https://org.crm.dynamics.com", AccessToken: "token"}
		assert.Empty(t, cfg.MissingCredentials())
	})

	t.Run("empty config reports all service principal fields", func(t *testing.T) {
		cfg := &Config{}
		assert.Equal(t, []string{
			"DATAVERSE_URL",
			"DATAVERSE_CLIENT_ID",
			"DATAVERSE_CLIENT_SECRET",
			"DATAVERSE_TENANT_ID",
		}, cfg.MissingCredentials())
	})

	t.Run("reports exactly the absent fields", func(t *testing.T) {
		cfg := &Config{
			DataverseURL: "https://org.crm.dynamics.com",
			TenantID:     "tenant-id",
		}
		assert.Equal(t, []string{
			"DATAVERSE_CLIENT_ID",
			"DATAVERSE_CLIENT_SECRET",
		}, cfg.MissingCredentials())
	})

	t.Run("user auth setup still reports service principal fields", func(t *testing.T) {
		cfg := &Config{
			DataverseURL: "https://org.crm.dynamics.com",
			ClientID:     "client-id",
			TenantID:     "tenant-id",
			Username:     "user@example.com",
			Password:     "hunter2",
		}
		assert.Equal(t, []string{"DATAVERSE_CLIENT_SECRET"}, cfg.MissingCredentials())
	})
}

func TestConfig_AuthScope(t *testing.T) {
	t.Run("appends .default", func(t *testing.T) {
		cfg := &Config{DataverseURL: "https://org.crm.dynamics.com"}

		scope, err := cfg.AuthScope()
		require.NoError(t, err)
		assert.Equal(t, "https://org.crm.dynamics.com/.default", scope)
	})

	t.Run("fails without URL", func(t *testing.T) {
		cfg := &Config{}

		_, err := cfg.AuthScope()
		require.Error(t, err)

		cfgErr := &dataverse.ConfigurationError{}
		require.ErrorAs(t, err, &cfgErr)
	})
}
