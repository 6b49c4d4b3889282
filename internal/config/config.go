// Package config resolves Dataverse credentials from the process
// environment. Absence of any variable is legal at load time; completeness
// is checked only when a client must be constructed.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/fivetwenty-io/dataverse-cli/internal/constants"
	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// Config holds the environment-sourced Dataverse credentials. Immutable
// after Load within a process run.
type Config struct {
	DataverseURL  string
	EnvironmentID string
	ClientID      string
	ClientSecret  string
	TenantID      string
	Username      string
	Password      string
	AccessToken   string

	// AuthorityBase overrides the identity provider authority. Empty
	// means the Microsoft public cloud authority.
	AuthorityBase string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first, when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DataverseURL:  os.Getenv(constants.EnvDataverseURL),
		EnvironmentID: os.Getenv(constants.EnvEnvironmentID),
		ClientID:      os.Getenv(constants.EnvClientID),
		ClientSecret:  os.Getenv(constants.EnvClientSecret),
		TenantID:      os.Getenv(constants.EnvTenantID),
		Username:      os.Getenv(constants.EnvUsername),
		Password:      os.Getenv(constants.EnvPassword),
		AccessToken:   os.Getenv(constants.EnvAccessToken),
		AuthorityBase: os.Getenv(constants.EnvAuthorityBase),
	}
}

// HasTokenAuth reports whether a pre-supplied access token can be used.
func (c *Config) HasTokenAuth() bool {
	return c.AccessToken != "" && c.DataverseURL != ""
}

// HasServicePrincipalAuth reports whether the client-credentials grant is
// satisfiable.
func (c *Config) HasServicePrincipalAuth() bool {
	return c.DataverseURL != "" && c.ClientID != "" && c.ClientSecret != "" && c.TenantID != ""
}

// HasUserAuth reports whether the username/password grant is satisfiable.
func (c *Config) HasUserAuth() bool {
	return c.DataverseURL != "" && c.ClientID != "" && c.TenantID != "" &&
		c.Username != "" && c.Password != ""
}

// MissingCredentials returns the names of absent environment variables.
// Token auth short-circuits: when it is satisfiable nothing is reported.
// Otherwise the service-principal requirement set is checked, even when
// the caller might intend user auth (matches the long-standing CLI
// behavior; user-auth-only setups see service-principal variables named).
func (c *Config) MissingCredentials() []string {
	if c.HasTokenAuth() {
		return nil
	}

	var missing []string

	if c.DataverseURL == "" {
		missing = append(missing, constants.EnvDataverseURL)
	}

	if c.ClientID == "" {
		missing = append(missing, constants.EnvClientID)
	}

	if c.ClientSecret == "" {
		missing = append(missing, constants.EnvClientSecret)
	}

	if c.TenantID == "" {
		missing = append(missing, constants.EnvTenantID)
	}

	return missing
}

// AuthScope returns the OAuth scope for token acquisition.
func (c *Config) AuthScope() (string, error) {
	if c.DataverseURL == "" {
		return "", &dataverse.ConfigurationError{
			Message: constants.ErrURLNotConfigured.Error(),
		}
	}

	return fmt.Sprintf("%s/.default", c.DataverseURL), nil
}
