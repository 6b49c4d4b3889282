// Package auth acquires bearer tokens from the Microsoft identity
// platform. Two grant types are supported: client_credentials (service
// principal) and password (resource-owner user credentials). Tokens are
// acquired once per process; there is no refresh.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/dataverse-cli/internal/constants"
	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// TokenManager provides access tokens for API requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// Token is the identity provider's token response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// tokenErrorResponse is the identity provider's error shape.
type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// OAuth2Config configures token acquisition against an Azure AD tenant.
type OAuth2Config struct {
	// AuthorityBase overrides the identity provider host. Defaults to
	// https://login.microsoftonline.com.
	AuthorityBase string

	TenantID     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string

	// Scope is the resource scope, e.g. "https://org.crm.dynamics.com/.default".
	Scope string

	// HTTPClient overrides the HTTP client used for the token request.
	HTTPClient *http.Client
}

func (c *OAuth2Config) tokenURL() string {
	base := c.AuthorityBase
	if base == "" {
		base = constants.DefaultAuthorityBase
	}

	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", strings.TrimSuffix(base, "/"), c.TenantID)
}

func (c *OAuth2Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return http.DefaultClient
}

// StaticTokenManager returns a pre-supplied token as-is.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a token manager around a fixed token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the static token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

// ClientCredentialsTokenManager acquires tokens via the confidential-client
// client_credentials grant.
type ClientCredentialsTokenManager struct {
	config *OAuth2Config
}

// NewClientCredentialsTokenManager creates a service-principal token manager.
func NewClientCredentialsTokenManager(config *OAuth2Config) *ClientCredentialsTokenManager {
	return &ClientCredentialsTokenManager{config: config}
}

// Acquire exchanges the client credentials for a token.
func (m *ClientCredentialsTokenManager) Acquire(ctx context.Context) (*Token, error) {
	form := url.Values{
		"grant_type":    []string{"client_credentials"},
		"client_id":     []string{m.config.ClientID},
		"client_secret": []string{m.config.ClientSecret},
		"scope":         []string{m.config.Scope},
	}

	return acquireToken(ctx, m.config, form, "service principal")
}

// GetToken implements TokenManager.
func (m *ClientCredentialsTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.Acquire(ctx)
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// PasswordTokenManager acquires tokens via the public-client
// resource-owner password grant.
type PasswordTokenManager struct {
	config *OAuth2Config
}

// NewPasswordTokenManager creates a user-credentials token manager.
func NewPasswordTokenManager(config *OAuth2Config) *PasswordTokenManager {
	return &PasswordTokenManager{config: config}
}

// Acquire exchanges the username and password for a token.
func (m *PasswordTokenManager) Acquire(ctx context.Context) (*Token, error) {
	form := url.Values{
		"grant_type": []string{"password"},
		"client_id":  []string{m.config.ClientID},
		"username":   []string{m.config.Username},
		"password":   []string{m.config.Password},
		"scope":      []string{m.config.Scope},
	}

	return acquireToken(ctx, m.config, form, "user credentials")
}

// GetToken implements TokenManager.
func (m *PasswordTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.Acquire(ctx)
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// acquireToken posts a grant request and decodes the provider's response.
// A response without an access token becomes *dataverse.AuthError carrying
// the provider-supplied error and description.
func acquireToken(ctx context.Context, config *OAuth2Config, form url.Values, strategy string) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.tokenURL(),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := config.httpClient().Do(req)
	if err != nil {
		return nil, &dataverse.AuthError{Strategy: strategy, Description: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	var token Token
	if err := json.Unmarshal(body, &token); err == nil && token.AccessToken != "" {
		return &token, nil
	}

	var provider tokenErrorResponse

	_ = json.Unmarshal(body, &provider)

	return nil, &dataverse.AuthError{
		Strategy:    strategy,
		Code:        provider.Error,
		Description: provider.ErrorDescription,
	}
}
