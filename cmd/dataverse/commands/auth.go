package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/dataverse-cli/internal/auth"
	"github.com/fivetwenty-io/dataverse-cli/internal/config"
	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// NewAuthCommand creates the auth command group
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Inspect and test authentication",
		Long:  "Verify credentials, acquire tokens, and identify the authenticated user",
	}

	cmd.AddCommand(newAuthTestCommand())
	cmd.AddCommand(newAuthTokenCommand())
	cmd.AddCommand(newAuthWhoamiCommand())

	return cmd
}

// resolveToken picks the first satisfiable authentication method and
// acquires a token with it. Pre-supplied tokens skip the identity
// provider entirely.
func resolveToken(ctx context.Context, cfg *config.Config) (string, *auth.Token, error) {
	if cfg.HasTokenAuth() {
		return "pre-acquired token", &auth.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"}, nil
	}

	scope, err := cfg.AuthScope()
	if err != nil {
		return "", nil, err
	}

	oauthConfig := &auth.OAuth2Config{
		AuthorityBase: cfg.AuthorityBase,
		TenantID:      cfg.TenantID,
		ClientID:      cfg.ClientID,
		ClientSecret:  cfg.ClientSecret,
		Username:      cfg.Username,
		Password:      cfg.Password,
		Scope:         scope,
	}

	switch {
	case cfg.HasServicePrincipalAuth():
		token, err := auth.NewClientCredentialsTokenManager(oauthConfig).Acquire(ctx)

		return "service principal", token, err
	case cfg.HasUserAuth():
		token, err := auth.NewPasswordTokenManager(oauthConfig).Acquire(ctx)

		return "user credentials", token, err
	default:
		missing := cfg.MissingCredentials()

		return "", nil, &dataverse.ConfigurationError{
			Missing: missing,
			Message: missingCredentialsMessage(missing),
		}
	}
}

func newAuthTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test authentication",
		Long:  "Acquire a token with the configured credentials and report the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			if missing := cfg.MissingCredentials(); len(missing) > 0 {
				return &dataverse.ConfigurationError{
					Missing: missing,
					Message: missingCredentialsMessage(missing),
				}
			}

			method, token, err := resolveToken(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			type authResult struct {
				Method    string `json:"method"               yaml:"method"`
				TokenType string `json:"token_type"           yaml:"token_type"`
				ExpiresIn int    `json:"expires_in,omitempty" yaml:"expires_in,omitempty"`
				Scope     string `json:"scope,omitempty"      yaml:"scope,omitempty"`
			}

			result := authResult{
				Method:    method,
				TokenType: token.TokenType,
				ExpiresIn: token.ExpiresIn,
				Scope:     token.Scope,
			}

			switch outputFormat(false) {
			case OutputFormatYAML:
				return renderYAML(result)
			case OutputFormatTable:
				return renderPropertyTable([][2]string{
					{"Method", result.Method},
					{"Token Type", result.TokenType},
					{"Expires In", strconv.Itoa(result.ExpiresIn)},
					{"Scope", result.Scope},
				})
			default:
				return renderJSON(result)
			}
		},
	}
}

func newAuthTokenCommand() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Acquire an access token",
		Long:  "Acquire an access token; pass --show to print the raw token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			if missing := cfg.MissingCredentials(); len(missing) > 0 {
				return &dataverse.ConfigurationError{
					Missing: missing,
					Message: missingCredentialsMessage(missing),
				}
			}

			method, token, err := resolveToken(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if show {
				fmt.Fprintln(os.Stdout, token.AccessToken)

				return nil
			}

			fmt.Fprintf(os.Stdout, "Acquired %s token via %s (use --show to print it)\n",
				token.TokenType, method)

			return nil
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "print the raw access token")

	return cmd
}

func newAuthWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Identify the authenticated user",
		Long:  "Call the WhoAmI() function and display the caller's IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			whoami, err := client.WhoAmI(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to call WhoAmI: %w", err)
			}

			switch outputFormat(false) {
			case OutputFormatYAML:
				return renderYAML(whoami)
			case OutputFormatTable:
				return renderPropertyTable([][2]string{
					{"User ID", whoami.UserID},
					{"Business Unit ID", whoami.BusinessUnitID},
					{"Organization ID", whoami.OrganizationID},
				})
			default:
				return renderJSON(whoami)
			}
		},
	}
}
