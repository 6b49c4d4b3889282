package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/dataverse-cli/cmd/dataverse/commands"
	"github.com/fivetwenty-io/dataverse-cli/internal/constants"
	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "dataverse",
	Short: "Microsoft Dataverse Web API CLI",
	Long: `A command-line interface for the Microsoft Dataverse Web API.

Query entity sets, manage Power Automate cloud flows and solutions, and
inspect authentication against a Dataverse environment. Credentials are
read from the environment (or a .env file in the working directory).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version

	// Global flags
	rootCmd.PersistentFlags().String("output", "json", "output format (json, yaml, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewAuthCommand())
	rootCmd.AddCommand(commands.NewEntityCommand())
	rootCmd.AddCommand(commands.NewFlowCommand())
	rootCmd.AddCommand(commands.NewSolutionCommand())
	rootCmd.AddCommand(commands.NewConnectorCommand())
}

// exitCode maps an execution error to the process exit code:
// configuration, authentication, and API errors exit 2; interrupts exit
// 130; anything else (including invalid user input) exits 1.
func exitCode(err error) int {
	if err == nil {
		return constants.ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		return constants.ExitInterrupted
	}

	configErr := &dataverse.ConfigurationError{}
	authErr := &dataverse.AuthError{}
	apiErr := &dataverse.APIError{}

	if errors.As(err, &configErr) || errors.As(err, &authErr) || errors.As(err, &apiErr) {
		return constants.ExitClientError
	}

	return constants.ExitFailure
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}

	os.Exit(exitCode(err))
}
