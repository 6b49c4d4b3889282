package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// NewConnectorCommand creates the connector command group
func NewConnectorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connector",
		Aliases: []string{"connectors"},
		Short:   "Manage custom connectors",
		Long:    "Inspect and delete custom connectors",
	}

	cmd.AddCommand(newConnectorDeleteCommand())

	return cmd
}

func newConnectorDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete CONNECTOR_ID",
		Short: "Delete a custom connector",
		Long:  "Delete a custom connector after checking what still references it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRecordID(args[0]); err != nil {
				return err
			}

			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			connector, err := client.Connectors().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get connector: %w", err)
			}

			displayName := connector.DisplayName
			if displayName == "" {
				displayName = connector.Name
			}

			dependencies, err := client.Connectors().Dependencies(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to check connector dependencies: %w", err)
			}

			if count := dependencyCount(dependencies); count > 0 {
				fmt.Fprintf(os.Stdout, "Connector '%s' has %d dependent component(s)\n", displayName, count)
			}

			if !force && !confirm(fmt.Sprintf("Really delete connector '%s'?", displayName)) {
				fmt.Fprintln(os.Stdout, "Cancelled")

				return nil
			}

			if err := client.Connectors().Delete(cmd.Context(), args[0]); err != nil {
				apiErr := &dataverse.APIError{}
				if errors.As(err, &apiErr) && apiErr.IsDependencyConflict() {
					fmt.Fprintln(os.Stderr, "The connector is still referenced by other components.")
					fmt.Fprintln(os.Stderr, "Remove the dependent flows or connection references, then retry.")
				}

				return fmt.Errorf("failed to delete connector: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully deleted connector '%s'\n", displayName)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

// dependencyCount digs the entity list out of a
// RetrieveDependenciesForDelete response.
func dependencyCount(result dataverse.Entity) int {
	collection, ok := result["EntityCollection"].(map[string]interface{})
	if !ok {
		return 0
	}

	entities, ok := collection["Entities"].([]interface{})
	if !ok {
		return 0
	}

	return len(entities)
}
