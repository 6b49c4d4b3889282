package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/dataverse-cli/internal/constants"
	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// NewSolutionCommand creates the solution command group
func NewSolutionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "solution",
		Aliases: []string{"solutions"},
		Short:   "Manage solutions",
		Long:    "List solutions and inspect their components and flows",
	}

	cmd.AddCommand(newSolutionListCommand())
	cmd.AddCommand(newSolutionGetCommand())
	cmd.AddCommand(newSolutionComponentsCommand())
	cmd.AddCommand(newSolutionFlowsCommand())

	return cmd
}

// resolveSolutionID turns a --id/--name flag pair into a solution ID.
// Exactly one must be provided; names resolve through a friendly-name
// lookup.
func resolveSolutionID(ctx context.Context, client dataverse.Client, id, name string) (string, error) {
	if id != "" {
		if err := validateRecordID(id); err != nil {
			return "", err
		}

		return id, nil
	}

	if name != "" {
		solution, err := client.Solutions().FindByName(ctx, name)
		if err != nil {
			return "", err
		}

		return solution.SolutionID, nil
	}

	return "", dataverse.NewUserError(constants.ErrSolutionIDOrNameRequired.Error())
}

func newSolutionListCommand() *cobra.Command {
	var (
		managed bool
		asTable bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List solutions",
		Long:  "List all solutions, optionally filtered by managed state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			var managedFilter *bool
			if cmd.Flags().Changed("managed") {
				managedFilter = &managed
			}

			solutions, err := client.Solutions().List(cmd.Context(), managedFilter)
			if err != nil {
				return fmt.Errorf("failed to list solutions: %w", err)
			}

			switch outputFormat(asTable) {
			case OutputFormatYAML:
				return renderYAML(solutions)
			case OutputFormatTable:
				return renderSolutionsTable(solutions)
			default:
				return renderJSON(solutions)
			}
		},
	}

	cmd.Flags().BoolVar(&managed, "managed", false, "filter by managed state")
	cmd.Flags().BoolVar(&asTable, "table", false, "render results as a table")

	return cmd
}

func renderSolutionsTable(solutions []dataverse.Solution) error {
	if len(solutions) == 0 {
		fmt.Println("No solutions found")

		return nil
	}

	rows := make([]map[string]interface{}, 0, len(solutions))

	for i := range solutions {
		solution := &solutions[i]
		rows = append(rows, map[string]interface{}{
			"solutionid":   solution.SolutionID,
			"friendlyname": solution.FriendlyName,
			"uniquename":   solution.UniqueName,
			"version":      solution.Version,
			"ismanaged":    solution.IsManaged,
		})
	}

	return renderRecordsTable(rows)
}

func newSolutionGetCommand() *cobra.Command {
	var (
		id   string
		name string
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a solution",
		Long:  "Fetch a solution record by --id or --name",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			solutionID, err := resolveSolutionID(cmd.Context(), client, id, name)
			if err != nil {
				return err
			}

			solution, err := client.Solutions().Get(cmd.Context(), solutionID)
			if err != nil {
				return fmt.Errorf("failed to get solution: %w", err)
			}

			switch outputFormat(false) {
			case OutputFormatYAML:
				return renderYAML(solution)
			case OutputFormatTable:
				return renderRecordsTable(toRecords(solution))
			default:
				return renderJSON(solution)
			}
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "solution ID")
	cmd.Flags().StringVar(&name, "name", "", "solution friendly name")

	return cmd
}

func newSolutionComponentsCommand() *cobra.Command {
	var (
		id            string
		name          string
		componentType int
	)

	cmd := &cobra.Command{
		Use:   "components",
		Short: "List solution components",
		Long:  "List the components of a solution, optionally filtered by component type",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			solutionID, err := resolveSolutionID(cmd.Context(), client, id, name)
			if err != nil {
				return err
			}

			components, err := client.Solutions().Components(cmd.Context(), solutionID, componentType)
			if err != nil {
				return fmt.Errorf("failed to list solution components: %w", err)
			}

			switch outputFormat(false) {
			case OutputFormatYAML:
				return renderYAML(components)
			default:
				return renderJSON(components)
			}
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "solution ID")
	cmd.Flags().StringVar(&name, "name", "", "solution friendly name")
	cmd.Flags().IntVar(&componentType, "type", 0, "component type code (e.g. 29 for workflows)")

	return cmd
}

func newSolutionFlowsCommand() *cobra.Command {
	var (
		id      string
		name    string
		asTable bool
	)

	cmd := &cobra.Command{
		Use:   "flows",
		Short: "List a solution's flows",
		Long:  "List the modern cloud flows belonging to a solution",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			solutionID, err := resolveSolutionID(cmd.Context(), client, id, name)
			if err != nil {
				return err
			}

			flows, err := client.Solutions().Flows(cmd.Context(), solutionID)
			if err != nil {
				return fmt.Errorf("failed to list solution flows: %w", err)
			}

			switch outputFormat(asTable) {
			case OutputFormatYAML:
				return renderYAML(flows)
			case OutputFormatTable:
				return renderFlowsTable(flows)
			default:
				return renderJSON(flows)
			}
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "solution ID")
	cmd.Flags().StringVar(&name, "name", "", "solution friendly name")
	cmd.Flags().BoolVar(&asTable, "table", false, "render results as a table")

	return cmd
}
