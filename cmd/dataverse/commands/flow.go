package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// NewFlowCommand creates the flow command group
func NewFlowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flow",
		Aliases: []string{"flows"},
		Short:   "Manage cloud flows",
		Long:    "List, create, update, and manage Power Automate cloud flows",
	}

	cmd.AddCommand(newFlowListCommand())
	cmd.AddCommand(newFlowGetCommand())
	cmd.AddCommand(newFlowCreateCommand())
	cmd.AddCommand(newFlowUpdateCommand())
	cmd.AddCommand(newFlowDeleteCommand())
	cmd.AddCommand(newFlowActivateCommand())
	cmd.AddCommand(newFlowDeactivateCommand())

	return cmd
}

func validateState(state string) error {
	if state == "" || strings.EqualFold(state, "draft") || strings.EqualFold(state, "activated") {
		return nil
	}

	return dataverse.NewUserError("invalid state '%s': must be 'draft' or 'activated'", state)
}

func renderFlowsTable(flows []dataverse.Workflow) error {
	if len(flows) == 0 {
		fmt.Println("No flows found")

		return nil
	}

	rows := make([]map[string]interface{}, 0, len(flows))

	for i := range flows {
		flow := &flows[i]
		rows = append(rows, map[string]interface{}{
			"workflowid": flow.WorkflowID,
			"name":       flow.Name,
			"state":      flow.StateName(),
			"modifiedon": flow.ModifiedOn.Format("2006-01-02 15:04:05"),
		})
	}

	return renderRecordsTable(rows)
}

func newFlowListCommand() *cobra.Command {
	var (
		solution string
		state    string
		asTable  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cloud flows",
		Long:  "List modern cloud flows, optionally filtered by state or solution",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateState(state); err != nil {
				return err
			}

			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			flows, err := client.Workflows().List(cmd.Context(), dataverse.WorkflowListOptions{
				State:        state,
				SolutionName: solution,
			})
			if err != nil {
				return fmt.Errorf("failed to list flows: %w", err)
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

	cmd.Flags().StringVar(&solution, "solution", "", "filter by solution friendly name")
	cmd.Flags().StringVar(&state, "state", "", "filter by state (draft, activated)")
	cmd.Flags().BoolVar(&asTable, "table", false, "render results as a table")

	return cmd
}

func newFlowGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get FLOW_ID",
		Short: "Get a cloud flow",
		Long:  "Fetch the full workflow record of a cloud flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRecordID(args[0]); err != nil {
				return err
			}

			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			flow, err := client.Workflows().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get flow: %w", err)
			}

			switch outputFormat(false) {
			case OutputFormatYAML:
				return renderYAML(flow)
			case OutputFormatTable:
				return renderRecordsTable(toRecords(flow))
			default:
				return renderJSON(flow)
			}
		},
	}
}

func newFlowCreateCommand() *cobra.Command {
	var (
		name        string
		trigger     string
		solutionID  string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a cloud flow",
		Long:  "Create a new modern cloud flow in draft state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if solutionID != "" {
				if err := validateRecordID(solutionID); err != nil {
					return err
				}
			}

			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			flowID, err := client.Workflows().Create(cmd.Context(), &dataverse.WorkflowCreateRequest{
				Name:        name,
				Trigger:     dataverse.TriggerType(trigger),
				SolutionID:  solutionID,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to create flow: %w", err)
			}

			if flowID == "" {
				fmt.Fprintf(os.Stdout, "Successfully created flow '%s'\n", name)

				return nil
			}

			fmt.Fprintf(os.Stdout, "Successfully created flow '%s' with ID %s\n", name, flowID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "flow name (required)")
	cmd.Flags().StringVar(&trigger, "trigger", "http", "trigger type (http, manual)")
	cmd.Flags().StringVar(&solutionID, "solution-id", "", "solution to create the flow in")
	cmd.Flags().StringVar(&description, "description", "", "flow description")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newFlowUpdateCommand() *cobra.Command {
	var (
		name        string
		description string
		state       string
	)

	cmd := &cobra.Command{
		Use:   "update FLOW_ID",
		Short: "Update a cloud flow",
		Long:  "Patch a cloud flow's name, description, or state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRecordID(args[0]); err != nil {
				return err
			}

			if err := validateState(state); err != nil {
				return err
			}

			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			err = client.Workflows().Update(cmd.Context(), args[0], &dataverse.WorkflowUpdateRequest{
				Name:        name,
				Description: description,
				State:       state,
			})
			if err != nil {
				return fmt.Errorf("failed to update flow: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully updated flow %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new flow name")
	cmd.Flags().StringVar(&description, "description", "", "new flow description")
	cmd.Flags().StringVar(&state, "state", "", "new state (draft, activated)")

	return cmd
}

func newFlowDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete FLOW_ID",
		Short: "Delete a cloud flow",
		Long:  "Delete a cloud flow after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRecordID(args[0]); err != nil {
				return err
			}

			if !yes && !confirm(fmt.Sprintf("Really delete flow %s?", args[0])) {
				fmt.Fprintln(os.Stdout, "Cancelled")

				return nil
			}

			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.Workflows().Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete flow: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully deleted flow %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")

	return cmd
}

func newFlowActivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate FLOW_ID",
		Short: "Activate a cloud flow",
		Long:  "Turn a cloud flow on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRecordID(args[0]); err != nil {
				return err
			}

			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.Workflows().Activate(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to activate flow: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully activated flow %s\n", args[0])

			return nil
		},
	}
}

func newFlowDeactivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate FLOW_ID",
		Short: "Deactivate a cloud flow",
		Long:  "Turn a cloud flow off (back to draft)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRecordID(args[0]); err != nil {
				return err
			}

			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.Workflows().Deactivate(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to deactivate flow: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully deactivated flow %s\n", args[0])

			return nil
		},
	}
}
