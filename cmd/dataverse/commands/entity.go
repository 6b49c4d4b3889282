package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// NewEntityCommand creates the entity command group
func NewEntityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entity",
		Aliases: []string{"entities"},
		Short:   "Query entity sets",
		Long:    "Query, fetch, count, and inspect arbitrary Dataverse entity sets",
	}

	cmd.AddCommand(newEntityQueryCommand())
	cmd.AddCommand(newEntityGetCommand())
	cmd.AddCommand(newEntityCountCommand())
	cmd.AddCommand(newEntityMetadataCommand())

	return cmd
}

func newEntityQueryCommand() *cobra.Command {
	var (
		filter       string
		selectFields []string
		orderBy      string
		top          int
		asTable      bool
	)

	cmd := &cobra.Command{
		Use:   "query ENTITY_SET",
		Short: "Query an entity set",
		Long:  "Run an OData query against an entity set, e.g. 'entity query accounts --filter \"statecode eq 0\"'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			params := dataverse.NewQueryParams()

			if filter != "" {
				params.WithFilter(filter)
			}

			if len(selectFields) > 0 {
				params.WithSelect(selectFields...)
			}

			if orderBy != "" {
				params.WithOrderBy(orderBy)
			}

			if top > 0 {
				params.WithTop(top)
			}

			result, err := client.Entities().Query(cmd.Context(), args[0], params)
			if err != nil {
				return fmt.Errorf("failed to query %s: %w", args[0], err)
			}

			switch outputFormat(asTable) {
			case OutputFormatYAML:
				return renderYAML(result)
			case OutputFormatTable:
				return renderRecordsTable(toRecords(result))
			default:
				return renderJSON(result)
			}
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "OData $filter expression")
	cmd.Flags().StringSliceVar(&selectFields, "select", nil, "attributes to return")
	cmd.Flags().StringVar(&orderBy, "orderby", "", "OData $orderby expression")
	cmd.Flags().IntVar(&top, "top", 0, "maximum number of records")
	cmd.Flags().BoolVar(&asTable, "table", false, "render results as a table")

	return cmd
}

func newEntityGetCommand() *cobra.Command {
	var selectFields []string

	cmd := &cobra.Command{
		Use:   "get ENTITY_SET RECORD_ID",
		Short: "Get a single record",
		Long:  "Fetch one record from an entity set by its GUID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRecordID(args[1]); err != nil {
				return err
			}

			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			record, err := client.Entities().Get(cmd.Context(), args[0], args[1], selectFields)
			if err != nil {
				return fmt.Errorf("failed to get %s record: %w", args[0], err)
			}

			switch outputFormat(false) {
			case OutputFormatYAML:
				return renderYAML(record)
			case OutputFormatTable:
				return renderRecordsTable(toRecords(record))
			default:
				return renderJSON(record)
			}
		},
	}

	cmd.Flags().StringSliceVar(&selectFields, "select", nil, "attributes to return")

	return cmd
}

func newEntityCountCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "count ENTITY_SET",
		Short: "Count records in an entity set",
		Long:  "Report the total record count of an entity set, optionally filtered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			count, err := client.Entities().Count(cmd.Context(), args[0], filter)
			if err != nil {
				return fmt.Errorf("failed to count %s: %w", args[0], err)
			}

			fmt.Fprintf(os.Stdout, "%d\n", count)

			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "OData $filter expression")

	return cmd
}

func newEntityMetadataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata LOGICAL_NAME",
		Short: "Show entity metadata",
		Long:  "Look up an entity definition by logical name (e.g. 'account')",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := GetClient(cmd.Context())
			if err != nil {
				return err
			}

			metadata, err := client.Entities().Metadata(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get metadata for %s: %w", args[0], err)
			}

			if len(metadata) == 0 {
				return dataverse.NewUserError("entity '%s' not found", args[0])
			}

			switch outputFormat(false) {
			case OutputFormatYAML:
				return renderYAML(metadata)
			case OutputFormatTable:
				return renderRecordsTable(toRecords(metadata))
			default:
				return renderJSON(metadata)
			}
		},
	}
}
