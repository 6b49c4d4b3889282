// Package commands implements the dataverse CLI command tree.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/dataverse-cli/internal/client"
	"github.com/fivetwenty-io/dataverse-cli/internal/config"
	"github.com/fivetwenty-io/dataverse-cli/pkg/dataverse"
)

// Output formats.
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)

// activeClient is the process-wide client. Commands authenticate at most
// once per run.
var activeClient dataverse.Client

// GetClient returns the shared Dataverse client, authenticating on first
// use. Later calls reuse the same client without contacting the identity
// provider again.
func GetClient(ctx context.Context) (dataverse.Client, error) {
	if activeClient != nil {
		return activeClient, nil
	}

	cfg := config.Load()
	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		return nil, &dataverse.ConfigurationError{
			Missing: missing,
			Message: missingCredentialsMessage(missing),
		}
	}

	clientConfig := &dataverse.Config{
		DataverseURL:  cfg.DataverseURL,
		EnvironmentID: cfg.EnvironmentID,
		TenantID:      cfg.TenantID,
		ClientID:      cfg.ClientID,
		ClientSecret:  cfg.ClientSecret,
		Username:      cfg.Username,
		Password:      cfg.Password,
		AccessToken:   cfg.AccessToken,
		AuthorityBase: cfg.AuthorityBase,
	}

	if viper.GetBool("verbose") {
		logger, err := newZapLogger()
		if err != nil {
			return nil, err
		}

		clientConfig.Logger = logger
		clientConfig.Debug = true
	}

	dvClient, err := client.New(ctx, clientConfig)
	if err != nil {
		return nil, err
	}

	activeClient = dvClient

	return activeClient, nil
}

// ResetClient drops the cached client so the next GetClient call
// authenticates again. Tests only.
func ResetClient() {
	activeClient = nil
}

func missingCredentialsMessage(missing []string) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "missing required environment variables: %s\n\n", strings.Join(missing, ", "))
	builder.WriteString("Provide one of the following credential sets:\n")
	builder.WriteString("  1. DATAVERSE_URL + DATAVERSE_ACCESS_TOKEN\n")
	builder.WriteString("  2. DATAVERSE_URL + DATAVERSE_CLIENT_ID + DATAVERSE_CLIENT_SECRET + DATAVERSE_TENANT_ID\n")
	builder.WriteString("  3. DATAVERSE_URL + DATAVERSE_CLIENT_ID + DATAVERSE_TENANT_ID + DATAVERSE_USERNAME + DATAVERSE_PASSWORD")

	return builder.String()
}

// validateRecordID rejects malformed GUIDs before any network call.
func validateRecordID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return dataverse.NewUserError("invalid record ID '%s': must be a GUID", id)
	}

	return nil
}

// outputFormat resolves the effective format; a --table flag on a command
// overrides the global --output setting.
func outputFormat(forceTable bool) string {
	if forceTable {
		return OutputFormatTable
	}

	return viper.GetString("output")
}

func renderJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func renderYAML(data interface{}) error {
	if err := yaml.NewEncoder(os.Stdout).Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// renderPropertyTable prints ordered key/value rows.
func renderPropertyTable(rows [][2]string) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row[0], row[1])
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderRecordsTable prints arbitrary records as a table. Columns are the
// sorted keys of the first record; OData annotations are skipped.
func renderRecordsTable(records []map[string]interface{}) error {
	if len(records) == 0 {
		fmt.Println("No records found")

		return nil
	}

	columns := make([]string, 0, len(records[0]))

	for key := range records[0] {
		if strings.HasPrefix(key, "@odata.") {
			continue
		}

		columns = append(columns, key)
	}

	sort.Strings(columns)

	header := make([]interface{}, len(columns))
	for i, column := range columns {
		header[i] = column
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(header...)

	for _, record := range records {
		row := make([]interface{}, len(columns))
		for i, column := range columns {
			row[i] = formatCell(record[column])
		}

		_ = table.Append(row...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatCell(value interface{}) string {
	if value == nil {
		return ""
	}

	return fmt.Sprintf("%v", value)
}

// toRecords normalizes an unwrapped query result to a record slice for
// table rendering.
func toRecords(result interface{}) []map[string]interface{} {
	switch typed := result.(type) {
	case []interface{}:
		records := make([]map[string]interface{}, 0, len(typed))

		for _, item := range typed {
			if record, ok := item.(map[string]interface{}); ok {
				records = append(records, record)
			}
		}

		return records
	case dataverse.Entity:
		if len(typed) == 0 {
			return nil
		}

		return []map[string]interface{}{typed}
	case map[string]interface{}:
		return []map[string]interface{}{typed}
	default:
		return nil
	}
}

// confirm prompts for a y/N answer on stdout.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stdout, "%s (y/N): ", prompt)

	var response string

	_, _ = fmt.Scanln(&response)

	return response == "y" || response == "Y"
}

// zapLogger adapts zap to the dataverse.Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func newZapLogger() (*zapLogger, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &zapLogger{sugar: logger.Sugar()}, nil
}

func kvPairs(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]interface{}, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, key, fields[key])
	}

	return pairs
}

func (z *zapLogger) Debug(msg string, fields map[string]interface{}) {
	z.sugar.Debugw(msg, kvPairs(fields)...)
}

func (z *zapLogger) Info(msg string, fields map[string]interface{}) {
	z.sugar.Infow(msg, kvPairs(fields)...)
}

func (z *zapLogger) Warn(msg string, fields map[string]interface{}) {
	z.sugar.Warnw(msg, kvPairs(fields)...)
}

func (z *zapLogger) Error(msg string, fields map[string]interface{}) {
	z.sugar.Errorw(msg, kvPairs(fields)...)
}
