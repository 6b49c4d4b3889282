package commands

import (
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the dataverse CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			versionInfo := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			switch outputFormat(false) {
			case OutputFormatYAML:
				return renderYAML(versionInfo)
			case OutputFormatTable:
				return renderPropertyTable([][2]string{
					{"Version", version},
					{"Commit", commit},
					{"Built", date},
				})
			default:
				return renderJSON(versionInfo)
			}
		},
	}
}
