package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/cylscale/settings"
)

var defaultsOutput string

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Write the default settings (with sample records) as JSON",
	Long: `Write a settings file holding every parameter at its default value plus the
sample records, as a starting point for editing.

Examples:
  cylscale defaults -o settings.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := settings.Encode(settings.New())
		if err != nil {
			return err
		}
		return writeOutput(cmd, defaultsOutput, append(data, '\n'))
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
	defaultsCmd.Flags().StringVarP(&defaultsOutput, "output", "o", "-", "output path (- for stdout)")
}
