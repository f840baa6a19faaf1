package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool

	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "cylscale",
	Short: "Cylinder click scale generator",
	Long: `Generate printable click scales that wrap around a cylinder (scope turrets,
knobs, dials), with optional plotted data points such as range/elevation records.

Examples:
  cylscale export -o scale.pdf                          # Default scale with sample records
  cylscale export -s settings.json -r records.xlsx      # Settings file plus workbook records
  cylscale preview --set num_clicks=48 -o preview.png   # PNG preview with an override
  cylscale scene --debug -o scene.json                  # Dump the scene with placement info
  cylscale serve                                        # HTTP API on $PORT`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
