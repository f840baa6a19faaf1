package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/cylscale/layout"
)

var (
	sceneOutput string
	sceneDebug  bool
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Print the computed scene (drawing primitives) as JSON",
	Long: `Compute the scale layout and print the ordered drawing primitives as JSON.
Coordinates are inches from the frame's top-left corner, Y pointing down.

Examples:
  cylscale scene | jq '.commands | length'
  cylscale scene --debug -o scene.json              # Include plotted placement info`,
	Args: cobra.NoArgs,
	RunE: runScene,
}

func init() {
	rootCmd.AddCommand(sceneCmd)
	input.register(sceneCmd.Flags())
	sceneCmd.Flags().StringVarP(&sceneOutput, "output", "o", "-", "output path (- for stdout)")
	sceneCmd.Flags().BoolVar(&sceneDebug, "debug", false, "attach row/stack/crowding info to plotted numbers")
}

func runScene(cmd *cobra.Command, args []string) error {
	doc, err := input.loadDocument()
	if err != nil {
		return err
	}
	scene, skipped, err := doc.Scene(input.sceneOptions(sceneDebug))
	if err != nil {
		return err
	}
	reportSkipped(skipped)
	if sceneDebug {
		logger.Info("placement computed", "plotted", len(scene.Texts(layout.RolePlotted)), "crowded", layout.CrowdedCount(scene))
	}

	if sceneOutput != "-" {
		if err := layout.WriteDebugJSON(scene, sceneOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已写出场景：%s\n", sceneOutput)
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(scene)
}
