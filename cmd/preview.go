package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	canvasrenderer "github.com/ByLCY/cylscale/renderer/canvas"
)

var (
	previewOutput string
	previewPPI    float64
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a PNG preview of the scale",
	Long: `Render the scale as a PNG. By default the resolution targets about 1000 pixels
across the frame, capped at 100 pixels per inch.

Examples:
  cylscale preview -o preview.png
  cylscale preview -r records.txt --ppi 300 -o hires.png`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	input.register(previewCmd.Flags())
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "preview.png", "output path (- for stdout)")
	previewCmd.Flags().Float64Var(&previewPPI, "ppi", 0, "pixels per inch (automatic when 0)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if previewPPI < 0 {
		return fmt.Errorf("--ppi 不能为负数")
	}
	doc, err := input.loadDocument()
	if err != nil {
		return err
	}
	if err := render(cmd, doc, canvasrenderer.Options{Format: canvasrenderer.FormatPNG, PPI: previewPPI}, previewOutput); err != nil {
		return err
	}
	if previewOutput != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "已生成预览：%s\n", previewOutput)
	}
	return nil
}
