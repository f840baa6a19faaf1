package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	canvasrenderer "github.com/ByLCY/cylscale/renderer/canvas"
	"github.com/ByLCY/cylscale/settings"
)

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the scale to a print-ready PDF (or SVG)",
	Long: `Render the scale as a single page whose size matches the scale frame.
Print at 100% scale for accurate dimensions.

Examples:
  cylscale export                                 # Uses pdf_filename from settings
  cylscale export -s m1a.json -o out/m1a.pdf
  cylscale export --diameter 32mm --set num_clicks=48 --format svg -o scale.svg`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	input.register(exportCmd.Flags())
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (pdf_filename from settings when empty, - for stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "pdf", "output format: pdf or svg")
}

func runExport(cmd *cobra.Command, args []string) error {
	format := canvasrenderer.Format(strings.ToLower(exportFormat))
	if format != canvasrenderer.FormatPDF && format != canvasrenderer.FormatSVG {
		return fmt.Errorf("--format 仅支持 pdf 或 svg，得到 %q", exportFormat)
	}
	doc, err := input.loadDocument()
	if err != nil {
		return err
	}
	out := exportOutput
	if out == "" {
		out = doc.OutputFilename()
		if format == canvasrenderer.FormatSVG {
			out = strings.TrimSuffix(out, ".pdf") + ".svg"
		}
	}
	if err := render(cmd, doc, canvasrenderer.Options{
		Format: format,
		Meta:   canvasrenderer.Meta{Title: doc.TitleText, Creator: "cylscale"},
	}, out); err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "已生成 %s：%s\n", strings.ToUpper(string(format)), out)
	}
	return nil
}

// render 计算场景并按 opts 渲染写出。
func render(cmd *cobra.Command, doc *settings.Document, opts canvasrenderer.Options, out string) error {
	scene, skipped, err := doc.Scene(input.sceneOptions(false))
	if err != nil {
		return err
	}
	reportSkipped(skipped)
	logger.Debug("scene computed", "width", scene.Width, "height", scene.Height, "commands", len(scene.Commands))

	data, err := canvasrenderer.NewRenderer(opts).Render(scene)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	return writeOutput(cmd, out, data)
}
