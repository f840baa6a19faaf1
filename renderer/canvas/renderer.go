package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/cylscale/fonts"
	"github.com/ByLCY/cylscale/layout"
	"github.com/ByLCY/cylscale/renderer"
)

// Format 是输出格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// 预览图的分辨率上限与目标像素宽度。
const (
	maxPreviewPPI     = 100.0
	previewPixelWidth = 1000.0
)

// Renderer draws a layout.Scene via github.com/tdewolff/canvas.
// Scene 坐标为英寸，canvas 使用毫米，绘制时统一换算。
type Renderer struct {
	opts Options

	fontMu sync.Mutex
	family *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	Format Format
	// PPI 仅用于 PNG；为 0 时按画幅宽度取预览分辨率。
	PPI float64
	// Regular/Bold 可替换内置字体，留空则使用 fonts 包中的字体。
	Regular Resource
	Bold    Resource
	Meta    Meta
}

// Meta 写入 PDF 文档信息。
type Meta struct {
	Title   string
	Subject string
	Author  string
	Creator string
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer with the given options. 未指定格式时输出 PDF。
func NewRenderer(opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatPDF
	}
	return &Renderer{opts: opts}
}

// NewPDFRenderer 输出单页 PDF，页面尺寸与画幅一致。
func NewPDFRenderer() *Renderer { return NewRenderer(Options{Format: FormatPDF}) }

// NewPNGRenderer 输出 PNG 预览图；ppi 为 0 时使用 PreviewPPI。
func NewPNGRenderer(ppi float64) *Renderer {
	return NewRenderer(Options{Format: FormatPNG, PPI: ppi})
}

// NewSVGRenderer 输出 SVG。
func NewSVGRenderer() *Renderer { return NewRenderer(Options{Format: FormatSVG}) }

// PreviewPPI 返回宽度为 widthIn 英寸的画幅在预览时使用的分辨率：
// 目标约 1000 像素宽，且不超过 100 ppi。
func PreviewPPI(widthIn float64) float64 {
	if widthIn <= 0 {
		return maxPreviewPPI
	}
	return math.Min(previewPixelWidth/widthIn, maxPreviewPPI)
}

// Format 返回输出格式。
func (r *Renderer) Format() Format { return r.opts.Format }

// ContentType 返回输出格式对应的 MIME 类型。
func (r *Renderer) ContentType() string {
	switch r.opts.Format {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "application/pdf"
	}
}

// Render 将场景按配置的格式输出。
func (r *Renderer) Render(scene *layout.Scene) ([]byte, error) {
	if scene == nil {
		return nil, fmt.Errorf("渲染场景为空")
	}
	if scene.Width <= 0 || scene.Height <= 0 {
		return nil, fmt.Errorf("画幅尺寸无效: %gx%g", scene.Width, scene.Height)
	}

	w, h := toMm(scene.Width), toMm(scene.Height)
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	if err := r.drawScene(ctx, scene); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch r.opts.Format {
	case FormatPDF:
		writer := pdf.New(&buf, w, h, nil)
		m := r.opts.Meta
		writer.SetInfo(m.Title, m.Subject, "", m.Author, m.Creator)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case FormatPNG:
		ppi := r.opts.PPI
		if ppi <= 0 {
			ppi = PreviewPPI(scene.Width)
		}
		if err := renderers.PNG(canvas.DPI(ppi))(&buf, c); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	case FormatSVG:
		if err := renderers.SVG()(&buf, c); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", r.opts.Format)
	}
	return buf.Bytes(), nil
}

// drawScene 按指令顺序绘制，后绘制的覆盖先绘制的。
func (r *Renderer) drawScene(ctx *canvas.Context, scene *layout.Scene) error {
	for i, cmd := range scene.Commands {
		switch cmd.Kind {
		case layout.KindFilledRect:
			if cmd.Rect != nil {
				r.drawRect(ctx, *cmd.Rect)
			}
		case layout.KindLine:
			if cmd.Line != nil {
				r.drawLine(ctx, *cmd.Line)
			}
		case layout.KindText:
			if cmd.Text != nil {
				if err := r.drawText(ctx, *cmd.Text); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("第 %d 条指令类型 %q 未知", i, cmd.Kind)
		}
	}
	return nil
}

func (r *Renderer) drawRect(ctx *canvas.Context, rc layout.FilledRect) {
	ctx.SetFillColor(colorFromLayout(rc.Color))
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(toMm(rc.X), toMm(rc.Y), canvas.Rectangle(toMm(rc.Width), toMm(rc.Height)))
}

// drawLine 绘制平头线段。
func (r *Renderer) drawLine(ctx *canvas.Context, ln layout.Line) {
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(colorFromLayout(ln.Color))
	ctx.SetStrokeWidth(toMm(ln.Width))
	ctx.SetStrokeCapper(canvas.ButtCap)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(toMm(ln.X2-ln.X1), toMm(ln.Y2-ln.Y1))
	ctx.DrawPath(toMm(ln.X1), toMm(ln.Y1), p)
}

func (r *Renderer) drawText(ctx *canvas.Context, tx layout.Text) error {
	if tx.Content == "" || tx.FontSize <= 0 {
		return nil
	}
	face, err := r.fontFace(tx.FontSize, tx.Color, tx.Bold)
	if err != nil {
		return err
	}
	metrics := face.Metrics()
	baseline := textBaseline(toMm(tx.Y), metrics.Ascent, metrics.Descent, tx.VAlign)
	line := canvas.NewTextLine(face, tx.Content, textAlign(tx.HAlign))
	ctx.DrawText(toMm(tx.X), baseline, line)
	return nil
}

// textBaseline 由锚点 y（毫米，Y 向下）求基线位置。
func textBaseline(y, ascent, descent float64, v layout.VAlign) float64 {
	if v == layout.AlignTop {
		return y + math.Abs(ascent)
	}
	return y - math.Abs(descent)
}

func textAlign(h layout.HAlign) canvas.TextAlign {
	switch h {
	case layout.AlignLeft:
		return canvas.Left
	case layout.AlignRight:
		return canvas.Right
	default:
		return canvas.Center
	}
}

func (r *Renderer) fontFace(sizePt float64, col layout.Color, bold bool) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily()
	if err != nil {
		return nil, err
	}
	style := canvas.FontRegular
	if bold {
		style = canvas.FontBold
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil {
		return r.family, nil
	}

	family := canvas.NewFontFamily("cylscale")
	for _, f := range []struct {
		res     Resource
		builtin string
		style   canvas.FontStyle
	}{
		{r.opts.Regular, fonts.Regular, canvas.FontRegular},
		{r.opts.Bold, fonts.Bold, canvas.FontBold},
	} {
		data, err := loadFontBytes(f.res, f.builtin)
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, f.style); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", f.builtin, err)
		}
	}
	r.family = family
	return family, nil
}

func loadFontBytes(res Resource, builtin string) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path != "" {
		data, err := os.ReadFile(res.Path)
		if err != nil {
			return nil, fmt.Errorf("读取字体 %s 失败: %w", res.Path, err)
		}
		return data, nil
	}
	return fonts.Load(builtin)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toMm 将英寸转换为毫米。
func toMm(in float64) float64 { return layout.InToMM(in) }
