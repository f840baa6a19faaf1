package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/ByLCY/cylscale/layout"
	"github.com/ByLCY/cylscale/presets"
	"github.com/ByLCY/cylscale/records"
	canvasrenderer "github.com/ByLCY/cylscale/renderer/canvas"
	"github.com/ByLCY/cylscale/settings"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type handler struct {
	store     *presets.Store
	logger    *slog.Logger
	maxClicks int
}

type sceneResponse struct {
	Scene   *layout.Scene         `json:"scene"`
	Skipped []*records.ParseError `json:"skipped,omitempty"`
}

type parseResponse struct {
	Records []layout.PlotRecord   `json:"records"`
	Errors  []*records.ParseError `json:"errors,omitempty"`
}

type presetRequest struct {
	Name     string          `json:"name"`
	Settings json.RawMessage `json:"settings"`
}

// Defaults 返回默认设置（含示例记录）。
func (h *handler) Defaults(c fiber.Ctx) error {
	return c.JSON(settings.New())
}

// ParseRecords 解析纯文本或 xlsx 请求体中的记录。
func (h *handler) ParseRecords(c fiber.Ctx) error {
	opts := records.ParseOptions{SkipInvalid: queryBool(c, "skip_invalid")}
	var (
		recs    []layout.PlotRecord
		skipped []*records.ParseError
		err     error
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), xlsxMIME) {
		recs, skipped, err = records.ReadWorkbookFrom(bytes.NewReader(c.Body()), c.Query("sheet"), opts)
		var parseErr *records.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			err = badRequest("invalid workbook", err)
		}
	} else {
		recs, skipped, err = records.ParseWithOptions(string(c.Body()), opts)
	}
	if err != nil {
		return h.fail(c, err)
	}
	if recs == nil {
		recs = []layout.PlotRecord{}
	}
	return c.JSON(parseResponse{Records: recs, Errors: skipped})
}

// Scene 返回场景 JSON。
func (h *handler) Scene(c fiber.Ctx) error {
	doc, err := h.decodeDocument(c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendScene(c, doc)
}

// Preview 返回 PNG 预览。
func (h *handler) Preview(c fiber.Ctx) error {
	doc, err := h.decodeDocument(c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendRendered(c, doc, canvasrenderer.FormatPNG)
}

// Export 返回 PDF，文件名取自 pdf_filename。
func (h *handler) Export(c fiber.Ctx) error {
	doc, err := h.decodeDocument(c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendRendered(c, doc, canvasrenderer.FormatPDF)
}

// SVG 返回 SVG。
func (h *handler) SVG(c fiber.Ctx) error {
	doc, err := h.decodeDocument(c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendRendered(c, doc, canvasrenderer.FormatSVG)
}

func (h *handler) ListPresets(c fiber.Ctx) error {
	list, err := h.store.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	if list == nil {
		list = []presets.Preset{}
	}
	return c.JSON(list)
}

func (h *handler) CreatePreset(c fiber.Ctx) error {
	name, doc, err := h.decodePresetRequest(c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	p, err := h.store.Create(c.Context(), name, doc)
	if err != nil {
		return h.fail(c, err)
	}
	h.logger.Info("preset created", "id", p.ID, "name", p.Name)
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *handler) GetPreset(c fiber.Ctx) error {
	p, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

func (h *handler) UpdatePreset(c fiber.Ctx) error {
	name, doc, err := h.decodePresetRequest(c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	p, err := h.store.Update(c.Context(), c.Params("id"), name, doc)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

func (h *handler) DeletePreset(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.store.Delete(c.Context(), id); err != nil {
		return h.fail(c, err)
	}
	h.logger.Info("preset deleted", "id", id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handler) PresetScene(c fiber.Ctx) error {
	p, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendScene(c, p.Settings)
}

func (h *handler) PresetPreview(c fiber.Ctx) error {
	p, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendRendered(c, p.Settings, canvasrenderer.FormatPNG)
}

func (h *handler) PresetExport(c fiber.Ctx) error {
	p, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendRendered(c, p.Settings, canvasrenderer.FormatPDF)
}

func (h *handler) sendScene(c fiber.Ctx, doc *settings.Document) error {
	if err := h.checkLimits(doc); err != nil {
		return h.fail(c, err)
	}
	scene, skipped, err := doc.Scene(sceneOptions(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sceneResponse{Scene: scene, Skipped: skipped})
}

func (h *handler) sendRendered(c fiber.Ctx, doc *settings.Document, format canvasrenderer.Format) error {
	if err := h.checkLimits(doc); err != nil {
		return h.fail(c, err)
	}
	scene, skipped, err := doc.Scene(sceneOptions(c))
	if err != nil {
		return h.fail(c, err)
	}
	opts := canvasrenderer.Options{Format: format}
	switch format {
	case canvasrenderer.FormatPNG:
		if v := c.Query("ppi"); v != "" {
			ppi, err := strconv.ParseFloat(v, 64)
			if err != nil || ppi <= 0 {
				return h.fail(c, badRequest(fmt.Sprintf("ppi %q 无效", v), err))
			}
			opts.PPI = ppi
		}
	case canvasrenderer.FormatPDF:
		opts.Meta = canvasrenderer.Meta{Title: doc.TitleText, Creator: "cylscale"}
	}
	r := canvasrenderer.NewRenderer(opts)
	data, err := r.Render(scene)
	if err != nil {
		return h.fail(c, err)
	}
	h.logger.Debug("rendered", "format", format, "bytes", len(data), "skipped", len(skipped))

	if len(skipped) > 0 {
		c.Set("X-Skipped-Lines", strconv.Itoa(len(skipped)))
	}
	if format == canvasrenderer.FormatPDF {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.OutputFilename()))
	}
	c.Set(fiber.HeaderContentType, r.ContentType())
	return c.Send(data)
}

func sceneOptions(c fiber.Ctx) settings.SceneOptions {
	return settings.SceneOptions{
		SkipInvalid:    queryBool(c, "skip_invalid"),
		DebugPlacement: queryBool(c, "debug"),
		BindTitle:      queryBool(c, "bind"),
	}
}

func queryBool(c fiber.Ctx, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

// decodeDocument 解析请求体中的设置；空请求体使用默认设置。
func (h *handler) decodeDocument(body []byte) (*settings.Document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return settings.New(), nil
	}
	doc, err := settings.Decode(body)
	if err != nil {
		if isConfigError(err) {
			return nil, err
		}
		return nil, badRequest("invalid json", err)
	}
	if err := h.checkLimits(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// checkLimits 拒绝刻度数过大的设置，场景指令数随 num_clicks + long_click_interval 线性增长。
func (h *handler) checkLimits(doc *settings.Document) error {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"num_clicks", doc.NumClicks},
		{"long_click_interval", doc.LongClickInterval},
	} {
		if f.value > h.maxClicks {
			return &layout.ConfigError{Field: f.name, Value: f.value, Reason: fmt.Sprintf("超过服务上限 %d", h.maxClicks)}
		}
	}
	return nil
}

func (h *handler) decodePresetRequest(body []byte) (string, *settings.Document, error) {
	if len(body) == 0 {
		return "", nil, badRequest("empty body", nil)
	}
	var req presetRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", nil, badRequest("invalid json", err)
	}
	doc, err := h.decodeDocument(req.Settings)
	if err != nil {
		return "", nil, err
	}
	return req.Name, doc, nil
}
