// Package server 通过 HTTP 暴露刻度布局、渲染与预设管理。
package server

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/ByLCY/cylscale/config"
	"github.com/ByLCY/cylscale/presets"
)

// Options 调整服务行为。
type Options struct {
	// AccessLog 为 true 时输出每个请求的访问日志。
	AccessLog bool
}

// New 创建 fiber 应用并注册全部路由。store 为 nil 时不注册 /presets 路由；logger 为 nil 时不输出日志。
func New(cfg *config.Config, store *presets.Store, logger *slog.Logger, opts Options) *fiber.App {
	if cfg == nil {
		cfg = config.Load()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimit,
		AppName:      "cylscale",
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(accessLogger())
	}

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	maxClicks := cfg.MaxClicks
	if maxClicks <= 0 {
		maxClicks = config.DefaultMaxClicks
	}
	h := &handler{store: store, logger: logger, maxClicks: maxClicks}

	app.Get("/defaults", h.Defaults)
	app.Post("/records/parse", h.ParseRecords)
	app.Post("/scene", h.Scene)
	app.Post("/preview", h.Preview)
	app.Post("/export", h.Export)
	app.Post("/svg", h.SVG)

	if store != nil {
		app.Get("/presets", h.ListPresets)
		app.Post("/presets", h.CreatePreset)
		app.Get("/presets/:id", h.GetPreset)
		app.Put("/presets/:id", h.UpdatePreset)
		app.Delete("/presets/:id", h.DeletePreset)
		app.Get("/presets/:id/scene", h.PresetScene)
		app.Get("/presets/:id/preview", h.PresetPreview)
		app.Get("/presets/:id/export", h.PresetExport)
	}
	return app
}
