package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ByLCY/cylscale/layout"
	"github.com/ByLCY/cylscale/presets"
	"github.com/ByLCY/cylscale/records"
)

// requestError 表示请求本身有误（格式、参数），映射为 400。
type requestError struct {
	msg string
	err error
}

func (e *requestError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *requestError) Unwrap() error { return e.err }

func badRequest(msg string, err error) error { return &requestError{msg: msg, err: err} }

func isConfigError(err error) bool {
	var cfgErr *layout.ConfigError
	return errors.As(err, &cfgErr)
}

// fail 将错误映射为 HTTP 状态码与 JSON 错误体。
func (h *handler) fail(c fiber.Ctx, err error) error {
	var (
		cfgErr   *layout.ConfigError
		parseErr *records.ParseError
		reqErr   *requestError
	)
	switch {
	case errors.As(err, &cfgErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": cfgErr.Error(), "field": cfgErr.Field})
	case errors.As(err, &parseErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": parseErr.Error(),
			"line":  parseErr.Line,
			"field": parseErr.Field,
		})
	case errors.As(err, &reqErr), errors.Is(err, presets.ErrEmptyName):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, presets.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		h.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
