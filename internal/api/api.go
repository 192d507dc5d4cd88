package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shopify-repricer/internal/app/usecases"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// RepriceHandler exposes the pricing pass over HTTP.
type RepriceHandler struct {
	repricer usecases.RepricerService
}

func NewRepriceHandler(repricer usecases.RepricerService) *RepriceHandler {
	return &RepriceHandler{repricer: repricer}
}

// Reprice runs one pass synchronously and returns its outcome.
func (h *RepriceHandler) Reprice(c echo.Context) error {
	// The pass outlives a dropped client connection.
	ctx := context.WithoutCancel(c.Request().Context())
	outcome, err := h.repricer.Run(ctx, usecases.TriggerManual)
	if errors.Is(err, usecases.ErrPassInProgress) {
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, outcome)
}

func (h *RepriceHandler) ReloadFeed(c echo.Context) error {
	loaded, err := h.repricer.ReloadFeed(c.Request().Context())
	body := map[string]any{"loaded": loaded}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.JSON(http.StatusOK, body)
}

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "shopify-repricer",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// NewServer builds the echo instance with routes and middleware.
func NewServer(handler *RepriceHandler, logger *zap.Logger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))

	e.GET("/health", Health)
	e.POST("/reprice", handler.Reprice)
	e.POST("/feed/reload", handler.ReloadFeed)
	return e
}
