package metric

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthTimeout = 2 * time.Second

// HealthCheck - проверка внешней зависимости для /health
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewServer создает сервер метрик. /health отвечает 503, пока хоть одна проверка падает.
func NewServer(checks ...HealthCheck) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", health(checks))

	return e
}

func health(checks []HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		failed := make(map[string]string)

		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				failed[hc.Name] = err.Error()
			}
		}

		if len(failed) > 0 {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"failed": failed,
			})
		}

		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
