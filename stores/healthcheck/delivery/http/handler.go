package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	hcdomain "github.com/x-xyz/marketplace/domain/healthcheck"
)

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

// New will initialize the healthcheck/
func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	g := e.Group("/health")
	g.GET("", handler.check)
}

func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	statuses, err := h.healthCheck.Check(context)
	if err != nil {
		details := map[string]string{}
		for _, s := range statuses {
			if !s.Healthy {
				details[s.Component] = s.Error
			}
		}
		return delivery.MakeJsonResp(c, http.StatusServiceUnavailable, delivery.FailData{
			Kind:    "Unhealthy",
			Message: err.Error(),
			Details: details,
		})
	}
	return delivery.MakeJsonResp(c, http.StatusOK, statuses)
}
