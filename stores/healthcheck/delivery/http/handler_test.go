package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	hcdomain "github.com/x-xyz/marketplace/domain/healthcheck"
	"github.com/x-xyz/marketplace/middleware"
	"github.com/x-xyz/marketplace/stores/healthcheck/usecase"
)

type stubRepo struct {
	err error
}

func (s stubRepo) Components() []string {
	return []string{hcdomain.ComponentMongo}
}

func (s stubRepo) Ping(ctx.Ctx, string) error {
	return s.err
}

func serve(t *testing.T, repo hcdomain.HealthCheckRepo) (int, json.RawMessage) {
	e := echo.New()
	e.Use(middleware.InitMiddleware().AddContext())
	New(e, usecase.New(repo))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	res := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return rec.Code, res.Data
}

func TestCheckHealthy(t *testing.T) {
	code, data := serve(t, stubRepo{})
	assert.Equal(t, http.StatusOK, code)

	statuses := []hcdomain.Status{}
	require.NoError(t, json.Unmarshal(data, &statuses))
	assert.Equal(t, []hcdomain.Status{{Component: hcdomain.ComponentMongo, Healthy: true}}, statuses)
}

func TestCheckUnhealthy(t *testing.T) {
	code, data := serve(t, stubRepo{err: errors.New("mongo down")})
	assert.Equal(t, http.StatusServiceUnavailable, code)

	fail := delivery.FailData{}
	require.NoError(t, json.Unmarshal(data, &fail))
	assert.Equal(t, "Unhealthy", fail.Kind)
	assert.Equal(t, map[string]string{hcdomain.ComponentMongo: "mongo down"}, fail.Details)
}
