package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/middleware"
	"github.com/x-xyz/marketplace/stores/auth/usecase"
)

func TestAuth(t *testing.T) {
	auth := usecase.New("jwt-secret", "login %s")
	tkn, err := auth.SignToken(ctx.Background(), "0x71C7656EC7ab88b098defB751B7401B5f6d8976F")
	require.NoError(t, err)

	e := echo.New()
	e.Use(middleware.InitMiddleware().AddContext())
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, string(c.Get("address").(domain.Address)))
	}, New(auth).Auth())

	for _, tt := range []struct {
		header string
		code   int
	}{
		{"", http.StatusBadRequest},
		{"Bearer forged", http.StatusUnauthorized},
		{"Bearer " + tkn, http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tt.header != "" {
			req.Header.Set(echo.HeaderAuthorization, tt.header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, tt.code, rec.Code, tt.header)
		if tt.code == http.StatusOK {
			assert.Equal(t, "0x71c7656ec7ab88b098defb751b7401b5f6d8976f", rec.Body.String())
		}
	}
}
