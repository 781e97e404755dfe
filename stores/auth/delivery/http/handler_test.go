package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/ethereum"
	"github.com/x-xyz/marketplace/base/validator"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
	"github.com/x-xyz/marketplace/stores/auth/usecase"
)

func newServer(auth domain.AuthUsecase) *echo.Echo {
	e := echo.New()
	e.Validator = validator.NewCustomValidator(goValidator.New())
	e.Use(middleware.InitMiddleware().AddContext())
	New(e, auth)
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, string(c.Get("address").(domain.Address)))
	}, authMiddleware.New(auth).Auth())
	return e
}

func TestLoginFlow(t *testing.T) {
	auth := usecase.New("jwt-secret", "Sign in as %s")
	e := newServer(auth)

	key, pub, err := ethereum.GenerateKey()
	require.NoError(t, err)
	address := ethereum.AddressOf(pub)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/signingMsg/"+address, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	msgRes := struct {
		Data struct {
			Msg string `json:"msg"`
		} `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgRes))
	assert.Equal(t, "Sign in as "+strings.ToLower(address), msgRes.Data.Msg)

	sig, err := ethereum.SignMsg(key, []byte(msgRes.Data.Msg))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/sign", strings.NewReader(`{"address":"`+address+`","signature":"`+sig+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tknRes := struct {
		Data string `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tknRes))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tknRes.Data)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, strings.ToLower(address), rec.Body.String())

	_, err = auth.ParseToken(ctx.Background(), tknRes.Data)
	assert.NoError(t, err)
}

func TestSignRejectsBadSignature(t *testing.T) {
	e := newServer(usecase.New("jwt-secret", "Sign in as %s"))

	body := `{"address":"0x71c7656ec7ab88b098defb751b7401b5f6d8976f","signature":"0x00"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/sign", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/sign", strings.NewReader(`{"address":"nope","signature":"0x00"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
