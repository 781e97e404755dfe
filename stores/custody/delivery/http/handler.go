package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/custody"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
)

type handler struct {
	custody custody.Usecase
}

func New(e *echo.Echo, uc custody.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{custody: uc}

	g := e.Group("/collections/:collection", middleware.IsValidAddress("collection"))

	g.POST("/mint", h.mint, authMiddleware.Auth())

	g.POST("/operators", h.setApprovalForAll, authMiddleware.Auth())

	g.GET("/tokens/:tokenId", h.getToken)

	g.POST("/tokens/:tokenId/approve", h.approve, authMiddleware.Auth())
}

type tokenResp struct {
	Collection domain.Address `json:"collection"`
	TokenId    domain.TokenId `json:"tokenId"`
	Owner      domain.Address `json:"owner"`
	Approved   domain.Address `json:"approved"`
	TokenURI   string         `json:"tokenUri,omitempty"`
	MintedAt   time.Time      `json:"mintedAt"`
}

func toTokenResp(t *custody.Token) tokenResp {
	res := tokenResp{
		Collection: t.Collection,
		TokenId:    t.TokenId,
		Owner:      t.Owner,
		Approved:   t.Approved,
		TokenURI:   t.TokenURI,
		MintedAt:   t.MintedAt,
	}
	if res.Approved.IsEmpty() {
		res.Approved = domain.EmptyAddress
	}
	return res
}

func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)
	collection := domain.Address(c.Param("collection")).ToLower()

	id, err := h.custody.Mint(ctx, caller, collection)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		Collection domain.Address `json:"collection"`
		TokenId    domain.TokenId `json:"tokenId"`
	}{collection, id}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) getToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Collection domain.Address `param:"collection"`
		TokenId    domain.TokenId `param:"tokenId"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	t, err := h.custody.GetToken(ctx, p.Collection, p.TokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toTokenResp(t))
}

func (h *handler) approve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	p := struct {
		Collection domain.Address `param:"collection" json:"-"`
		TokenId    domain.TokenId `param:"tokenId" json:"-"`
		Operator   domain.Address `json:"operator" validate:"required,address"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.custody.Approve(ctx, caller, p.Collection, p.TokenId, p.Operator); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "")
}

func (h *handler) setApprovalForAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	p := struct {
		Collection domain.Address `param:"collection" json:"-"`
		Operator   domain.Address `json:"operator" validate:"required,address"`
		Approved   bool           `json:"approved"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.custody.SetApprovalForAll(ctx, caller, p.Collection, p.Operator, p.Approved); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "")
}
