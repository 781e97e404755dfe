package http

import (
	"net/http"
	"time"

	"github.com/holiman/uint256"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/base/validator"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/listing"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
)

const defaultLimit = 100

type handler struct {
	marketplace marketplace.Usecase
}

func New(e *echo.Echo, uc marketplace.Usecase, authMiddleware *authMiddleware.AuthMiddleware, cache *middleware.HttpCache) {
	h := &handler{marketplace: uc}

	e.GET("/listings", h.findListings)

	g := e.Group("/listings/:collection/:tokenId", middleware.IsValidAddress("collection"), isValidTokenId("tokenId"))

	g.GET("", h.getListing, cache.CacheHttp())

	g.POST("", h.listNft, authMiddleware.Auth())

	g.PUT("", h.updateListing, authMiddleware.Auth())

	g.DELETE("", h.cancelListing, authMiddleware.Auth())

	g.POST("/buy", h.buyNft, authMiddleware.Auth())

	e.POST("/proceeds/withdraw", h.withdrawProceeds, authMiddleware.Auth())

	e.GET("/proceeds/:account", h.getProceeds, middleware.IsValidAddress("account"))

	e.GET("/events", h.findEvents)
}

func isValidTokenId(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !validator.IsValidWei(c.Param(param)) {
				return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
			}
			return next(c)
		}
	}
}

type listingParams struct {
	Collection domain.Address `param:"collection" json:"-"`
	TokenId    domain.TokenId `param:"tokenId" json:"-"`
}

func (p listingParams) id() listing.Id {
	return toId(p.Collection, p.TokenId)
}

func toId(collection domain.Address, tokenId domain.TokenId) listing.Id {
	return listing.Id{Collection: collection.ToLower(), TokenId: tokenId}
}

type listingResp struct {
	Collection   domain.Address `json:"collection"`
	TokenId      domain.TokenId `json:"tokenId"`
	Listed       bool           `json:"listed"`
	Seller       domain.Address `json:"seller"`
	Price        string         `json:"price"`
	DisplayPrice string         `json:"displayPrice"`
	ListedAt     *time.Time     `json:"listedAt,omitempty"`
}

func toListingResp(id listing.Id, l listing.Listing) listingResp {
	res := listingResp{
		Collection:   id.Collection,
		TokenId:      id.TokenId,
		Listed:       !l.IsZero(),
		Seller:       l.Seller,
		Price:        l.Price.Dec(),
		DisplayPrice: delivery.DisplayPrice(l.Price),
	}
	if !res.Listed {
		res.Seller = domain.EmptyAddress
	}
	if !l.ListedAt.IsZero() {
		at := l.ListedAt
		res.ListedAt = &at
	}
	return res
}

type amountResp struct {
	Account       domain.Address `json:"account"`
	Amount        string         `json:"amount"`
	DisplayAmount string         `json:"displayAmount"`
}

func toAmountResp(account domain.Address, amount uint256.Int) amountResp {
	return amountResp{
		Account:       account.ToLower(),
		Amount:        amount.Dec(),
		DisplayAmount: delivery.DisplayPrice(amount),
	}
}

type eventResp struct {
	Id           string                `json:"id"`
	Type         marketplace.EventType `json:"type"`
	Collection   domain.Address        `json:"collection,omitempty"`
	TokenId      domain.TokenId        `json:"tokenId,omitempty"`
	Seller       domain.Address        `json:"seller,omitempty"`
	Buyer        domain.Address        `json:"buyer,omitempty"`
	Caller       domain.Address        `json:"caller,omitempty"`
	Price        string                `json:"price,omitempty"`
	Amount       string                `json:"amount,omitempty"`
	DisplayPrice string                `json:"displayPrice,omitempty"`
	Time         time.Time             `json:"time"`
}

func toEventResp(evt marketplace.Event) eventResp {
	res := eventResp{
		Id:         evt.Id,
		Type:       evt.Type,
		Collection: evt.Collection,
		TokenId:    evt.TokenId,
		Seller:     evt.Seller,
		Buyer:      evt.Buyer,
		Caller:     evt.Caller,
		Time:       evt.Time,
	}
	switch evt.Type {
	case marketplace.EventProceedsWithdrawn:
		res.Amount = evt.Amount.Dec()
		res.DisplayPrice = delivery.DisplayPrice(evt.Amount)
	default:
		res.Price = evt.Price.Dec()
		res.DisplayPrice = delivery.DisplayPrice(evt.Price)
	}
	return res
}

func parseWei(s string) (uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return uint256.Int{}, domain.ErrInvalidNumberFormat
	}
	return *v, nil
}

func (h *handler) findListings(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Seller     domain.Address `query:"seller"`
		Collection domain.Address `query:"collection"`
		Offset     int32          `query:"offset"`
		Limit      int32          `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	opts := []listing.FindAllOptionsFunc{listing.WithPagination(p.Offset, p.Limit)}
	if p.Seller != "" {
		opts = append(opts, listing.WithSeller(p.Seller))
	}
	if p.Collection != "" {
		opts = append(opts, listing.WithCollection(p.Collection))
	}

	entries, err := h.marketplace.FindListings(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := make([]listingResp, 0, len(entries))
	for _, e := range entries {
		res = append(res, toListingResp(e.Id, e.Listing))
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := listingParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	l, err := h.marketplace.GetListing(ctx, p.id())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toListingResp(p.id(), l))
}

type priceParams struct {
	Collection domain.Address `param:"collection" json:"-"`
	TokenId    domain.TokenId `param:"tokenId" json:"-"`
	Price      string         `json:"price" validate:"required,wei"`
}

func (p priceParams) id() listing.Id {
	return toId(p.Collection, p.TokenId)
}

func (h *handler) bindPrice(c echo.Context) (priceParams, uint256.Int, error) {
	p := priceParams{}
	if err := c.Bind(&p); err != nil {
		return p, uint256.Int{}, err
	}
	if err := c.Validate(&p); err != nil {
		return p, uint256.Int{}, err
	}
	price, err := parseWei(p.Price)
	return p, price, err
}

func (h *handler) listNft(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	p, price, err := h.bindPrice(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.ListNft(ctx, caller, p.id(), price); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, toListingResp(p.id(), listing.Listing{Seller: caller.ToLower(), Price: price}))
}

func (h *handler) updateListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	p, price, err := h.bindPrice(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.UpdateListing(ctx, caller, p.id(), price); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toListingResp(p.id(), listing.Listing{Seller: caller.ToLower(), Price: price}))
}

func (h *handler) cancelListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	p := listingParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.CancelListing(ctx, caller, p.id()); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "")
}

func (h *handler) buyNft(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	p := struct {
		Collection domain.Address `param:"collection" json:"-"`
		TokenId    domain.TokenId `param:"tokenId" json:"-"`
		// Value is the wei attached to the purchase
		Value string `json:"value" validate:"required,wei"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	paid, err := parseWei(p.Value)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.BuyNft(ctx, caller, toId(p.Collection, p.TokenId), paid); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "")
}

func (h *handler) getProceeds(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	account := domain.Address(c.Param("account"))

	bal, err := h.marketplace.GetProceeds(ctx, account)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toAmountResp(account, bal))
}

func (h *handler) withdrawProceeds(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	amount, err := h.marketplace.WithdrawProceeds(ctx, caller)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toAmountResp(caller, amount))
}

func (h *handler) findEvents(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Collection domain.Address        `query:"collection"`
		TokenId    domain.TokenId        `query:"tokenId"`
		Type       marketplace.EventType `query:"type"`
		Account    domain.Address        `query:"account"`
		Offset     int32                 `query:"offset"`
		Limit      int32                 `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	opts := []marketplace.EventFindAllOptionsFunc{marketplace.WithEventPagination(p.Offset, p.Limit)}
	if p.Collection != "" {
		opts = append(opts, marketplace.WithEventCollection(p.Collection))
	}
	if p.TokenId != "" {
		opts = append(opts, marketplace.WithEventTokenId(p.TokenId))
	}
	if p.Type != "" {
		opts = append(opts, marketplace.WithEventType(p.Type))
	}
	if p.Account != "" {
		opts = append(opts, marketplace.WithEventAccount(p.Account))
	}

	evts, err := h.marketplace.FindEvents(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := make([]eventResp, 0, len(evts))
	for _, evt := range evts {
		res = append(res, toEventResp(evt))
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
