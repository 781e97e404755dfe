package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/holiman/uint256"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/base/validator"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/listing"
	"github.com/x-xyz/marketplace/domain/marketplace"
	mMarketplace "github.com/x-xyz/marketplace/domain/marketplace/mocks"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
	authUsecase "github.com/x-xyz/marketplace/stores/auth/usecase"
)

const (
	collection = domain.Address("0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D")
	alice      = domain.Address("0x71c7656ec7ab88b098defb751b7401b5f6d8976f")
)

type response struct {
	Data   json.RawMessage `json:"data"`
	Status string          `json:"status"`
}

type handlerSuite struct {
	suite.Suite

	e     *echo.Echo
	uc    *mMarketplace.Usecase
	token string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	auth := authUsecase.New("jwt-secret", "login %s")
	tkn, err := auth.SignToken(ctx.Background(), alice)
	s.Require().NoError(err)
	s.token = tkn

	s.uc = &mMarketplace.Usecase{}
	s.e = echo.New()
	s.e.Validator = validator.NewCustomValidator(goValidator.New())
	s.e.Use(middleware.InitMiddleware().AddContext())
	New(s.e, s.uc, authMiddleware.New(auth), middleware.NewHttpCache(nil, time.Minute))
}

func (s *handlerSuite) TearDownTest() {
	s.uc.AssertExpectations(s.T())
}

func (s *handlerSuite) do(method, path, body string, authed bool) (int, response) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authed {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	res := response{}
	if rec.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	}
	return rec.Code, res
}

func (s *handlerSuite) fail(res response) delivery.FailData {
	s.Equal("fail", res.Status)
	fail := delivery.FailData{}
	s.Require().NoError(json.Unmarshal(res.Data, &fail))
	return fail
}

func (s *handlerSuite) id(tokenId domain.TokenId) listing.Id {
	return listing.Id{Collection: collection.ToLower(), TokenId: tokenId}
}

func (s *handlerSuite) TestGetListingIsCached() {
	s.uc.On("GetListing", mock.Anything, s.id("1")).Return(listing.Listing{}, nil).Once()

	path := "/listings/" + string(collection) + "/1"
	for i := 0; i < 2; i++ {
		code, res := s.do(http.MethodGet, path, "", false)
		s.Equal(http.StatusOK, code)

		got := listingResp{}
		s.Require().NoError(json.Unmarshal(res.Data, &got))
		s.False(got.Listed)
		s.Equal(domain.EmptyAddress, got.Seller)
		s.Equal("0", got.Price)
	}
}

func (s *handlerSuite) TestGetListingRejectsBadParams() {
	code, _ := s.do(http.MethodGet, "/listings/not-an-address/1", "", false)
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.do(http.MethodGet, "/listings/"+string(collection)+"/abc", "", false)
	s.Equal(http.StatusBadRequest, code)
}

func (s *handlerSuite) TestListNft() {
	s.uc.On("ListNft", mock.Anything, alice, s.id("7"), *uint256.NewInt(1500000000000000000)).Return(nil).Once()

	code, res := s.do(http.MethodPost, "/listings/"+string(collection)+"/7", `{"price":"1500000000000000000"}`, true)
	s.Equal(http.StatusCreated, code)

	got := listingResp{}
	s.Require().NoError(json.Unmarshal(res.Data, &got))
	s.True(got.Listed)
	s.Equal(alice, got.Seller)
	s.Equal("1.5", got.DisplayPrice)
}

func (s *handlerSuite) TestWritesTargetPathListing() {
	var got []listing.Id
	record := func(args mock.Arguments) {
		got = append(got, args.Get(2).(listing.Id))
	}
	s.uc.On("ListNft", mock.Anything, alice, mock.Anything, mock.Anything).Run(record).Return(nil).Once()
	s.uc.On("UpdateListing", mock.Anything, alice, mock.Anything, mock.Anything).Run(record).Return(nil).Once()
	s.uc.On("BuyNft", mock.Anything, alice, mock.Anything, mock.Anything).Run(record).Return(nil).Once()

	path := "/listings/" + string(collection) + "/42"
	code, _ := s.do(http.MethodPost, path, `{"price":"5"}`, true)
	s.Equal(http.StatusCreated, code)
	code, _ = s.do(http.MethodPut, path, `{"price":"6"}`, true)
	s.Equal(http.StatusOK, code)
	code, _ = s.do(http.MethodPost, path+"/buy", `{"value":"6"}`, true)
	s.Equal(http.StatusOK, code)

	s.Equal([]listing.Id{s.id("42"), s.id("42"), s.id("42")}, got)
}

func (s *handlerSuite) TestListNftRequiresAuth() {
	code, _ := s.do(http.MethodPost, "/listings/"+string(collection)+"/7", `{"price":"1"}`, false)
	s.Equal(http.StatusBadRequest, code)

	req := httptest.NewRequest(http.MethodPost, "/listings/"+string(collection)+"/7", strings.NewReader(`{"price":"1"}`))
	req.Header.Set(echo.HeaderAuthorization, "Bearer forged")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *handlerSuite) TestListNftBadPrice() {
	for _, body := range []string{`{"price":"abc"}`, `{"price":"-1"}`, `{}`} {
		code, res := s.do(http.MethodPost, "/listings/"+string(collection)+"/7", body, true)
		s.Equal(http.StatusBadRequest, code, body)
		s.Equal("BadParamInput", s.fail(res).Kind)
	}
}

func (s *handlerSuite) TestListNftRejected() {
	s.uc.On("ListNft", mock.Anything, alice, s.id("7"), *uint256.NewInt(1)).
		Return(marketplace.NotOwner(alice, "0x0000000000000000000000000000000000000bad")).Once()

	code, res := s.do(http.MethodPost, "/listings/"+string(collection)+"/7", `{"price":"1"}`, true)
	s.Equal(http.StatusForbidden, code)
	fail := s.fail(res)
	s.Equal("NotOwner", fail.Kind)
	s.Equal("0x0000000000000000000000000000000000000bad", fail.Details["owner"])
}

func (s *handlerSuite) TestUpdateAndCancel() {
	s.uc.On("UpdateListing", mock.Anything, alice, s.id("7"), *uint256.NewInt(9)).Return(nil).Once()
	s.uc.On("CancelListing", mock.Anything, alice, s.id("7")).Return(marketplace.NotListed(collection.ToLower(), "7")).Once()

	code, _ := s.do(http.MethodPut, "/listings/"+string(collection)+"/7", `{"price":"9"}`, true)
	s.Equal(http.StatusOK, code)

	code, res := s.do(http.MethodDelete, "/listings/"+string(collection)+"/7", "", true)
	s.Equal(http.StatusNotFound, code)
	s.Equal("NotListed", s.fail(res).Kind)
}

func (s *handlerSuite) TestBuyNft() {
	s.uc.On("BuyNft", mock.Anything, alice, s.id("3"), *uint256.NewInt(4)).
		Return(marketplace.InvalidPaymentAmount(*uint256.NewInt(5), *uint256.NewInt(4))).Once()
	s.uc.On("BuyNft", mock.Anything, alice, s.id("3"), *uint256.NewInt(5)).Return(nil).Once()

	code, res := s.do(http.MethodPost, "/listings/"+string(collection)+"/3/buy", `{"value":"4"}`, true)
	s.Equal(http.StatusBadRequest, code)
	fail := s.fail(res)
	s.Equal("InvalidPaymentAmount", fail.Kind)
	s.Equal(map[string]string{"expected": "5", "actual": "4"}, fail.Details)

	code, _ = s.do(http.MethodPost, "/listings/"+string(collection)+"/3/buy", `{"value":"5"}`, true)
	s.Equal(http.StatusOK, code)
}

func (s *handlerSuite) TestProceeds() {
	bal, err := uint256.FromDecimal("1500000000000000000")
	s.Require().NoError(err)
	s.uc.On("GetProceeds", mock.Anything, alice).Return(*bal, nil).Once()
	s.uc.On("WithdrawProceeds", mock.Anything, alice).Return(*bal, nil).Once()

	code, res := s.do(http.MethodGet, "/proceeds/"+string(alice), "", false)
	s.Equal(http.StatusOK, code)
	got := amountResp{}
	s.Require().NoError(json.Unmarshal(res.Data, &got))
	s.Equal("1500000000000000000", got.Amount)
	s.Equal("1.5", got.DisplayAmount)

	code, res = s.do(http.MethodPost, "/proceeds/withdraw", "", true)
	s.Equal(http.StatusOK, code)
	s.Require().NoError(json.Unmarshal(res.Data, &got))
	s.Equal(alice, got.Account)
	s.Equal("1500000000000000000", got.Amount)
}

func (s *handlerSuite) TestWithdrawNothing() {
	s.uc.On("WithdrawProceeds", mock.Anything, alice).Return(uint256.Int{}, marketplace.NoProceeds(alice)).Once()

	code, res := s.do(http.MethodPost, "/proceeds/withdraw", "", true)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("NoProceeds", s.fail(res).Kind)
}

func (s *handlerSuite) TestFindEvents() {
	s.uc.On("FindEvents", mock.Anything, mock.Anything, mock.Anything).Return([]marketplace.Event{
		{Id: "e1", Type: marketplace.EventNftBought, Collection: collection.ToLower(), TokenId: "3", Price: *uint256.NewInt(5)},
		{Id: "e2", Type: marketplace.EventProceedsWithdrawn, Caller: alice, Amount: *uint256.NewInt(5)},
	}, nil).Once()

	code, res := s.do(http.MethodGet, "/events?type=NftBought", "", false)
	s.Equal(http.StatusOK, code)

	got := []eventResp{}
	s.Require().NoError(json.Unmarshal(res.Data, &got))
	s.Require().Len(got, 2)
	s.Equal("5", got[0].Price)
	s.Empty(got[0].Amount)
	s.Equal("5", got[1].Amount)
	s.Empty(got[1].Price)
}

func (s *handlerSuite) TestFindListings() {
	s.uc.On("FindListings", mock.Anything, mock.Anything, mock.Anything).Return([]listing.Entry{
		{Id: s.id("1"), Listing: listing.Listing{Seller: alice, Price: *uint256.NewInt(2)}},
	}, nil).Once()

	code, res := s.do(http.MethodGet, "/listings?seller="+string(alice), "", false)
	s.Equal(http.StatusOK, code)

	got := []listingResp{}
	s.Require().NoError(json.Unmarshal(res.Data, &got))
	s.Require().Len(got, 1)
	s.True(got[0].Listed)
	s.Equal("2", got[0].Price)
}
