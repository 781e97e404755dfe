package delivery

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/holiman/uint256"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/custody"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/domain/proceeds"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// FailData is the data of a fail envelope built from an error
type FailData struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

var statusByKind = map[marketplace.ErrorKind]int{
	marketplace.KindNotOwner:             http.StatusForbidden,
	marketplace.KindUnauthorizedCancel:   http.StatusForbidden,
	marketplace.KindUnauthorizedUpdate:   http.StatusForbidden,
	marketplace.KindNotListed:            http.StatusNotFound,
	marketplace.KindAlreadyListed:        http.StatusConflict,
	marketplace.KindTransferFailed:       http.StatusConflict,
	marketplace.KindNotApproved:          http.StatusPreconditionFailed,
	marketplace.KindInvalidPrice:         http.StatusBadRequest,
	marketplace.KindInvalidPaymentAmount: http.StatusBadRequest,
	marketplace.KindNoProceeds:           http.StatusBadRequest,
}

var statusByErr = []struct {
	err    error
	kind   string
	status int
}{
	{domain.ErrNotFound, "NotFound", http.StatusNotFound},
	{custody.ErrUnknownCollection, "UnknownCollection", http.StatusNotFound},
	{custody.ErrTokenNotFound, "TokenNotFound", http.StatusNotFound},
	{custody.ErrNotAuthorized, "NotAuthorized", http.StatusForbidden},
	{custody.ErrWrongOwner, "WrongOwner", http.StatusForbidden},
	{custody.ErrInvalidReceiver, "InvalidReceiver", http.StatusBadRequest},
	{custody.ErrApproveToOwner, "ApproveToOwner", http.StatusBadRequest},
	{custody.ErrApproveToCaller, "ApproveToCaller", http.StatusBadRequest},
	{domain.ErrBadParamInput, "BadParamInput", http.StatusBadRequest},
	{domain.ErrInvalidAddress, "InvalidAddress", http.StatusBadRequest},
	{domain.ErrInvalidNumberFormat, "InvalidNumberFormat", http.StatusBadRequest},
	{domain.ErrInvalidSignature, "InvalidSignature", http.StatusUnauthorized},
	{domain.ErrUnauthorized, "Unauthorized", http.StatusUnauthorized},
	{domain.ErrConflict, "Conflict", http.StatusConflict},
	{proceeds.ErrInsufficientBalance, "InsufficientBalance", http.StatusConflict},
}

// ErrorStatus maps err to its http status and fail envelope
func ErrorStatus(err error) (int, FailData) {
	var mErr *marketplace.Error
	if errors.As(err, &mErr) {
		status, ok := statusByKind[mErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		return status, FailData{Kind: string(mErr.Kind), Message: err.Error(), Details: mErr.Details()}
	}
	var hErr *echo.HTTPError
	if errors.As(err, &hErr) {
		return hErr.Code, FailData{Kind: http.StatusText(hErr.Code), Message: err.Error()}
	}
	var vErr validator.ValidationErrors
	if errors.As(err, &vErr) {
		details := map[string]string{}
		for _, fe := range vErr {
			details[fe.Field()] = fe.Tag()
		}
		return http.StatusBadRequest, FailData{Kind: "BadParamInput", Message: err.Error(), Details: details}
	}
	for _, s := range statusByErr {
		if errors.Is(err, s.err) {
			return s.status, FailData{Kind: s.kind, Message: err.Error()}
		}
	}
	return http.StatusInternalServerError, FailData{Kind: "Internal", Message: err.Error()}
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		var fail FailData
		status, fail = ErrorStatus(err)
		data = fail
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}

// DisplayPrice formats a wei amount in ether
func DisplayPrice(wei uint256.Int) string {
	return decimal.NewFromBigInt(wei.ToBig(), -18).String()
}
