package handler

import (
	"errors"
	"net/http"

	domainerr "github.com/tzedaka-labs/donation-processor/internal/domain/error"
)

// statusFromError maps a domain error to an HTTP status code
func statusFromError(err error) int {
	switch {
	case domainerr.IsNotFoundError(err):
		return http.StatusNotFound
	case domainerr.IsValidationError(err), errors.Is(err, domainerr.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domainerr.ErrGatewayDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, domainerr.ErrGatewayTransient):
		return http.StatusBadGateway
	case errors.Is(err, domainerr.ErrNoGatewayAvailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainerr.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domainerr.ErrDuplicateDonation),
		errors.Is(err, domainerr.ErrIllegalTransition),
		errors.Is(err, domainerr.ErrConcurrencyConflict),
		errors.Is(err, domainerr.ErrLotteryNotActive),
		errors.Is(err, domainerr.ErrLotterySoldOut),
		errors.Is(err, domainerr.ErrLotteryClosed),
		errors.Is(err, domainerr.ErrNotEligibleForDraw):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
