package api

import (
	"errors"
	"net/http"

	"github.com/dip051030/flightbooking/internal/auth"
	"github.com/dip051030/flightbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Validation
// failures are client errors the caller should re-prompt for; persistence
// failures are server errors the caller may retry.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrLoginRequired),
		errors.Is(err, auth.ErrSessionExpired),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrLegacyAccount):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrAdminRequired):
		return http.StatusForbidden
	}

	var (
		notFound        *domain.NotFoundError
		bookingNotFound *domain.BookingNotFoundError
		validation      *domain.ValidationError
		flightFull      *domain.FlightFullError
		flightDeleted   *domain.FlightDeletedError
		customerDeleted *domain.CustomerDeletedError
		persistence     *domain.PersistenceError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &bookingNotFound):
		return http.StatusNotFound
	case errors.As(err, &flightFull), errors.As(err, &flightDeleted), errors.As(err, &customerDeleted):
		return http.StatusConflict
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &persistence):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
