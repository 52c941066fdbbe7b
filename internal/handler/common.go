package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lensly/booking-marketplace/internal/booking"
	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/repository"
	"github.com/lensly/booking-marketplace/internal/store"
)

// getUserID extracts the authenticated user's id stored in the context by
// the JWT middleware. It returns an error when the claim is missing or not
// a string so handlers can respond with 401.
func getUserID(c echo.Context) (string, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("no user id in context")
	}
	return s, nil
}

// getRole extracts the authenticated user's type from the context.
func getRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// variantParam parses the :variant path segment into a booking variant.
func variantParam(c echo.Context) (model.Variant, error) {
	v := model.Variant(c.Param("variant"))
	if !model.ValidVariant(v) {
		return "", fmt.Errorf("%w: unknown booking variant %q", repository.ErrValidation, v)
	}
	return v, nil
}

// writeErr translates the sentinel error taxonomy into HTTP responses.
// Validation failures map to 400, missing records to 404, duplicates and
// impossible status transitions to 409. A partial failure means a write
// landed but a dependent sync did not; it gets its own 500 body so the
// client knows a retry of the whole request would double-write.
func writeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrReasonRequired):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrPartialFailure):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "partial failure", "detail": err.Error()})
	case errors.Is(err, store.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
