package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/repository"
)

// ReviewHandler creates reviews for completed bookings and lists a
// provider's reviews.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
}

func NewReviewHandler(r *repository.ReviewRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r}
}

type createReviewReq struct {
	BookingType string `json:"booking_type"` // event | trip | editor
	BookingID   string `json:"booking_id"`
	Rating      int    `json:"rating"` // 1..5
	Text        string `json:"text"`
}

// Create handles POST /v1/reviews. The reviewer is always the
// authenticated user; the repository enforces that the booking is
// completed and belongs to them.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	v := model.Variant(req.BookingType)
	if !model.ValidVariant(v) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown booking_type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rev, err := h.Reviews.Create(ctx, repository.NewReview{
		Variant:    v,
		BookingID:  req.BookingID,
		ReviewerID: uid,
		Rating:     req.Rating,
		Text:       req.Text,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"review": rev})
}

// ListByProvider handles GET /v1/providers/:id/reviews.
func (h *ReviewHandler) ListByProvider(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reviews.ListByProvider(ctx, c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": list, "count": len(list)})
}
