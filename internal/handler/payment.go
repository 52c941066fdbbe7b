package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/queue"
	"github.com/lensly/booking-marketplace/internal/repository"
)

// PaymentHandler records payments against bookings and lists payment
// history. Payments are append-only; reconciliation of the booking's
// payment_status and final_price happens inside the repository.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
	Bookings *repository.BookingRepo
}

func NewPaymentHandler(p *repository.PaymentRepo, b *repository.BookingRepo) *PaymentHandler {
	return &PaymentHandler{Payments: p, Bookings: b}
}

type recordPaymentReq struct {
	BookingType    string  `json:"booking_type"` // event | trip | editor
	BookingID      string  `json:"booking_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Method         string  `json:"method"`
	TransactionRef string  `json:"transaction_ref"`
	CardLast4      string  `json:"card_last4"`
	CardBrand      string  `json:"card_brand"`
}

// Record handles POST /v1/payments. Only the booking's client can pay.
// A partial failure (payment stored, booking sync failed) is surfaced
// with its own error body so the client does not blindly retry.
func (h *PaymentHandler) Record(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req recordPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	v := model.Variant(req.BookingType)
	if !model.ValidVariant(v) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown booking_type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cur, err := h.Bookings.Get(ctx, v, req.BookingID)
	if err != nil {
		return writeErr(c, err)
	}
	if cur.ClientID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	p, b, err := h.Payments.Record(ctx, v, req.BookingID, repository.PaymentInput{
		Amount:         req.Amount,
		Currency:       req.Currency,
		Method:         req.Method,
		TransactionRef: req.TransactionRef,
		CardLast4:      req.CardLast4,
		CardBrand:      req.CardBrand,
	})
	if err != nil {
		return writeErr(c, err)
	}

	publishBookingEvent(queue.KindPaymentRecorded, v, b, &p.Amount)
	return c.JSON(http.StatusCreated, echo.Map{"payment": p, "booking": b})
}

// ListByBooking handles GET /v1/bookings/:variant/:id/payments.
func (h *PaymentHandler) ListByBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	v, err := variantParam(c)
	if err != nil {
		return writeErr(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.Get(ctx, v, c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	if b.ClientID != uid && b.ProviderID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	list, err := h.Payments.ListByBooking(ctx, b.ID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": list, "count": len(list)})
}

// ListMine handles GET /v1/payments and returns the authenticated
// client's payment history, newest first.
func (h *PaymentHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Payments.ListByClient(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": list, "count": len(list)})
}
