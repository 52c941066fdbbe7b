package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/queue"
	"github.com/lensly/booking-marketplace/internal/repository"
	queue_publisher "github.com/lensly/booking-marketplace/internal/service"
)

// BookingHandler serves the /v1/bookings/:variant endpoints for all three
// booking variants. Methods assume JWT authentication has already run;
// the client id for creates always comes from the token, never the body.
type BookingHandler struct {
	Bookings *repository.BookingRepo
}

func NewBookingHandler(b *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

type createBookingReq struct {
	ProviderID     string   `json:"provider_id"`
	EstimatedPrice *float64 `json:"estimated_price"`
	Requirements   string   `json:"requirements"`

	// event
	EventType   string `json:"event_type"`
	ServiceType string `json:"service_type"`
	EventDate   string `json:"event_date"`
	EventTime   string `json:"event_time"`
	Location    string `json:"location"`

	// trip
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Travelers   int    `json:"travelers"`

	// editor
	ProjectType string `json:"project_type"`
	FootageLink string `json:"footage_link"`
	Deadline    string `json:"deadline"`
}

type patchBookingReq struct {
	Status          *string  `json:"status"`
	RejectionReason *string  `json:"rejection_reason"`
	EstimatedPrice  *float64 `json:"estimated_price"`
	Requirements    *string  `json:"requirements"`
	ProviderID      *string  `json:"provider_id"`

	// event
	EventType   *string `json:"event_type"`
	ServiceType *string `json:"service_type"`
	EventDate   *string `json:"event_date"`
	EventTime   *string `json:"event_time"`
	Location    *string `json:"location"`

	// trip
	Destination *string `json:"destination"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Travelers   *int    `json:"travelers"`

	// editor
	ProjectType *string `json:"project_type"`
	FootageLink *string `json:"footage_link"`
	Deadline    *string `json:"deadline"`
}

// Create handles POST /v1/bookings/:variant. Only clients open bookings;
// the new booking always starts as pending/pending.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	v, err := variantParam(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.Create(ctx, v, repository.NewBooking{
		ClientID:       uid,
		ProviderID:     req.ProviderID,
		EstimatedPrice: req.EstimatedPrice,
		Requirements:   req.Requirements,
		EventType:      req.EventType,
		ServiceType:    req.ServiceType,
		EventDate:      req.EventDate,
		EventTime:      req.EventTime,
		Location:       req.Location,
		Destination:    req.Destination,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Travelers:      req.Travelers,
		ProjectType:    req.ProjectType,
		FootageLink:    req.FootageLink,
		Deadline:       req.Deadline,
	})
	if err != nil {
		return writeErr(c, err)
	}

	publishBookingEvent(queue.KindBookingCreated, v, b, nil)
	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// List handles GET /v1/bookings/:variant. Clients see their own bookings
// and providers the ones assigned to them; an optional ?status= query
// narrows the result further.
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	v, err := variantParam(c)
	if err != nil {
		return writeErr(c, err)
	}

	f := repository.BookingFilter{Status: c.QueryParam("status")}
	if getRole(c) == model.UserTypeClient {
		f.ClientID = uid
	} else {
		f.ProviderID = uid
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.List(ctx, v, f)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list, "count": len(list)})
}

// Get handles GET /v1/bookings/:variant/:id. Only the booking's client or
// assigned provider may read it.
func (h *BookingHandler) Get(c echo.Context) error {
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
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Update handles PATCH /v1/bookings/:variant/:id. Status changes go
// through the lifecycle rules; detail edits merge field by field. A
// booking can only be touched by its client or assigned provider.
func (h *BookingHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	v, err := variantParam(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req patchBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id := c.Param("id")
	cur, err := h.Bookings.Get(ctx, v, id)
	if err != nil {
		return writeErr(c, err)
	}
	if cur.ClientID != uid && cur.ProviderID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	b, err := h.Bookings.Update(ctx, v, id, repository.BookingPatch{
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
		EstimatedPrice:  req.EstimatedPrice,
		Requirements:    req.Requirements,
		ProviderID:      req.ProviderID,
		EventType:       req.EventType,
		ServiceType:     req.ServiceType,
		EventDate:       req.EventDate,
		EventTime:       req.EventTime,
		Location:        req.Location,
		Destination:     req.Destination,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Travelers:       req.Travelers,
		ProjectType:     req.ProjectType,
		FootageLink:     req.FootageLink,
		Deadline:        req.Deadline,
	})
	if err != nil {
		return writeErr(c, err)
	}

	if req.Status != nil && b.Status != cur.Status {
		publishBookingEvent(queue.KindStatusChanged, v, b, nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// publishBookingEvent emits a broker event in the background. Publish
// failures are logged by the publisher and never fail the request.
func publishBookingEvent(kind string, v model.Variant, b model.Booking, amount *float64) {
	ev := queue.BookingEvent{
		Kind:          kind,
		BookingID:     b.ID,
		BookingType:   string(v),
		ClientID:      b.ClientID,
		ProviderID:    b.ProviderID,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		Amount:        amount,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingEvent(ctx, ev)
	}()
}
