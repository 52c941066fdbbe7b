package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lensly/booking-marketplace/internal/repository"
)

// ProfileHandler exposes provider discovery and profile self-service.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
}

func NewProfileHandler(p *repository.ProfileRepo) *ProfileHandler {
	return &ProfileHandler{Profiles: p}
}

// ListProviders handles GET /v1/providers/:type where type is cameraman
// or editor. It is public so clients can browse before booking.
func (h *ProfileHandler) ListProviders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Profiles.ListByType(ctx, c.Param("type"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"providers": list, "count": len(list)})
}

// MyProfile handles GET /v1/profiles/me for provider accounts.
func (h *ProfileHandler) MyProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": p})
}

type patchProfileReq struct {
	HourlyRate   *float64 `json:"hourly_rate"`
	Specialties  []string `json:"specialties"`
	Availability *string  `json:"availability"`
	Portfolio    []string `json:"portfolio"`
}

// UpdateMyProfile handles PATCH /v1/profiles/me. Rating and
// total_reviews are owned by the review pipeline and cannot be edited.
func (h *ProfileHandler) UpdateMyProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req patchProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Profiles.Update(ctx, uid, repository.ProfilePatch{
		HourlyRate:   req.HourlyRate,
		Specialties:  req.Specialties,
		Availability: req.Availability,
		Portfolio:    req.Portfolio,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": p})
}
