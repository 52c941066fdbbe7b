package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lensly/booking-marketplace/internal/config"
	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/repository"
	"github.com/lensly/booking-marketplace/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Profiles *repository.ProfileRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, p *repository.ProfileRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Profiles: p}
}

// ----- DTOs -----

type registerReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	UserType    string `json:"user_type"` // client | cameraman | editor

	// Provider profile, used only when user_type is cameraman or editor.
	HourlyRate   float64  `json:"hourly_rate"`
	Specialties  []string `json:"specialties"`
	Availability string   `json:"availability"`
	Portfolio    []string `json:"portfolio"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User   model.User `json:"user"`
	Access tokenPart  `json:"access"`
}

// Register creates a user and, for provider accounts, their role profile,
// then returns an access token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, repository.NewUser{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		UserType:    strings.ToLower(strings.TrimSpace(req.UserType)),
	}, h.Cfg.BcryptCost)
	if err != nil {
		return writeErr(c, err)
	}

	if model.IsProvider(u.UserType) {
		if _, err := h.Profiles.Create(ctx, u.ID, repository.NewProfile{
			HourlyRate:   req.HourlyRate,
			Specialties:  req.Specialties,
			Availability: req.Availability,
			Portfolio:    req.Portfolio,
		}); err != nil {
			return writeErr(c, err)
		}
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.UserType, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		User:   u,
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Login verifies credentials and returns a fresh access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.UserType, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:   u,
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// UpdateMe merges non-nil fields into the authenticated user's account.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		FullName     *string `json:"full_name"`
		PhoneNumber  *string `json:"phone_number"`
		ProfileImage *string `json:"profile_image"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Update(ctx, uid, repository.UserPatch{
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}
