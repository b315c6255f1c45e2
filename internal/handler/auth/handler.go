package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicab/booking-api/internal/handler"
	"github.com/medicab/booking-api/internal/middleware"
	"github.com/medicab/booking-api/internal/model"
	authsvc "github.com/medicab/booking-api/internal/service/auth"
)

type Handler struct {
	service authsvc.Service
}

func NewHandler(service authsvc.Service) *Handler {
	return &Handler{service: service}
}

// Register creates an account with its role profile and returns a token
// pair alongside the user summary.
func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.NewValidationErrorResponse(c, err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}

	handler.NewSuccessResponse(c, http.StatusCreated, "user registered", resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.NewValidationErrorResponse(c, err)
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}

	handler.NewSuccessResponse(c, http.StatusOK, "login successful", tokens)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.NewValidationErrorResponse(c, err)
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}

	handler.NewSuccessResponse(c, http.StatusOK, "token refreshed", tokens)
}

// Me returns the authenticated caller's summary.
func (h *Handler) Me(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	user, err := h.service.GetUser(c.Request.Context(), identity.UserID)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}

	handler.NewSuccessResponse(c, http.StatusOK, "", user.Summary())
}
