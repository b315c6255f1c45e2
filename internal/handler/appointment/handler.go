package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicab/booking-api/internal/handler"
	"github.com/medicab/booking-api/internal/middleware"
	"github.com/medicab/booking-api/internal/model"
	apptsvc "github.com/medicab/booking-api/internal/service/appointment"
	apperrors "github.com/medicab/booking-api/pkg/errors"
)

type Handler struct {
	service apptsvc.Service
}

func NewHandler(service apptsvc.Service) *Handler {
	return &Handler{service: service}
}

// CreateSlot publishes an open booking slot for the calling doctor.
func (h *Handler) CreateSlot(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req model.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.NewValidationErrorResponse(c, err)
		return
	}

	appt, err := h.service.CreateSlot(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}
	handler.NewSuccessResponse(c, http.StatusCreated, "slot created", appt)
}

// List returns the caller's appointments, scoped by role.
func (h *Handler) List(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	appts, err := h.service.ListForUser(c.Request.Context(), identity.UserID, identity.Role)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}
	handler.NewSuccessResponse(c, http.StatusOK, "", appts)
}

// ListOpen returns unreserved slots, oldest first.
func (h *Handler) ListOpen(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	appts, err := h.service.ListOpen(c.Request.Context(), identity.Role)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}
	handler.NewSuccessResponse(c, http.StatusOK, "", appts)
}

// Reserve claims an open slot for the calling patient.
func (h *Handler) Reserve(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.NewErrorResponse(c, apperrors.BadRequest("invalid appointment id", err))
		return
	}

	appt, err := h.service.Reserve(c.Request.Context(), identity.UserID, id)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}
	handler.NewSuccessResponse(c, http.StatusOK, "slot reserved", appt)
}

// UpdateStatus moves one of the caller's appointments through its
// lifecycle.
func (h *Handler) UpdateStatus(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.NewErrorResponse(c, apperrors.BadRequest("invalid appointment id", err))
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.NewValidationErrorResponse(c, err)
		return
	}

	appt, err := h.service.UpdateStatus(c.Request.Context(), identity.UserID, id, req.Status)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}
	handler.NewSuccessResponse(c, http.StatusOK, "status updated", appt)
}
