package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicab/booking-api/internal/handler"
	"github.com/medicab/booking-api/internal/middleware"
	"github.com/medicab/booking-api/internal/model"
	profilesvc "github.com/medicab/booking-api/internal/service/profile"
	apperrors "github.com/medicab/booking-api/pkg/errors"
)

type Handler struct {
	service profilesvc.Service
}

func NewHandler(service profilesvc.Service) *Handler {
	return &Handler{service: service}
}

// Get dispatches on the caller's role, so /profile works for both
// patients and doctors. Admins have no profile.
func (h *Handler) Get(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	switch identity.Role {
	case model.RolePatient:
		h.GetPatient(c)
	case model.RoleDoctor:
		h.GetDoctor(c)
	default:
		handler.NewErrorResponse(c, apperrors.NotFound("profile", nil))
	}
}

// Update dispatches a partial profile patch on the caller's role.
func (h *Handler) Update(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	switch identity.Role {
	case model.RolePatient:
		h.UpdatePatient(c)
	case model.RoleDoctor:
		h.UpdateDoctor(c)
	default:
		handler.NewErrorResponse(c, apperrors.NotFound("profile", nil))
	}
}

func (h *Handler) GetPatient(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	profile, err := h.service.GetPatient(c.Request.Context(), identity.UserID)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}
	handler.NewSuccessResponse(c, http.StatusOK, "", profile)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	profile, err := h.service.GetDoctor(c.Request.Context(), identity.UserID)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}
	handler.NewSuccessResponse(c, http.StatusOK, "", profile)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req model.UpdatePatientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.NewValidationErrorResponse(c, err)
		return
	}

	profile, err := h.service.UpdatePatient(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}
	handler.NewSuccessResponse(c, http.StatusOK, "profile updated", profile)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req model.UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.NewValidationErrorResponse(c, err)
		return
	}

	profile, err := h.service.UpdateDoctor(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		handler.NewErrorResponse(c, err)
		return
	}
	handler.NewSuccessResponse(c, http.StatusOK, "profile updated", profile)
}
