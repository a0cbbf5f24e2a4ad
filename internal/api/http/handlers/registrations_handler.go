package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-booking-service/internal/api/dto"
	"github.com/spec-kit/tour-booking-service/internal/auth"
	"github.com/spec-kit/tour-booking-service/internal/domain"
	"github.com/spec-kit/tour-booking-service/internal/repository"
	"github.com/spec-kit/tour-booking-service/internal/service"
	apperrors "github.com/spec-kit/tour-booking-service/pkg/util/errorutil"
)

// RegistrationsHandler exposes booking lifecycle endpoints.
type RegistrationsHandler struct {
	service *service.RegistrationService
}

// NewRegistrationsHandler constructs handler.
func NewRegistrationsHandler(registrationService *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{service: registrationService}
}

// Create POST /registrations.
func (h *RegistrationsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TourDateID <= 0 {
		return apperrors.NewValidationError("tour_date_id is required", nil)
	}

	reg, err := h.service.Create(c.Context(), principal.Caller(), req.TourDateID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": registrationResponse(reg)})
}

// ListAll GET /registrations.
func (h *RegistrationsHandler) ListAll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	details, err := h.service.ListAll(c.Context(), principal.Caller())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"count": len(details),
		"data":  registrationDetails(details),
	})
}

// ListByTour GET /registrations/tour/:tourId.
func (h *RegistrationsHandler) ListByTour(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tourID, err := parseIDParam(c, "tourId")
	if err != nil {
		return err
	}
	details, err := h.service.ListByTour(c.Context(), principal.Caller(), tourID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"count": len(details),
		"data":  registrationDetails(details),
	})
}

// ListByUser GET /registrations/user/:userId.
func (h *RegistrationsHandler) ListByUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}
	details, err := h.service.ListByUser(c.Context(), principal.Caller(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"count": len(details),
		"data":  registrationDetails(details),
	})
}

// SetStatus PATCH /registrations/status/:id.
func (h *RegistrationsHandler) SetStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateRegistrationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	reg, err := h.service.SetStatus(c.Context(), principal.Caller(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": registrationResponse(reg)})
}

// Reschedule PATCH /registrations/date/:id.
func (h *RegistrationsHandler) Reschedule(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateRegistrationDateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TourDateID <= 0 {
		return apperrors.NewValidationError("tour_date_id is required", nil)
	}

	reg, err := h.service.Reschedule(c.Context(), principal.Caller(), id, req.TourDateID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": registrationResponse(reg)})
}

// Cancel DELETE /registrations/:id.
func (h *RegistrationsHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Cancel(c.Context(), principal.Caller(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "registration cancelled"})
}

func registrationResponse(reg *domain.Registration) dto.RegistrationResponse {
	return dto.RegistrationResponse{
		ID:           reg.ID,
		UserID:       reg.UserID,
		TourDateID:   reg.TourDateID,
		Status:       reg.Status,
		RegisteredAt: reg.RegisteredAt,
	}
}

func registrationDetails(details []domain.RegistrationDetail) []dto.RegistrationDetailResponse {
	items := make([]dto.RegistrationDetailResponse, 0, len(details))
	for _, detail := range details {
		item := dto.RegistrationDetailResponse{
			ID:           detail.ID,
			UserID:       detail.UserID,
			TourDateID:   detail.TourDateID,
			Status:       detail.Status,
			RegisteredAt: detail.RegisteredAt,
			UserName:     detail.UserName,
			UserEmail:    detail.UserEmail,
			TourTitle:    detail.TourTitle,
			TourCategory: detail.TourCategory,
			TourPrice:    detail.TourPrice,
		}
		if detail.Date != nil {
			formatted := detail.Date.Format(repository.DateLayout)
			item.Date = &formatted
		}
		items = append(items, item)
	}
	return items
}
