package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-booking-service/internal/api/dto"
	"github.com/spec-kit/tour-booking-service/internal/auth"
	"github.com/spec-kit/tour-booking-service/internal/domain"
	"github.com/spec-kit/tour-booking-service/internal/repository"
	"github.com/spec-kit/tour-booking-service/internal/service"
	apperrors "github.com/spec-kit/tour-booking-service/pkg/util/errorutil"
)

// ToursHandler exposes catalog endpoints.
type ToursHandler struct {
	service *service.TourService
}

// NewToursHandler constructs handler.
func NewToursHandler(tourService *service.TourService) *ToursHandler {
	return &ToursHandler{service: tourService}
}

// Create POST /tours.
func (h *ToursHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTourRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TourCreateInput{
		Title:           req.Title,
		ImageURL:        req.ImageURL,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Category:        req.Category,
		Dates:           req.Dates,
	}
	tour, err := h.service.Create(c.Context(), principal.Caller(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": tourResponse(tour)})
}

// Search GET /tours?name=&date=.
func (h *ToursHandler) Search(c *fiber.Ctx) error {
	tours, err := h.service.Search(c.Context(), c.Query("name"), c.Query("date"))
	if err != nil {
		return err
	}
	items := make([]dto.TourResponse, 0, len(tours))
	for i := range tours {
		items = append(items, tourResponse(&tours[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// List GET /tours/all.
func (h *ToursHandler) List(c *fiber.Ctx) error {
	tours, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.TourSummaryResponse, 0, len(tours))
	for _, summary := range tours {
		items = append(items, dto.TourSummaryResponse{
			ID:              summary.ID,
			Title:           summary.Title,
			ImageURL:        summary.ImageURL,
			DurationMinutes: summary.DurationMinutes,
			Price:           summary.Price,
			Category:        summary.Category,
			AverageRating:   summary.AverageRating,
			ReviewCount:     summary.ReviewCount,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tours/:id.
func (h *ToursHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	tour, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tourResponse(tour)})
}

// Update PATCH /tours/:id.
func (h *ToursHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTourRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TourUpdateInput{
		Title:           req.Title,
		ImageURL:        req.ImageURL,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Category:        req.Category,
		Dates:           req.Dates,
	}
	tour, err := h.service.Update(c.Context(), principal.Caller(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tourResponse(tour)})
}

// Delete DELETE /tours/:id.
func (h *ToursHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	tour, err := h.service.Delete(c.Context(), principal.Caller(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "tour deleted",
		"data":    tourResponse(tour),
	})
}

func tourResponse(tour *domain.Tour) dto.TourResponse {
	dates := make([]dto.TourDateResponse, 0, len(tour.Dates))
	for _, td := range tour.Dates {
		dates = append(dates, dto.TourDateResponse{
			ID:   td.ID,
			Date: td.Date.Format(repository.DateLayout),
		})
	}
	return dto.TourResponse{
		ID:              tour.ID,
		Title:           tour.Title,
		ImageURL:        tour.ImageURL,
		DurationMinutes: tour.DurationMinutes,
		Price:           tour.Price,
		Category:        tour.Category,
		Dates:           dates,
		CreatedAt:       tour.CreatedAt,
		UpdatedAt:       tour.UpdatedAt,
	}
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(name+" must be a positive integer", map[string]any{name: raw})
	}
	return id, nil
}
