package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-booking-service/internal/api/dto"
	"github.com/spec-kit/tour-booking-service/internal/auth"
	"github.com/spec-kit/tour-booking-service/internal/domain"
	"github.com/spec-kit/tour-booking-service/internal/service"
	apperrors "github.com/spec-kit/tour-booking-service/pkg/util/errorutil"
)

// ReviewsHandler exposes review ledger endpoints.
type ReviewsHandler struct {
	service *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviewService *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{service: reviewService}
}

// Create POST /reviews.
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TourID <= 0 {
		return apperrors.NewValidationError("tour_id is required", nil)
	}

	review, err := h.service.Create(c.Context(), principal.Caller(), req.TourID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reviewResponse(review)})
}

// ListAll GET /reviews.
func (h *ReviewsHandler) ListAll(c *fiber.Ctx) error {
	reviews, err := h.service.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviewResponses(reviews)})
}

// ListByTour GET /reviews/tour/:tourId.
func (h *ReviewsHandler) ListByTour(c *fiber.Ctx) error {
	tourID, err := parseIDParam(c, "tourId")
	if err != nil {
		return err
	}
	reviews, err := h.service.ListByTour(c.Context(), tourID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviewResponses(reviews)})
}

func reviewResponse(review *domain.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:           review.ID,
		UserID:       review.UserID,
		TourID:       review.TourID,
		Rating:       review.Rating,
		Comment:      review.Comment,
		RegisteredAt: review.RegisteredAt,
	}
}

func reviewResponses(reviews []domain.Review) []dto.ReviewResponse {
	items := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, reviewResponse(&reviews[i]))
	}
	return items
}
