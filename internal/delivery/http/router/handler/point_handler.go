package handler

import (
	"log/slog"
	"net/http"

	"ptbook/internal/delivery/http/middleware"
	"ptbook/internal/delivery/http/response"
	"ptbook/internal/domain/entity"
	"ptbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PointHandler holds dependencies for catalog and point ledger handlers.
type PointHandler struct {
	uc     usecase.PointUsecase
	logger *slog.Logger
}

// NewPointHandler is the constructor for PointHandler, injected by Fx.
func NewPointHandler(uc usecase.PointUsecase, logger *slog.Logger) *PointHandler {
	return &PointHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListProducts returns the purchasable catalog for the caller.
func (h *PointHandler) ListProducts(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	products, err := h.uc.ListProducts(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "Products retrieved successfully")
}

type createProductRequest struct {
	Name            string `json:"name" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"required"`
	Points          int    `json:"points" validate:"required,min=1"`
	Price           int    `json:"price" validate:"min=0"`
	TrainerType     string `json:"trainerType" validate:"required,oneof=standard head"`
}

// CreateProduct adds a product to the catalog. Admin only.
func (h *PointHandler) CreateProduct(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), actor, &entity.Product{
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Points:          req.Points,
		Price:           req.Price,
		TrainerType:     entity.TrainerType(req.TrainerType),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

type purchaseRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	MemberID  string `json:"memberId" validate:"omitempty,uuid"`
}

// Purchase buys a course package, creating a new point batch. Members buy
// for themselves; admins may pass memberId for front-desk sales.
func (h *PointHandler) Purchase(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid purchase input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	memberID := uuid.Nil
	if req.MemberID != "" {
		memberID, err = uuid.Parse(req.MemberID)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid member ID")
		}
	}

	batch, err := h.uc.Purchase(c.Request().Context(), &usecase.PurchaseInput{
		Actor:     actor,
		MemberID:  memberID,
		ProductID: productID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, batch, "Purchase completed successfully")
}

// GetBalance returns the member's active point position. Staff pass
// member_id as a query parameter; members always see their own.
func (h *PointHandler) GetBalance(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	memberID := uuid.Nil
	if rawID := c.QueryParam("member_id"); rawID != "" {
		parsed, err := uuid.Parse(rawID)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid member ID")
		}
		memberID = parsed
	}

	output, err := h.uc.GetBalance(c.Request().Context(), actor, memberID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Balance retrieved successfully")
}
