package handler

import (
	"context"
	"net/http"

	"basket/internal/delivery/api/response"
	"basket/internal/errors"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CartHandler serves the caller's cart.
type CartHandler struct {
	uc usecase.CartUsecase
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type addLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

// Get returns the reconciled cart.
func (h *CartHandler) Get(c echo.Context) error {
	return h.respond(c, http.StatusOK, func(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
		return h.uc.GetCart(ctx, userID)
	})
}

// Validate reports stock and price issues.
func (h *CartHandler) Validate(c echo.Context) error {
	return h.respond(c, http.StatusOK, func(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
		return h.uc.Validate(ctx, userID)
	})
}

func (h *CartHandler) AddLine(c echo.Context) error {
	var req addLineRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	return h.respond(c, http.StatusCreated, func(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
		return h.uc.AddLine(ctx, userID, usecase.AddLineInput{ProductID: req.ProductID, Quantity: req.Quantity})
	})
}

func (h *CartHandler) UpdateLine(c echo.Context) error {
	lineID, err := pathUUID(c, "lineId")
	if err != nil {
		return err
	}

	var req updateLineRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	return h.respond(c, http.StatusOK, func(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
		return h.uc.UpdateLine(ctx, userID, lineID, req.Quantity)
	})
}

func (h *CartHandler) RemoveLine(c echo.Context) error {
	return h.onLine(c, h.uc.RemoveLine)
}

func (h *CartHandler) AcceptPrice(c echo.Context) error {
	return h.onLine(c, h.uc.AcceptPrice)
}

func (h *CartHandler) AcceptStock(c echo.Context) error {
	return h.onLine(c, h.uc.AcceptStock)
}

func (h *CartHandler) AcceptAll(c echo.Context) error {
	return h.onLine(c, h.uc.AcceptAll)
}

func (h *CartHandler) Clear(c echo.Context) error {
	return h.respond(c, http.StatusOK, func(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
		return h.uc.Clear(ctx, userID)
	})
}

func (h *CartHandler) onLine(c echo.Context, op func(ctx context.Context, userID, lineID uuid.UUID) (*usecase.CartView, error)) error {
	lineID, err := pathUUID(c, "lineId")
	if err != nil {
		return err
	}

	return h.respond(c, http.StatusOK, func(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
		return op(ctx, userID, lineID)
	})
}

func (h *CartHandler) respond(c echo.Context, status int, op func(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error)) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	view, err := op(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, status, toCartResponse(view))
}
