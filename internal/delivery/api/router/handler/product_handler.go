package handler

import (
	"net/http"
	"time"

	"basket/internal/delivery/api/response"
	"basket/internal/domain/service"
	"basket/internal/errors"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ProductHandler serves the public catalog and the admin product back-office.
type ProductHandler struct {
	uc    usecase.ProductUsecase
	clock service.Clock
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.ProductUsecase, clock service.Clock) *ProductHandler {
	return &ProductHandler{uc: uc, clock: clock}
}

type listProductsQuery struct {
	pageQuery
	CategoryID string `query:"category_id"`
	Search     string `query:"q" validate:"max=100"`
}

type discountRequest struct {
	Kind      string     `json:"kind" validate:"omitempty,oneof=percentage fixed"`
	Value     float64    `json:"value"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type productRequest struct {
	Name                string           `json:"name" validate:"required,max=200"`
	Description         string           `json:"description"`
	CategoryID          *uuid.UUID       `json:"category_id"`
	Unit                string           `json:"unit"`
	Brand               string           `json:"brand"`
	BasePrice           decimal.Decimal  `json:"base_price"`
	Stock               int              `json:"stock" validate:"gte=0"`
	IsAvailable         bool             `json:"is_available"`
	IsPromotionEligible bool             `json:"is_promotion_eligible"`
	Discount            *discountRequest `json:"discount"`
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (r productRequest) toInput() usecase.ProductInput {
	input := usecase.ProductInput{
		Name:                r.Name,
		Description:         r.Description,
		CategoryID:          r.CategoryID,
		Unit:                r.Unit,
		Brand:               r.Brand,
		BasePrice:           r.BasePrice,
		Stock:               r.Stock,
		IsAvailable:         r.IsAvailable,
		IsPromotionEligible: r.IsPromotionEligible,
	}
	if r.Discount != nil {
		input.Discount = &usecase.DiscountInput{Kind: r.Discount.Kind, Value: r.Discount.Value, ExpiresAt: r.Discount.ExpiresAt}
	}

	return input
}

// List lists products that are for sale.
func (h *ProductHandler) List(c echo.Context) error {
	var q listProductsQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	categoryID, err := optionalUUID(q.CategoryID, "category_id")
	if err != nil {
		return err
	}

	views, err := h.uc.ListAvailable(c.Request().Context(), usecase.ListProductsInput{
		CategoryID: categoryID,
		Search:     q.Search,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(views, toProductResponse))
}

// Get returns one product with its live price.
func (h *ProductHandler) Get(c echo.Context) error {
	productID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	view, err := h.uc.Get(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductResponse(*view))
}

// AdminList lists every product including those not for sale.
func (h *ProductHandler) AdminList(c echo.Context) error {
	var q listProductsQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	categoryID, err := optionalUUID(q.CategoryID, "category_id")
	if err != nil {
		return err
	}

	views, err := h.uc.List(c.Request().Context(), usecase.ListProductsInput{
		CategoryID: categoryID,
		Search:     q.Search,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	now := h.clock.Now()

	return response.Success(c, http.StatusOK, mapSlice(views, func(v usecase.ProductView) productResponse {
		return toAdminProductResponse(v.Product, now)
	}))
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAdminProductResponse(product, h.clock.Now()))
}

func (h *ProductHandler) Update(c echo.Context) error {
	productID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req productRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.uc.Update(c.Request().Context(), productID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAdminProductResponse(product, h.clock.Now()))
}

func (h *ProductHandler) SetAvailability(c echo.Context) error {
	productID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req toggleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.uc.SetAvailability(c.Request().Context(), productID, *req.Enabled)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAdminProductResponse(product, h.clock.Now()))
}

func (h *ProductHandler) SetPromotionEligibility(c echo.Context) error {
	productID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req toggleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.uc.SetPromotionEligibility(c.Request().Context(), productID, *req.Enabled)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAdminProductResponse(product, h.clock.Now()))
}
