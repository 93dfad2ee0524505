package handler

import (
	"net/http"
	"time"

	"basket/internal/delivery/api/response"
	"basket/internal/domain/entity"
	"basket/internal/errors"
	"basket/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PromotionHandler serves promotion discovery and the admin promotion back-office.
type PromotionHandler struct {
	uc usecase.PromotionUsecase
}

// NewPromotionHandler is the constructor for PromotionHandler, injected by Fx.
func NewPromotionHandler(uc usecase.PromotionUsecase) *PromotionHandler {
	return &PromotionHandler{uc: uc}
}

type promotionRequest struct {
	Code              string           `json:"code" validate:"required,max=40"`
	Name              string           `json:"name" validate:"required,max=120"`
	Description       string           `json:"description"`
	DiscountKind      string           `json:"discount_kind" validate:"required,oneof=percentage fixed"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MinOrderValue     decimal.Decimal  `json:"min_order_value"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount"`
	ValidFrom         time.Time        `json:"valid_from" validate:"required"`
	ValidTo           *time.Time       `json:"valid_to"`
	UsageType         string           `json:"usage_type" validate:"omitempty,oneof=general single-use multi-use"`
	MaxUsesPerUser    *int             `json:"max_uses_per_user" validate:"omitempty,gte=1"`
	MaxTotalUses      *int             `json:"max_total_uses" validate:"omitempty,gte=1"`
	IsActive          bool             `json:"is_active"`
}

func (r promotionRequest) toInput() usecase.PromotionInput {
	usageType := entity.UsageType(r.UsageType)
	if usageType == "" {
		usageType = entity.UsageGeneral
	}

	return usecase.PromotionInput{
		Code:              r.Code,
		Name:              r.Name,
		Description:       r.Description,
		DiscountKind:      r.DiscountKind,
		DiscountValue:     r.DiscountValue,
		MinOrderValue:     r.MinOrderValue,
		MaxDiscountAmount: r.MaxDiscountAmount,
		ValidFrom:         r.ValidFrom,
		ValidTo:           r.ValidTo,
		UsageType:         usageType,
		MaxUsesPerUser:    r.MaxUsesPerUser,
		MaxTotalUses:      r.MaxTotalUses,
		IsActive:          r.IsActive,
	}
}

// Eligible lists promotions the caller can apply to the current cart, best first.
func (h *PromotionHandler) Eligible(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	eligible, err := h.uc.ListEligible(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(eligible, func(e usecase.EligiblePromotion) promotionResponse {
		resp := toPromotionResponse(e.Promotion, false)
		resp.EstimatedDiscount = amount(e.EstimatedDiscount)

		return resp
	}))
}

func (h *PromotionHandler) List(c echo.Context) error {
	var q pageQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	promotions, err := h.uc.List(c.Request().Context(), q.Limit, q.Offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(promotions, func(p *entity.Promotion) promotionResponse {
		return toPromotionResponse(p, true)
	}))
}

func (h *PromotionHandler) Create(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req promotionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	promotion, err := h.uc.Create(c.Request().Context(), adminID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toPromotionResponse(promotion, true))
}

func (h *PromotionHandler) Update(c echo.Context) error {
	promotionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req promotionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	promotion, err := h.uc.Update(c.Request().Context(), promotionID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toPromotionResponse(promotion, true))
}

func (h *PromotionHandler) SetActive(c echo.Context) error {
	promotionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req toggleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	promotion, err := h.uc.SetActive(c.Request().Context(), promotionID, *req.Enabled)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toPromotionResponse(promotion, true))
}
