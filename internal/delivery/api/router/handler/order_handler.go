package handler

import (
	"net/http"

	"basket/internal/delivery/api/response"
	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/errors"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandler serves checkout, order history, admin status updates and delivery confirmation.
type OrderHandler struct {
	uc usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type deliveryAddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type placeOrderRequest struct {
	AddressID       *uuid.UUID              `json:"address_id"`
	DeliveryAddress *deliveryAddressRequest `json:"delivery_address"`
	PaymentMethod   string                  `json:"payment_method"`
	PromoCode       string                  `json:"promo_code" validate:"max=40"`
}

type listOrdersQuery struct {
	pageQuery
	Status string `query:"status" validate:"omitempty,oneof=placed confirmed packed shipped delivered cancelled"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=placed confirmed packed shipped delivered cancelled"`
	Reason string `json:"reason" validate:"max=500"`
}

type confirmDeliveryRequest struct {
	Payload string `json:"payload" validate:"required"`
}

func (q listOrdersQuery) toInput() usecase.ListOrdersInput {
	input := usecase.ListOrdersInput{Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		status := entity.OrderStatus(q.Status)
		input.Status = &status
	}

	return input
}

// Place converts the caller's cart into an order.
func (h *OrderHandler) Place(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := usecase.PlaceOrderInput{
		AddressID:     req.AddressID,
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
		PromoCode:     req.PromoCode,
	}
	if req.DeliveryAddress != nil {
		input.DeliveryAddress = &entity.DeliveryAddress{
			Street:     req.DeliveryAddress.Street,
			City:       req.DeliveryAddress.City,
			State:      req.DeliveryAddress.State,
			PostalCode: req.DeliveryAddress.PostalCode,
			Country:    req.DeliveryAddress.Country,
		}
	}

	order, err := h.uc.PlaceOrder(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var q listOrdersQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	orders, err := h.uc.ListOrders(c.Request().Context(), userID, q.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(orders, toOrderResponse))
}

func (h *OrderHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.uc.GetOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order))
}

// DeliveryQR renders the doorstep QR code as PNG.
func (h *OrderHandler) DeliveryQR(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.uc.GenerateDeliveryQR(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// AdminList lists every customer's orders.
func (h *OrderHandler) AdminList(c echo.Context) error {
	var q listOrdersQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	orders, err := h.uc.ListAll(c.Request().Context(), q.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(orders, toOrderResponse))
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.uc.UpdateStatus(c.Request().Context(), orderID, usecase.UpdateOrderStatusInput{
		Status: entity.OrderStatus(req.Status),
		Reason: req.Reason,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order))
}

// OutForDelivery lists shipped orders for delivery staff.
func (h *OrderHandler) OutForDelivery(c echo.Context) error {
	var q pageQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	shipped := entity.OrderShipped
	orders, err := h.uc.ListAll(c.Request().Context(), usecase.ListOrdersInput{Status: &shipped, Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(orders, toOrderResponse))
}

// ConfirmDelivery marks the order named by a scanned QR payload as delivered.
func (h *OrderHandler) ConfirmDelivery(c echo.Context) error {
	var req confirmDeliveryRequest
	if err := bind(c, &req); err != nil {
		return errors.Wrap(domainerrors.ErrInvalidQRCode, "missing QR payload")
	}

	order, err := h.uc.ConfirmDelivery(c.Request().Context(), req.Payload)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order))
}
