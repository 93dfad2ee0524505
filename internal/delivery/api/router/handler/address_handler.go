package handler

import (
	"net/http"

	"basket/internal/delivery/api/response"
	"basket/internal/domain/entity"
	"basket/internal/errors"
	"basket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AddressHandler manages the caller's saved addresses.
type AddressHandler struct {
	uc usecase.AddressUsecase
}

// NewAddressHandler is the constructor for AddressHandler, injected by Fx.
func NewAddressHandler(uc usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

type addAddressRequest struct {
	Label      string `json:"label" validate:"omitempty,oneof=home work other"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type updateAddressRequest struct {
	Label      *string `json:"label" validate:"omitempty,oneof=home work other"`
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
	IsDefault  *bool   `json:"is_default"`
}

func (h *AddressHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addresses, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(addresses, toAddressResponse))
}

func (h *AddressHandler) Add(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req addAddressRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	address, err := h.uc.Add(c.Request().Context(), userID, usecase.AddAddressInput{
		Label:      entity.AddressLabel(req.Label),
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAddressResponse(address))
}

// Update applies a partial edit; omitted fields keep their values.
func (h *AddressHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	addressID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateAddressRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := usecase.UpdateAddressInput{
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}
	if req.Label != nil {
		label := entity.AddressLabel(*req.Label)
		input.Label = &label
	}

	address, err := h.uc.Update(c.Request().Context(), userID, addressID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAddressResponse(address))
}

func (h *AddressHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	addressID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), userID, addressID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AddressHandler) SetDefault(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	addressID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.SetDefault(c.Request().Context(), userID, addressID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
