package handler

import (
	"net/http"

	"basket/internal/delivery/api/response"
	"basket/internal/errors"
	"basket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CategoryHandler serves catalog categories.
type CategoryHandler struct {
	uc usecase.CategoryUsecase
}

// NewCategoryHandler is the constructor for CategoryHandler, injected by Fx.
func NewCategoryHandler(uc usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Image       string `json:"image" validate:"required"`
	Description string `json:"description"`
}

func (r categoryRequest) toInput() usecase.CategoryInput {
	return usecase.CategoryInput{Name: r.Name, Image: r.Image, Description: r.Description}
}

// List lists active categories.
func (h *CategoryHandler) List(c echo.Context) error {
	return h.list(c, false)
}

// AdminList lists every category, inactive ones included.
func (h *CategoryHandler) AdminList(c echo.Context) error {
	return h.list(c, true)
}

func (h *CategoryHandler) list(c echo.Context, includeInactive bool) error {
	categories, err := h.uc.List(c.Request().Context(), includeInactive)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(categories, toCategoryResponse))
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	category, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toCategoryResponse(category))
}

func (h *CategoryHandler) Update(c echo.Context) error {
	categoryID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	category, err := h.uc.Update(c.Request().Context(), categoryID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCategoryResponse(category))
}

// SetActive toggles whether the category and its products show in the catalog.
func (h *CategoryHandler) SetActive(c echo.Context) error {
	categoryID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req toggleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	category, err := h.uc.SetActive(c.Request().Context(), categoryID, *req.Enabled)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCategoryResponse(category))
}
