package handler

import (
	"net/http"

	"basket/internal/delivery/api/response"
	"basket/internal/domain/entity"
	"basket/internal/errors"
	"basket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// UserHandler serves the admin account back-office.
type UserHandler struct {
	uc usecase.UserUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type createStaffRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type listUsersQuery struct {
	pageQuery
	Role string `query:"role"`
}

// CreateStaff creates an admin or delivery account.
func (h *UserHandler) CreateStaff(c echo.Context) error {
	var req createStaffRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.uc.CreateStaff(c.Request().Context(), usecase.CreateStaffInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	input := usecase.ListUsersInput{Limit: q.Limit, Offset: q.Offset}
	if q.Role != "" {
		role := entity.Role(q.Role)
		input.Role = &role
	}

	users, err := h.uc.List(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(users, toUserResponse))
}
