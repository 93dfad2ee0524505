// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"basket/internal/delivery/api/response"
	deliverycontext "basket/internal/delivery/context"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// pageQuery is the limit/offset pair shared by listing endpoints.
type pageQuery struct {
	Limit  int `query:"limit" validate:"gte=0,lte=200"`
	Offset int `query:"offset" validate:"gte=0"`
}

// HealthCheck reports that the process is serving.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// bind decodes the request into req and runs the struct validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body or parameters")
	}

	return c.Validate(req)
}

// currentUserID returns the authenticated caller set by the auth middleware.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return uuid.Nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "missing authenticated user")
	}

	return userID, nil
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails(name + " must be a UUID")
	}

	return id, nil
}

// optionalUUID parses an optional query value; empty means no filter.
func optionalUUID(raw, name string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(name + " must be a UUID")
	}

	return &id, nil
}
