package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/dto"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/service"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// PortalHandler adapts one portal's session manager to HTTP. The portal
// shell drives everything through these four endpoints.
type PortalHandler struct {
	Manager  *session.Manager
	Validate *validator.Validate
}

func NewPortalHandler(manager *session.Manager, validate *validator.Validate) *PortalHandler {
	return &PortalHandler{Manager: manager, Validate: validate}
}

func (h *PortalHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.SessionResponseFromSnapshot(h.Manager.State()))
}

func (h *PortalHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Manager.Login(c.Request().Context(), req.ExternalID, req.Password); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SessionResponseFromSnapshot(h.Manager.State()))
}

func (h *PortalHandler) Rotate(c echo.Context) error {
	var req dto.RotateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Manager.Rotate(c.Request().Context(), req.NewPassword); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SessionResponseFromSnapshot(h.Manager.State()))
}

func (h *PortalHandler) SignOut(c echo.Context) error {
	if err := h.Manager.SignOut(); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PortalHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

func writeServiceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrRotationRequired):
		status = http.StatusPreconditionRequired
	case errors.Is(err, session.ErrNoRotationPending):
		status = http.StatusConflict
	case errors.Is(err, session.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrPersistence):
		status = http.StatusBadGateway
	}
	return writeError(c, status, err)
}
