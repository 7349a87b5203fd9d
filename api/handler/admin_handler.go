package handler

import (
	"errors"
	"net/http"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/dto"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/repository"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// AdminHandler exposes provisioning: credential issuance and account
// activation. Mounted behind the admin-session guard only.
type AdminHandler struct {
	Issuer   *service.CredentialIssuer
	Repo     repository.CredentialRepository
	Validate *validator.Validate
}

func NewAdminHandler(issuer *service.CredentialIssuer, repo repository.CredentialRepository, validate *validator.Validate) *AdminHandler {
	return &AdminHandler{Issuer: issuer, Repo: repo, Validate: validate}
}

// IssuePrincipal creates an account and returns the generated external id
// and temporary password. This response is the only place the plaintext
// temporary password leaves the system besides the optional email notice.
func (h *AdminHandler) IssuePrincipal(c echo.Context) error {
	var req dto.IssueRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}
	issued, err := h.Issuer.Issue(c.Request().Context(), entity.Role(req.Role), service.ProfileSeed{
		FullName:   req.FullName,
		Department: req.Department,
		ClassName:  req.ClassName,
		Subjects:   req.Subjects,
		Email:      req.Email,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.IssueResponse{
		ExternalID:   issued.Principal.ExternalID,
		TempPassword: issued.TempPassword,
	})
}

func (h *AdminHandler) SetActive(c echo.Context) error {
	var req dto.SetActiveRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}
	principal, err := h.Repo.FindByExternalID(c.Request().Context(), c.Param("externalId"))
	if err != nil {
		return writeServiceError(c, err)
	}
	if principal == nil {
		return writeError(c, http.StatusNotFound, errors.New("principal not found"))
	}
	if err := h.Repo.SetActive(c.Request().Context(), principal.ID, *req.Active); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
