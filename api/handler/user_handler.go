package handler

import (
	"errors"
	"net/http"
	"strconv"

	"opsvault/api/middleware"
	"opsvault/internal/dto"
	"opsvault/internal/entity"
	"opsvault/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UserHandler carries the profile and admin account-management surface.
type UserHandler struct {
	Service  *service.AuthService
	Validate *validator.Validate
}

func NewUserHandler(svc *service.AuthService, validate *validator.Validate) *UserHandler {
	return &UserHandler{Service: svc, Validate: validate}
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.ProfileUpdateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}
	input := service.UpdateProfileInput{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Suffix:     req.Suffix,
	}
	user, err := h.Service.UpdateProfile(c.Request().Context(), userID, input, stringPtr(c.RealIP()))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	users, err := h.Service.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponsesFromEntities(users))
}

// GetUser serves admins and self-lookups only.
func (h *UserHandler) GetUser(c echo.Context) error {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid user id"))
	}
	role, _ := middleware.RoleFromContext(c)
	if targetID != actorID && role != string(entity.UserRoleAdmin) {
		return writeError(c, http.StatusForbidden, errors.New("forbidden"))
	}
	user, err := h.Service.GetUser(c.Request().Context(), targetID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if user == nil {
		return writeError(c, http.StatusNotFound, errors.New("account not found"))
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) DeactivateUser(c echo.Context) error {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid user id"))
	}
	if err := h.Service.DeactivateUser(c.Request().Context(), actorID, targetID, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *UserHandler) ListAuditLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	logs, err := h.Service.ListAuditLogs(c.Request().Context(), limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AuditLogResponsesFromEntities(logs))
}
