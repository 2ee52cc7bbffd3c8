package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/account-service/internal/api/metrics"
	"github.com/identitykit/account-service/internal/core/domain"
	"github.com/identitykit/account-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user record operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Patch handles PATCH /v1/users/:id.
//
// @Summary      Partially update a user record
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User id"
// @Param        body  body      patchUserRequest  true  "Fields to change plus the version the record was read at"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/{id} [patch]
func (h *UserHandler) Patch(c echo.Context) error {
	start := time.Now()

	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	in, err := decodePatch(c, principal)
	if err != nil {
		return err
	}

	result, err := h.service.PatchUser(c.Request().Context(), in)
	outcome := patchOutcome(err)
	metrics.PatchesTotal.WithLabelValues(outcome).Inc()
	metrics.PatchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	if result.Token != "" {
		metrics.TokensReissuedTotal.Inc()
		c.Response().Header().Set(AuthTokenHeader, result.Token)
	}

	return c.JSON(http.StatusOK, toUserResponse(result.User))
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user record
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200 {object}  userResponse
// @Failure      401 {object}  errorResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetUser(c.Request().Context(), principal, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(*view))
}

// decodePatch reads the body twice: once as a raw key set to learn which
// fields the payload actually carried, once as typed values. A missing
// version is a malformed payload, not a conflict.
func decodePatch(c echo.Context, principal domain.Principal) (ports.PatchUserInput, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		return ports.PatchUserInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	var req patchUserRequest
	for key, val := range raw {
		var dst any
		switch key {
		case "name":
			dst = &req.Name
		case "roles":
			dst = &req.Roles
		case "version":
			dst = &req.Version
		default:
			continue
		}
		if err := json.Unmarshal(val, dst); err != nil {
			return ports.PatchUserInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}

	if _, ok := raw["version"]; !ok || req.Version == nil {
		return ports.PatchUserInput{}, echo.NewHTTPError(http.StatusBadRequest, "version is required")
	}

	_, nameSet := raw["name"]
	_, rolesSet := raw["roles"]

	return ports.PatchUserInput{
		Principal: principal,
		TargetID:  c.Param("id"),
		Name:      req.Name,
		NameSet:   nameSet,
		Roles:     req.Roles,
		RolesSet:  rolesSet,
		Version:   *req.Version,
	}, nil
}

func patchOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidName), errors.Is(err, domain.ErrInvalidRoles):
		return "validation_failed"
	case errors.Is(err, domain.ErrVersionConflict):
		return "version_conflict"
	default:
		return "error"
	}
}

func toUserResponse(v ports.UserView) userResponse {
	return userResponse{
		ID:         v.ID,
		Username:   v.Username,
		Tag:        userTag{Name: v.Name},
		Roles:      v.Roles,
		Unverified: v.Unverified,
		Admin:      v.Admin,
		Version:    v.Version,
	}
}
