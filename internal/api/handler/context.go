package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/account-service/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware
// and performs a fast-fail check before any service call: a zero user id
// means the middleware never ran or the token carried no subject, in
// which case the request is structurally authenticated but unusable.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	principal, _ := c.Get("principal").(domain.Principal)
	if principal.UserID == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return principal, nil
}
