package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identitykit/account-service/internal/core/domain"
)

func render(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/v1/users/u1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	return rec.Code, resp["error"]
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrInvalidName, http.StatusUnprocessableEntity},
		{domain.ErrInvalidRoles, http.StatusUnprocessableEntity},
		{domain.ErrVersionConflict, http.StatusConflict},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		if code, _ := render(t, tc.err); code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		// Wrapped errors must map identically.
		if code, _ := render(t, fmt.Errorf("patch user: %w", tc.err)); code != tc.code {
			t.Errorf("wrapped %v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestErrorHandler_ForbiddenLeaksNoDetail(t *testing.T) {
	_, msg := render(t, fmt.Errorf("roles field rejected for caller u1: %w", domain.ErrForbidden))
	if msg != "access forbidden" {
		t.Fatalf("forbidden response leaked detail: %q", msg)
	}
}

func TestErrorHandler_EchoErrors(t *testing.T) {
	code, msg := render(t, echo.NewHTTPError(http.StatusBadRequest, "version is required"))
	if code != http.StatusBadRequest || msg != "version is required" {
		t.Fatalf("unexpected mapping: %d %q", code, msg)
	}
}

func TestErrorHandler_UnknownError(t *testing.T) {
	code, msg := render(t, errors.New("mongo exploded"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}
