package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tfos262/ott-backend/internal/service"
	"github.com/tfos262/ott-backend/pkg/gateway"
)

func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Customer not found")
	case errors.Is(err, service.ErrPaymentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Payment not found")
	case errors.Is(err, service.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, gateway.ErrInvalidCharge):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, gateway.ErrNotConfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Payment gateway unavailable")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}
