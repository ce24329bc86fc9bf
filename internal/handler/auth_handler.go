package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tfos262/ott-backend/internal/dto"
	"github.com/tfos262/ott-backend/internal/middleware"
	"github.com/tfos262/ott-backend/internal/service"
)

type AuthHandler struct {
	auth      service.AuthService
	customers service.CustomerService
}

func NewAuthHandler(auth service.AuthService, customers service.CustomerService) *AuthHandler {
	return &AuthHandler{auth: auth, customers: customers}
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group, requireAuth, requireAdmin echo.MiddlewareFunc) {
	g.POST("/login", h.Login)
	g.GET("/me", h.Me, requireAuth)
	g.GET("/admin/report_customer", h.ReportCustomers, requireAuth, requireAdmin)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Message:    "Login successful",
		CustomerID: res.Customer.ID,
		IsAdmin:    res.Principal.IsAdmin(),
		Token:      res.Token,
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	customer, err := h.auth.Me(c.Request().Context(), p.CustomerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *AuthHandler) ReportCustomers(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	customers, err := h.customers.Report(c.Request().Context(), p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, customers)
}
