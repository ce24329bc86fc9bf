package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tfos262/ott-backend/internal/dto"
	"github.com/tfos262/ott-backend/internal/middleware"
	"github.com/tfos262/ott-backend/internal/service"
)

type CustomerHandler struct {
	svc service.CustomerService
}

func NewCustomerHandler(svc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func (h *CustomerHandler) RegisterRoutes(g *echo.Group, requireAuth, requireAdmin echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.GET("/customers", h.ListCustomers, requireAuth)
	g.POST("/customer/id", h.GetByID, requireAuth)
	g.POST("/customer/email", h.GetByEmail, requireAuth)
	g.POST("/update_customer", h.Update, requireAuth)
	g.POST("/customer/promote_to_admin", h.PromoteToAdmin, requireAuth, requireAdmin)
	g.POST("/customer/delete", h.Delete, requireAuth, requireAdmin)
}

func (h *CustomerHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.RegisterResponse{Message: "Registered successfully", CustomerID: id})
}

func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	customers, err := h.svc.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponses(customers))
}

func (h *CustomerHandler) GetByID(c echo.Context) error {
	var req dto.CustomerIDRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid customer ID")
	}
	id, ok := req.CustomerID.ID()
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid customer ID")
	}

	customer, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(customer))
}

func (h *CustomerHandler) GetByEmail(c echo.Context) error {
	var req dto.CustomerEmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer, err := h.svc.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(customer))
}

func (h *CustomerHandler) Update(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)

	var req dto.UpdateCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	id, ok := req.CustomerID.ID()
	if !ok {
		id = p.CustomerID
	}

	_, err := h.svc.Update(c.Request().Context(), p, service.UpdateCustomerInput{
		CustomerID: id,
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Customer updated successfully"})
}

func (h *CustomerHandler) PromoteToAdmin(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)

	id, err := requiredCustomerID(c)
	if err != nil {
		return err
	}
	if err := h.svc.PromoteToAdmin(c.Request().Context(), p, id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Customer promoted to admin successfully"})
}

func (h *CustomerHandler) Delete(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)

	id, err := requiredCustomerID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), p, id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Customer deleted successfully"})
}

func requiredCustomerID(c echo.Context) (uint, error) {
	var req dto.CustomerIDRequest
	if err := c.Bind(&req); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Customer ID is required")
	}
	id, ok := req.CustomerID.ID()
	if !ok {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Customer ID is required")
	}
	return id, nil
}
