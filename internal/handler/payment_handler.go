package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tfos262/ott-backend/internal/dto"
	"github.com/tfos262/ott-backend/internal/middleware"
	"github.com/tfos262/ott-backend/internal/service"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) RegisterRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.POST("/process-payment", h.ProcessPayment, optionalAuth)
	g.POST("/payments", h.RecordPayment, requireAuth)
	g.GET("/payments", h.ListPayments)
	g.GET("/payments/:id", h.GetPayment, requireAuth)
	g.GET("/payments/:id/verify", h.VerifyPayment, requireAuth)
}

func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	var req dto.ProcessPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if !req.Amount.Valid {
		return httpError(service.ErrInvalidAmount)
	}

	in := service.ProcessPaymentInput{SourceToken: req.Nonce, Amount: req.Amount.Value}
	if p, ok := middleware.PrincipalFrom(c); ok {
		in.CustomerID = p.CustomerID
	}

	charge, err := h.svc.ProcessPayment(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ProcessPaymentResponse{Success: true, Payment: charge})
}

func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)

	var req dto.RecordPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if !req.Amount.Valid {
		return httpError(service.ErrInvalidAmount)
	}
	customerID, ok := req.CustomerID.ID()
	if !ok {
		customerID = p.CustomerID
	}
	if customerID != p.CustomerID && !p.IsAdmin() {
		return httpError(service.ErrForbidden)
	}

	payment, err := h.svc.RecordPayment(c.Request().Context(), service.RecordPaymentInput{
		CustomerID:       customerID,
		GatewayPaymentID: req.GatewayPaymentID,
		Amount:           req.Amount.Value,
		Currency:         req.Currency,
		Status:           req.Status,
		Last4:            req.Last4,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.RecordPaymentResponse{Message: "Payment successful!", Payment: payment.View()})
}

func (h *PaymentHandler) ListPayments(c echo.Context) error {
	payments, err := h.svc.ListPayments(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPaymentViews(payments))
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	payment, err := h.svc.GetPayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, payment.View())
}

func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	charge, err := h.svc.VerifyPayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, charge)
}
