package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tfos262/ott-backend/internal/dto"
	"github.com/tfos262/ott-backend/internal/middleware"
	"github.com/tfos262/ott-backend/internal/service"
)

type TeeTimeHandler struct {
	ledger service.TeeTimeLedger
}

func NewTeeTimeHandler(ledger service.TeeTimeLedger) *TeeTimeHandler {
	return &TeeTimeHandler{ledger: ledger}
}

func (h *TeeTimeHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/available-teetimes", h.AvailableTeeTimes)
	g.GET("/reserved-teetimes", h.ReservedTeeTimes)
	g.POST("/reserved-teetimes", h.CreateReservation, requireAuth)
	g.GET("/teetimes", h.ListReservations)
	g.GET("/teetimes/:date", h.ListReservationsByDate)
}

func (h *TeeTimeHandler) AvailableTeeTimes(c echo.Context) error {
	slots, err := h.ledger.AvailableTeeTimes(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *TeeTimeHandler) ReservedTeeTimes(c echo.Context) error {
	slots, err := h.ledger.ReservedTeeTimes(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, slots)
}

// CreateReservation books for the authenticated customer, never for a
// customer named in the body.
func (h *TeeTimeHandler) CreateReservation(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "No token provided")
	}

	var req dto.CreateReservationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	at, err := req.ParseDateTime()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.ledger.CreateReservation(c.Request().Context(), service.CreateReservationInput{
		CustomerID: p.CustomerID,
		NumGolfers: req.NumGolfers,
		TotalPrice: req.TotalPrice,
		Paid:       req.Paid,
		DateTime:   at,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.CreateReservationResponse{Success: true, TeeTimeID: id})
}

func (h *TeeTimeHandler) ListReservations(c echo.Context) error {
	list, err := h.ledger.ListAll(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponses(list))
}

func (h *TeeTimeHandler) ListReservationsByDate(c echo.Context) error {
	list, err := h.ledger.ListByDate(c.Request().Context(), c.Param("date"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponses(list))
}
