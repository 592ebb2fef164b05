package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/service"
)

// SeatHandler exposes the read side of the seat pool plus the one-time
// initializer.
type SeatHandler struct {
	Svc *service.ReservationService
}

func NewSeatHandler(svc *service.ReservationService) *SeatHandler {
	if svc == nil {
		panic("nil service passed to NewSeatHandler")
	}
	return &SeatHandler{Svc: svc}
}

// ListSeats handles GET /api/seats.  It returns every seat with its
// current availability.
func (h *SeatHandler) ListSeats(c echo.Context) error {
	seats, err := h.Svc.ListSeats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, seats)
}

// SeatStats handles GET /api/seats/stats.  Counters are computed fresh
// from the store on every call.
func (h *SeatHandler) SeatStats(c echo.Context) error {
	stats, err := h.Svc.SeatStats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, stats)
}

// InitSeats handles POST /api/seats/init.  It populates the 40-seat
// plan exactly once; a second call reports a conflict without touching
// the store.
func (h *SeatHandler) InitSeats(c echo.Context) error {
	if err := h.Svc.InitializeSeats(c.Request().Context()); err != nil {
		if errors.Is(err, repository.ErrAlreadyInitialized) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seats already initialized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "initialization failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "seats initialized", "count": service.TotalSeats})
}
