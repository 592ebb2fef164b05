package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/service"
)

// BookingHandler exposes the booking endpoints.  All methods assume JWT
// authentication has already run; they only extract the user id from
// the context.
type BookingHandler struct {
	Svc *service.ReservationService
}

func NewBookingHandler(svc *service.ReservationService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

type bookReq struct {
	SeatNumber  string   `json:"seat_number"`
	SeatNumbers []string `json:"seat_numbers"`
}

// CreateBooking handles POST /api/bookings.  The body carries either a
// single seat_number or a seat_numbers batch.  Batches are best effort:
// partial successes are kept and each failed seat is reported with its
// reason.  A batch where nothing succeeded is a failed request even
// though no error occurred.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()

	// Batch form takes precedence when both fields are present.
	if len(req.SeatNumbers) > 0 {
		result, err := h.Svc.BookMany(ctx, userID, req.SeatNumbers)
		if err != nil {
			if errors.Is(err, service.ErrEmptyBatch) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_numbers is required"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if result.BookedCount == 0 {
			return c.JSON(http.StatusConflict, result)
		}
		return c.JSON(http.StatusCreated, result)
	}

	if req.SeatNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number or seat_numbers is required"})
	}
	booking, err := h.Svc.BookOne(ctx, userID, req.SeatNumber)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBatch):
			// seat_number was all whitespace
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number or seat_numbers is required"})
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, repository.ErrSeatAlreadyBooked):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat " + req.SeatNumber + " is already booked"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	return c.JSON(http.StatusCreated, booking)
}

// MyBookings handles GET /api/bookings/my.  It returns the caller's
// booking history joined with seat attributes and display identity,
// newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	views, err := h.Svc.ListMyBookings(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, views)
}
