package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dip051030/flightbooking/internal/domain"
	"github.com/dip051030/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	CustomerID int `json:"customer_id"`
	FlightID   int `json:"flight_id"`
}

type rebookRequest struct {
	NewFlightID int `json:"new_flight_id"`
}

type bookingResponse struct {
	ID          int    `json:"id"`
	CustomerID  int    `json:"customer_id"`
	FlightID    int    `json:"flight_id"`
	BookingDate string `json:"booking_date"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.DELETE("/", h.cancel)
	router.PUT("/:id", h.rebook)
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), sessionFrom(c), req.CustomerID, req.FlightID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

// cancel identifies the booking by (customer_id, flight_id) query parameters,
// matching the cancellation contract: first booking of that customer on that
// flight.
func (h *BookingHandler) cancel(c *gin.Context) {
	customerID, err := strconv.Atoi(c.Query("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
		return
	}
	flightID, err := strconv.Atoi(c.Query("flight_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight_id"})
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), sessionFrom(c), customerID, flightID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) rebook(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req rebookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.RebookBooking(c.Request.Context(), sessionFrom(c), bookingID, req.NewFlightID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:          b.ID,
		CustomerID:  b.Customer.ID,
		FlightID:    b.Flight.ID,
		BookingDate: b.BookingDate.Format(time.DateOnly),
	}
}
