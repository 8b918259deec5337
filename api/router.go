package api

import (
	"github.com/dip051030/flightbooking/internal/auth"
	"github.com/dip051030/flightbooking/internal/service/booking"
	"github.com/dip051030/flightbooking/internal/service/customers"
	"github.com/dip051030/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// NewRouter assembles the HTTP surface: session middleware plus one handler
// group per resource.
func NewRouter(
	sessions *auth.Service,
	flightSvc flights.FlightUseCase,
	customerSvc customers.CustomerUseCase,
	bookingSvc booking.BookingUseCase,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), SessionMiddleware(sessions))

	NewAuthHandler(sessions, customerSvc).Register(router.Group("/auth"))
	NewFlightHandler(flightSvc).Register(router.Group("/flights"))
	NewCustomerHandler(customerSvc).Register(router.Group("/customers"))
	NewBookingHandler(bookingSvc).Register(router.Group("/bookings"))

	return router
}
