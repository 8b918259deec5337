package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dip051030/flightbooking/internal/domain"
	"github.com/dip051030/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type createFlightRequest struct {
	FlightNumber  string  `json:"flight_number"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	Capacity      int     `json:"capacity"`
	Price         float64 `json:"price"`
}

type flightResponse struct {
	ID             int     `json:"id"`
	FlightNumber   string  `json:"flight_number"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DepartureDate  string  `json:"departure_date"`
	Capacity       int     `json:"capacity"`
	Price          float64 `json:"price"`
	AvailableSeats int     `json:"available_seats"`
	Deleted        bool    `json:"deleted"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/", h.create)
	router.DELETE("/:id", h.remove)
}

func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]flightResponse, 0, len(flights))
	for _, f := range flights {
		out = append(out, toFlightResponse(f))
	}
	c.JSON(http.StatusOK, out)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	departure, err := time.Parse(time.DateOnly, req.DepartureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_date, want YYYY-MM-DD"})
		return
	}

	flight, err := h.service.Add(c.Request.Context(), flights.AddFlightInput{
		FlightNumber:  req.FlightNumber,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: departure,
		Capacity:      req.Capacity,
		Price:         req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(flight))
}

func (h *FlightHandler) remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:             f.ID,
		FlightNumber:   f.FlightNumber,
		Origin:         f.Origin,
		Destination:    f.Destination,
		DepartureDate:  f.DepartureDate.Format(time.DateOnly),
		Capacity:       f.Capacity,
		Price:          f.Price,
		AvailableSeats: f.AvailableSeats(),
		Deleted:        f.Deleted,
	}
}
