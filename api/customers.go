package api

import (
	"net/http"
	"strconv"

	"github.com/dip051030/flightbooking/internal/domain"
	"github.com/dip051030/flightbooking/internal/service/customers"
	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	service customers.CustomerUseCase
}

type createCustomerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// customerResponse never carries the credential hash.
type customerResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Deleted bool   `json:"deleted"`
}

func NewCustomerHandler(service customers.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{service: service}
}

func (h *CustomerHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/", h.create)
	router.DELETE("/:id", h.remove)
}

func (h *CustomerHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]customerResponse, 0, len(list))
	for _, cust := range list {
		out = append(out, toCustomerResponse(cust))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	customer, err := h.service.GetByID(c.Request.Context(), sessionFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func (h *CustomerHandler) create(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.service.Add(c.Request.Context(), sessionFrom(c), customers.AddCustomerInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

func (h *CustomerHandler) remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), sessionFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toCustomerResponse(cust *domain.Customer) customerResponse {
	return customerResponse{
		ID:      cust.ID,
		Name:    cust.Name,
		Phone:   cust.Phone,
		Email:   cust.Email,
		Deleted: cust.Deleted,
	}
}
