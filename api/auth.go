package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/dip051030/flightbooking/internal/auth"
	"github.com/dip051030/flightbooking/internal/service/customers"
	"github.com/gin-gonic/gin"
)

// AuthService is the slice of the auth component the handler needs.
type AuthService interface {
	LoginAdmin(username, password string) (*auth.Session, error)
	LoginCustomer(email, password string) (*auth.Session, error)
	Logout(token string)
}

type AuthHandler struct {
	sessions  AuthService
	customers customers.CustomerUseCase
}

// loginRequest logs in an administrator when username is set, otherwise a
// customer by email.
type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token      string `json:"token"`
	Role       string `json:"role"`
	CustomerID int    `json:"customer_id,omitempty"`
	ExpiresAt  string `json:"expires_at"`
}

func NewAuthHandler(sessions AuthService, customers customers.CustomerUseCase) *AuthHandler {
	return &AuthHandler{sessions: sessions, customers: customers}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)
	router.POST("/register", h.register)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		sess *auth.Session
		err  error
	)
	if req.Username != "" {
		sess, err = h.sessions.LoginAdmin(req.Username, req.Password)
	} else {
		sess, err = h.sessions.LoginCustomer(req.Email, req.Password)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *AuthHandler) logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		h.sessions.Logout(token)
	}
	c.Status(http.StatusNoContent)
}

// register creates the customer and returns a live session, so a new user is
// logged in immediately.
func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, sess, err := h.customers.Register(c.Request.Context(), customers.AddCustomerInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"customer": toCustomerResponse(customer),
		"session":  toSessionResponse(sess),
	})
}

func toSessionResponse(sess *auth.Session) sessionResponse {
	return sessionResponse{
		Token:      sess.Token,
		Role:       string(sess.Role),
		CustomerID: sess.CustomerID,
		ExpiresAt:  sess.ExpiresAt.Format(time.RFC3339),
	}
}
