package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dip051030/flightbooking/internal/auth"
	"github.com/dip051030/flightbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSessionResolver struct {
	mock.Mock
}

func (m *MockSessionResolver) SessionByToken(token string) (*auth.Session, error) {
	args := m.Called(token)
	if s := args.Get(0); s != nil {
		return s.(*auth.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func middlewareRouter(resolver *MockSessionResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SessionMiddleware(resolver))
	router.GET("/whoami", func(c *gin.Context) {
		sess := sessionFrom(c)
		if sess == nil {
			c.JSON(http.StatusOK, gin.H{"role": "anonymous"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": string(sess.Role)})
	})
	return router
}

func TestSessionMiddleware_ResolvesBearerToken(t *testing.T) {
	resolver := &MockSessionResolver{}
	resolver.On("SessionByToken", "abc").
		Return(&auth.Session{Token: "abc", Role: auth.RoleAdmin}, nil).Once()
	router := middlewareRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"ADMIN"}`, w.Body.String())
	resolver.AssertExpectations(t)
}

func TestSessionMiddleware_StaleTokenIsAnonymous(t *testing.T) {
	resolver := &MockSessionResolver{}
	resolver.On("SessionByToken", "stale").Return(nil, auth.ErrSessionExpired).Once()
	router := middlewareRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer stale")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"anonymous"}`, w.Body.String())
}

func TestSessionMiddleware_NoHeader(t *testing.T) {
	resolver := &MockSessionResolver{}
	router := middlewareRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.JSONEq(t, `{"role":"anonymous"}`, w.Body.String())
	resolver.AssertNotCalled(t, "SessionByToken")
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"login required", auth.ErrLoginRequired, http.StatusUnauthorized},
		{"session expired", auth.ErrSessionExpired, http.StatusUnauthorized},
		{"admin required", auth.ErrAdminRequired, http.StatusForbidden},
		{"not found", &domain.NotFoundError{Entity: "flight", ID: 1}, http.StatusNotFound},
		{"booking not found", &domain.BookingNotFoundError{CustomerID: 1, FlightID: 2}, http.StatusNotFound},
		{"flight full", &domain.FlightFullError{FlightNumber: "BA123", Capacity: 100}, http.StatusConflict},
		{"flight deleted", &domain.FlightDeletedError{FlightID: 1}, http.StatusConflict},
		{"customer deleted", &domain.CustomerDeletedError{CustomerID: 1}, http.StatusConflict},
		{"validation", &domain.ValidationError{Msg: "bad"}, http.StatusBadRequest},
		{"persistence", &domain.PersistenceError{Op: "store", Err: errors.New("disk")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}
