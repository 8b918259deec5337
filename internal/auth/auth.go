package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/dip051030/flightbooking/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

var (
	ErrLoginRequired      = errors.New("login required")
	ErrAdminRequired      = errors.New("administrator access required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session expired, please log in again")
	// ErrLegacyAccount is returned for customers persisted before
	// authentication existed; their records carry no credential hash.
	ErrLegacyAccount = errors.New("this account was created before authentication was added, please re-register")
)

// Session is an explicit authentication context passed into every gated
// operation. There is no process-wide current session.
type Session struct {
	Token      string
	Role       Role
	CustomerID int // zero for admin sessions
	ExpiresAt  time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

func (s *Session) IsCustomer() bool {
	return s != nil && s.Role == RoleCustomer
}

// RequireLogin fails when no session is present.
func RequireLogin(s *Session) error {
	if s == nil {
		return ErrLoginRequired
	}
	return nil
}

// RequireAdmin fails unless the session belongs to an administrator.
func RequireAdmin(s *Session) error {
	if s == nil {
		return ErrLoginRequired
	}
	if s.Role != RoleAdmin {
		return ErrAdminRequired
	}
	return nil
}

// CustomerDirectory is the slice of the registry the auth service needs for
// customer login.
type CustomerDirectory interface {
	Lock()
	Unlock()
	CustomerByEmail(email string) (*domain.Customer, bool)
}

type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session

	adminUsername string
	adminPassword string
	ttl           time.Duration

	customers CustomerDirectory
}

func NewService(adminUsername, adminPassword string, ttl time.Duration, customers CustomerDirectory) *Service {
	return &Service{
		sessions:      make(map[string]*Session),
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		ttl:           ttl,
		customers:     customers,
	}
}

// LoginAdmin authenticates against the fixed credentials from configuration.
func (s *Service) LoginAdmin(username, password string) (*Session, error) {
	if username != s.adminUsername || password != s.adminPassword {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(RoleAdmin, 0), nil
}

// LoginCustomer authenticates a customer by login email and raw password.
func (s *Service) LoginCustomer(email, password string) (*Session, error) {
	s.customers.Lock()
	customer, ok := s.customers.CustomerByEmail(email)
	s.customers.Unlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if customer.CredentialHash == "" {
		return nil, ErrLegacyAccount
	}
	if bcrypt.CompareHashAndPassword([]byte(customer.CredentialHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(RoleCustomer, customer.ID), nil
}

// StartCustomerSession opens a session for a freshly registered customer
// without re-verifying the password.
func (s *Service) StartCustomerSession(c *domain.Customer) *Session {
	return s.startSession(RoleCustomer, c.ID)
}

func (s *Service) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// SessionByToken resolves a bearer token. Expired sessions are evicted and
// reported as expired rather than unknown.
func (s *Service) SessionByToken(token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrLoginRequired
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return nil, ErrSessionExpired
	}
	return sess, nil
}

func (s *Service) startSession(role Role, customerID int) *Session {
	sess := &Session{
		Token:      uuid.NewString(),
		Role:       role,
		CustomerID: customerID,
		ExpiresAt:  time.Now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	return sess
}

// HashPassword hashes a raw password for storage. Plain text is never
// persisted.
func HashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
