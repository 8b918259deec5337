package customers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dip051030/flightbooking/internal/auth"
	"github.com/dip051030/flightbooking/internal/domain"
	"github.com/dip051030/flightbooking/internal/repository"
)

type CustomerUseCase interface {
	List(ctx context.Context, sess *auth.Session) ([]*domain.Customer, error)
	GetByID(ctx context.Context, sess *auth.Session, id int) (*domain.Customer, error)
	Add(ctx context.Context, sess *auth.Session, input AddCustomerInput) (*domain.Customer, error)
	Register(ctx context.Context, input AddCustomerInput) (*domain.Customer, *auth.Session, error)
	Delete(ctx context.Context, sess *auth.Session, id int) error
}

type Persister interface {
	SaveCustomers(ctx context.Context, reg *repository.Registry) error
}

// SessionStarter opens a live session for a freshly registered customer.
type SessionStarter interface {
	StartCustomerSession(c *domain.Customer) *auth.Session
}

type AddCustomerInput struct {
	Name     string
	Phone    string
	Email    string
	Password string
}

type CustomerService struct {
	reg       *repository.Registry
	persister Persister
	sessions  SessionStarter
	log       *slog.Logger
}

func NewCustomerService(reg *repository.Registry, persister Persister, sessions SessionStarter, log *slog.Logger) *CustomerService {
	if log == nil {
		log = slog.Default()
	}
	return &CustomerService{reg: reg, persister: persister, sessions: sessions, log: log}
}

// List returns non-deleted customers in ascending-id order. Admin only.
func (s *CustomerService) List(ctx context.Context, sess *auth.Session) ([]*domain.Customer, error) {
	if err := auth.RequireAdmin(sess); err != nil {
		return nil, err
	}
	s.reg.Lock()
	defer s.reg.Unlock()
	return s.reg.Customers(), nil
}

// GetByID returns a customer, soft-deleted or not. Admins may look up anyone;
// a customer session only itself.
func (s *CustomerService) GetByID(ctx context.Context, sess *auth.Session, id int) (*domain.Customer, error) {
	if err := auth.RequireLogin(sess); err != nil {
		return nil, err
	}
	if sess.IsCustomer() && sess.CustomerID != id {
		return nil, auth.ErrAdminRequired
	}
	s.reg.Lock()
	defer s.reg.Unlock()
	return s.reg.CustomerByID(id)
}

// Add creates a customer with hashed credentials. Admin only.
func (s *CustomerService) Add(ctx context.Context, sess *auth.Session, input AddCustomerInput) (*domain.Customer, error) {
	if err := auth.RequireAdmin(sess); err != nil {
		return nil, err
	}
	return s.create(ctx, input)
}

// Register is the self-service path: it creates the customer and opens a
// session for it, so a new user is logged in right after registering.
func (s *CustomerService) Register(ctx context.Context, input AddCustomerInput) (*domain.Customer, *auth.Session, error) {
	c, err := s.create(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	return c, s.sessions.StartCustomerSession(c), nil
}

func (s *CustomerService) create(ctx context.Context, input AddCustomerInput) (*domain.Customer, error) {
	if input.Name == "" {
		return nil, &domain.ValidationError{Msg: "name is required"}
	}
	if input.Email == "" {
		return nil, &domain.ValidationError{Msg: "email is required"}
	}
	if input.Password == "" {
		return nil, &domain.ValidationError{Msg: "password is required"}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.reg.Lock()
	defer s.reg.Unlock()

	// Email doubles as the login identifier and must stay unique among
	// active customers.
	for _, existing := range s.reg.Customers() {
		if strings.EqualFold(existing.Email, input.Email) {
			return nil, &domain.ValidationError{Msg: fmt.Sprintf("email %s is already registered", input.Email)}
		}
	}

	c := domain.NewCustomer(s.reg.NextCustomerID(), input.Name, input.Phone, input.Email, hash)
	if err := s.reg.AddCustomer(c); err != nil {
		return nil, err
	}

	if err := s.persister.SaveCustomers(ctx, s.reg); err != nil {
		s.reg.DropCustomer(c.ID)
		s.log.Error("customer add rolled back, store failed", "customer_id", c.ID, "err", err)
		return nil, err
	}

	s.log.Info("customer added", "customer_id", c.ID, "email", c.Email)
	return c, nil
}

// Delete soft-deletes a customer, preserving bookings as history. Admin only.
func (s *CustomerService) Delete(ctx context.Context, sess *auth.Session, id int) error {
	if err := auth.RequireAdmin(sess); err != nil {
		return err
	}

	s.reg.Lock()
	defer s.reg.Unlock()

	c, err := s.reg.CustomerByID(id)
	if err != nil {
		return err
	}
	if c.Deleted {
		return &domain.ValidationError{Msg: fmt.Sprintf("customer %d is already deleted", id)}
	}

	c.Deleted = true
	if err := s.persister.SaveCustomers(ctx, s.reg); err != nil {
		c.Deleted = false
		s.log.Error("customer delete rolled back, store failed", "customer_id", id, "err", err)
		return err
	}

	s.log.Info("customer deleted", "customer_id", id)
	return nil
}

var _ CustomerUseCase = (*CustomerService)(nil)
