package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dip051030/flightbooking/internal/auth"
	"github.com/dip051030/flightbooking/internal/domain"
	"github.com/dip051030/flightbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) SaveCustomers(ctx context.Context, reg *repository.Registry) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

type MockSessionStarter struct {
	mock.Mock
}

func (m *MockSessionStarter) StartCustomerSession(c *domain.Customer) *auth.Session {
	args := m.Called(c)
	return args.Get(0).(*auth.Session)
}

func adminSession() *auth.Session {
	return &auth.Session{Token: "t-admin", Role: auth.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)}
}

func customerSession(customerID int) *auth.Session {
	return &auth.Session{Token: "t-cust", Role: auth.RoleCustomer, CustomerID: customerID, ExpiresAt: time.Now().Add(time.Hour)}
}

func validInput() AddCustomerInput {
	return AddCustomerInput{
		Name:     "Alice",
		Phone:    "0700000001",
		Email:    "alice@example.com",
		Password: "s3cret",
	}
}

func TestCustomerService_Add(t *testing.T) {
	reg := repository.NewRegistry()
	persister := &MockPersister{}
	persister.On("SaveCustomers", mock.Anything, reg).Return(nil).Once()
	service := NewCustomerService(reg, persister, &MockSessionStarter{}, nil)

	c, err := service.Add(context.Background(), adminSession(), validInput())

	assert.NoError(t, err)
	assert.Equal(t, 1, c.ID)
	assert.NotEqual(t, "s3cret", c.CredentialHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(c.CredentialHash), []byte("s3cret")))
	persister.AssertExpectations(t)
}

func TestCustomerService_Add_AdminOnly(t *testing.T) {
	service := NewCustomerService(repository.NewRegistry(), &MockPersister{}, &MockSessionStarter{}, nil)

	_, err := service.Add(context.Background(), customerSession(1), validInput())
	assert.ErrorIs(t, err, auth.ErrAdminRequired)

	_, err = service.Add(context.Background(), nil, validInput())
	assert.ErrorIs(t, err, auth.ErrLoginRequired)
}

func TestCustomerService_Add_Validation(t *testing.T) {
	service := NewCustomerService(repository.NewRegistry(), &MockPersister{}, &MockSessionStarter{}, nil)
	ctx := context.Background()
	var validation *domain.ValidationError

	noName := validInput()
	noName.Name = ""
	_, err := service.Add(ctx, adminSession(), noName)
	assert.ErrorAs(t, err, &validation)

	noEmail := validInput()
	noEmail.Email = ""
	_, err = service.Add(ctx, adminSession(), noEmail)
	assert.ErrorAs(t, err, &validation)

	noPassword := validInput()
	noPassword.Password = ""
	_, err = service.Add(ctx, adminSession(), noPassword)
	assert.ErrorAs(t, err, &validation)
}

func TestCustomerService_Add_DuplicateEmail(t *testing.T) {
	reg := repository.NewRegistry()
	persister := &MockPersister{}
	persister.On("SaveCustomers", mock.Anything, reg).Return(nil).Once()
	service := NewCustomerService(reg, persister, &MockSessionStarter{}, nil)

	ctx := context.Background()
	_, err := service.Add(ctx, adminSession(), validInput())
	assert.NoError(t, err)

	dup := validInput()
	dup.Email = "ALICE@example.com"
	_, err = service.Add(ctx, adminSession(), dup)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCustomerService_Add_DeletedEmailReusable(t *testing.T) {
	reg := repository.NewRegistry()
	persister := &MockPersister{}
	persister.On("SaveCustomers", mock.Anything, reg).Return(nil).Times(3)
	service := NewCustomerService(reg, persister, &MockSessionStarter{}, nil)

	ctx := context.Background()
	c, err := service.Add(ctx, adminSession(), validInput())
	assert.NoError(t, err)
	assert.NoError(t, service.Delete(ctx, adminSession(), c.ID))

	// Uniqueness only binds active customers.
	again, err := service.Add(ctx, adminSession(), validInput())
	assert.NoError(t, err)
	assert.Equal(t, 2, again.ID)
}

func TestCustomerService_Add_PersistFailureRollsBack(t *testing.T) {
	reg := repository.NewRegistry()
	persister := &MockPersister{}
	persister.On("SaveCustomers", mock.Anything, reg).Return(
		&domain.PersistenceError{Op: "store customers", Err: errors.New("disk full")}).Once()
	service := NewCustomerService(reg, persister, &MockSessionStarter{}, nil)

	_, err := service.Add(context.Background(), adminSession(), validInput())

	var persistence *domain.PersistenceError
	assert.ErrorAs(t, err, &persistence)
	assert.Empty(t, reg.AllCustomers())
	assert.Equal(t, 1, reg.NextCustomerID())
}

func TestCustomerService_Register(t *testing.T) {
	reg := repository.NewRegistry()
	persister := &MockPersister{}
	persister.On("SaveCustomers", mock.Anything, reg).Return(nil).Once()
	sessions := &MockSessionStarter{}
	sessions.On("StartCustomerSession", mock.Anything).Return(
		&auth.Session{Token: "fresh", Role: auth.RoleCustomer, CustomerID: 1}).Once()
	service := NewCustomerService(reg, persister, sessions, nil)

	c, sess, err := service.Register(context.Background(), validInput())

	assert.NoError(t, err)
	assert.Equal(t, 1, c.ID)
	assert.Equal(t, "fresh", sess.Token)
	assert.Equal(t, c.ID, sess.CustomerID)
	sessions.AssertExpectations(t)
}

func TestCustomerService_Register_InvalidInputOpensNoSession(t *testing.T) {
	sessions := &MockSessionStarter{}
	service := NewCustomerService(repository.NewRegistry(), &MockPersister{}, sessions, nil)

	bad := validInput()
	bad.Password = ""
	_, sess, err := service.Register(context.Background(), bad)

	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Nil(t, sess)
	sessions.AssertNotCalled(t, "StartCustomerSession")
}

func TestCustomerService_GetByID_Authorization(t *testing.T) {
	reg := repository.NewRegistry()
	c := domain.NewCustomer(1, "Alice", "0700000001", "alice@example.com", "hash")
	assert.NoError(t, reg.AddCustomer(c))
	service := NewCustomerService(reg, &MockPersister{}, &MockSessionStarter{}, nil)

	ctx := context.Background()
	got, err := service.GetByID(ctx, adminSession(), 1)
	assert.NoError(t, err)
	assert.Equal(t, c, got)

	got, err = service.GetByID(ctx, customerSession(1), 1)
	assert.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = service.GetByID(ctx, customerSession(2), 1)
	assert.ErrorIs(t, err, auth.ErrAdminRequired)

	_, err = service.GetByID(ctx, nil, 1)
	assert.ErrorIs(t, err, auth.ErrLoginRequired)
}

func TestCustomerService_List_AdminOnly(t *testing.T) {
	reg := repository.NewRegistry()
	assert.NoError(t, reg.AddCustomer(domain.NewCustomer(1, "Alice", "p", "alice@example.com", "h")))
	service := NewCustomerService(reg, &MockPersister{}, &MockSessionStarter{}, nil)

	ctx := context.Background()
	listed, err := service.List(ctx, adminSession())
	assert.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = service.List(ctx, customerSession(1))
	assert.ErrorIs(t, err, auth.ErrAdminRequired)
}

func TestCustomerService_Delete_PersistFailureRollsBack(t *testing.T) {
	reg := repository.NewRegistry()
	c := domain.NewCustomer(1, "Alice", "0700000001", "alice@example.com", "hash")
	assert.NoError(t, reg.AddCustomer(c))

	persister := &MockPersister{}
	persister.On("SaveCustomers", mock.Anything, reg).Return(
		&domain.PersistenceError{Op: "store customers", Err: errors.New("disk full")}).Once()
	service := NewCustomerService(reg, persister, &MockSessionStarter{}, nil)

	err := service.Delete(context.Background(), adminSession(), 1)

	var persistence *domain.PersistenceError
	assert.ErrorAs(t, err, &persistence)
	assert.False(t, c.Deleted)
}
