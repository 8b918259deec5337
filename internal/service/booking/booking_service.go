package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dip051030/flightbooking/internal/auth"
	"github.com/dip051030/flightbooking/internal/domain"
	"github.com/dip051030/flightbooking/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, sess *auth.Session, customerID, flightID int) (*domain.Booking, error)
	CancelBooking(ctx context.Context, sess *auth.Session, customerID, flightID int) error
	RebookBooking(ctx context.Context, sess *auth.Session, bookingID, newFlightID int) (*domain.Booking, error)
	ListBookings(ctx context.Context, sess *auth.Session) ([]*domain.Booking, error)
}

// Persister stores the booking collection. Persistence may block; a failed
// write surfaces as a *domain.PersistenceError and is never retried here.
type Persister interface {
	SaveBookings(ctx context.Context, reg *repository.Registry) error
}

// BookingService is the capacity-safe reservation engine. Every operation is
// atomic with respect to the triad (customer bookings, flight passengers,
// registry bookings): it either completes in all three views or in none,
// including when the durable store fails after the in-memory mutation.
type BookingService struct {
	reg       *repository.Registry
	persister Persister
	log       *slog.Logger
}

func NewBookingService(reg *repository.Registry, persister Persister, log *slog.Logger) *BookingService {
	if log == nil {
		log = slog.Default()
	}
	return &BookingService{reg: reg, persister: persister, log: log}
}

// CreateBooking books a seat for the customer. Administrators may book for
// any customer; a customer session always books for itself, whatever
// customerID says.
func (s *BookingService) CreateBooking(ctx context.Context, sess *auth.Session, customerID, flightID int) (*domain.Booking, error) {
	if err := auth.RequireLogin(sess); err != nil {
		return nil, err
	}

	s.reg.Lock()
	defer s.reg.Unlock()

	if sess.IsCustomer() {
		customerID = sess.CustomerID
	}
	customer, err := s.reg.CustomerByID(customerID)
	if err != nil {
		return nil, err
	}
	flight, err := s.reg.FlightByID(flightID)
	if err != nil {
		return nil, err
	}

	if flight.Deleted {
		return nil, &domain.FlightDeletedError{FlightID: flight.ID}
	}
	if customer.Deleted {
		return nil, &domain.CustomerDeletedError{CustomerID: customer.ID}
	}
	if flight.HasPassenger(customer.ID) {
		return nil, &domain.ValidationError{Msg: fmt.Sprintf("customer %d is already booked on flight %d", customer.ID, flight.ID)}
	}

	// Capacity check and insert are one step under the registry lock.
	if !flight.AddPassengerSafe(customer) {
		return nil, &domain.FlightFullError{FlightNumber: flight.FlightNumber, Capacity: flight.Capacity}
	}

	b := domain.NewBooking(s.reg.NextBookingID(), customer, flight, time.Now())
	customer.AddBooking(b)
	if err := s.reg.AddBooking(b); err != nil {
		customer.RemoveBooking(b)
		flight.RemovePassenger(customer)
		return nil, err
	}

	if err := s.persister.SaveBookings(ctx, s.reg); err != nil {
		// Undo all three views: no booking may be left half-recorded.
		customer.RemoveBooking(b)
		flight.RemovePassenger(customer)
		s.reg.RemoveBooking(b)
		s.log.Error("booking rolled back, store failed", "booking_id", b.ID, "err", err)
		return nil, err
	}

	s.log.Info("booking created",
		"booking_id", b.ID, "customer_id", customer.ID, "flight_id", flight.ID,
		"seats_left", flight.AvailableSeats())
	return b, nil
}

// CancelBooking removes the first booking in the customer's sequence that
// targets the flight. The in-memory removal is rolled back when persistence
// fails, same as CreateBooking rolls back its insert.
func (s *BookingService) CancelBooking(ctx context.Context, sess *auth.Session, customerID, flightID int) error {
	if err := auth.RequireLogin(sess); err != nil {
		return err
	}

	s.reg.Lock()
	defer s.reg.Unlock()

	if sess.IsCustomer() {
		customerID = sess.CustomerID
	}
	customer, err := s.reg.CustomerByID(customerID)
	if err != nil {
		return err
	}
	flight, err := s.reg.FlightByID(flightID)
	if err != nil {
		return err
	}

	var target *domain.Booking
	for _, b := range customer.Bookings() {
		if b.Flight.ID == flightID {
			target = b
			break
		}
	}
	if target == nil {
		return &domain.BookingNotFoundError{CustomerID: customerID, FlightID: flightID}
	}

	customer.RemoveBooking(target)
	flight.RemovePassenger(customer)
	s.reg.RemoveBooking(target)

	if err := s.persister.SaveBookings(ctx, s.reg); err != nil {
		customer.AddBooking(target)
		flight.AddPassenger(customer)
		_ = s.reg.AddBooking(target)
		s.log.Error("cancellation rolled back, store failed", "booking_id", target.ID, "err", err)
		return err
	}

	s.log.Info("booking cancelled", "booking_id", target.ID, "customer_id", customer.ID, "flight_id", flight.ID)
	return nil
}

// RebookBooking moves an existing booking to another flight. The new flight
// gets the same capacity-checked insert a fresh booking would.
func (s *BookingService) RebookBooking(ctx context.Context, sess *auth.Session, bookingID, newFlightID int) (*domain.Booking, error) {
	if err := auth.RequireAdmin(sess); err != nil {
		return nil, err
	}

	s.reg.Lock()
	defer s.reg.Unlock()

	b, err := s.reg.BookingByID(bookingID)
	if err != nil {
		return nil, err
	}
	newFlight, err := s.reg.FlightByID(newFlightID)
	if err != nil {
		return nil, err
	}
	oldFlight := b.Flight

	if newFlight.ID == oldFlight.ID {
		return nil, &domain.ValidationError{Msg: fmt.Sprintf("booking %d is already on flight %d", b.ID, newFlight.ID)}
	}
	if newFlight.Deleted {
		return nil, &domain.FlightDeletedError{FlightID: newFlight.ID}
	}
	if newFlight.HasPassenger(b.Customer.ID) {
		return nil, &domain.ValidationError{Msg: fmt.Sprintf("customer %d is already booked on flight %d", b.Customer.ID, newFlight.ID)}
	}
	if !newFlight.AddPassengerSafe(b.Customer) {
		return nil, &domain.FlightFullError{FlightNumber: newFlight.FlightNumber, Capacity: newFlight.Capacity}
	}

	oldFlight.RemovePassenger(b.Customer)
	b.Flight = newFlight

	if err := s.persister.SaveBookings(ctx, s.reg); err != nil {
		b.Flight = oldFlight
		oldFlight.AddPassenger(b.Customer)
		newFlight.RemovePassenger(b.Customer)
		s.log.Error("rebook rolled back, store failed", "booking_id", b.ID, "err", err)
		return nil, err
	}

	s.log.Info("booking rebooked", "booking_id", b.ID, "old_flight_id", oldFlight.ID, "new_flight_id", newFlight.ID)
	return b, nil
}

// ListBookings returns all bookings for administrators and only the caller's
// own bookings for customer sessions.
func (s *BookingService) ListBookings(ctx context.Context, sess *auth.Session) ([]*domain.Booking, error) {
	if err := auth.RequireLogin(sess); err != nil {
		return nil, err
	}

	s.reg.Lock()
	defer s.reg.Unlock()

	if sess.IsAdmin() {
		return s.reg.Bookings(), nil
	}
	customer, err := s.reg.CustomerByID(sess.CustomerID)
	if err != nil {
		return nil, err
	}
	return customer.Bookings(), nil
}

var _ BookingUseCase = (*BookingService)(nil)
