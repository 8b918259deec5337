package flights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dip051030/flightbooking/internal/domain"
	"github.com/dip051030/flightbooking/internal/repository"
)

// Flight operations are not role-gated: only customer and booking mutation
// paths carry authorization in the current behavior.
type FlightUseCase interface {
	List(ctx context.Context) ([]*domain.Flight, error)
	GetByID(ctx context.Context, id int) (*domain.Flight, error)
	Add(ctx context.Context, input AddFlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int) error
}

type Persister interface {
	SaveFlights(ctx context.Context, reg *repository.Registry) error
}

type AddFlightInput struct {
	FlightNumber  string
	Origin        string
	Destination   string
	DepartureDate time.Time
	Capacity      int
	Price         float64
}

type FlightService struct {
	reg       *repository.Registry
	persister Persister
	log       *slog.Logger
}

func NewFlightService(reg *repository.Registry, persister Persister, log *slog.Logger) *FlightService {
	if log == nil {
		log = slog.Default()
	}
	return &FlightService{reg: reg, persister: persister, log: log}
}

// List returns non-deleted flights in ascending-id order.
func (s *FlightService) List(ctx context.Context) ([]*domain.Flight, error) {
	s.reg.Lock()
	defer s.reg.Unlock()
	return s.reg.Flights(), nil
}

// GetByID resolves a flight whether or not it is soft-deleted.
func (s *FlightService) GetByID(ctx context.Context, id int) (*domain.Flight, error) {
	s.reg.Lock()
	defer s.reg.Unlock()
	return s.reg.FlightByID(id)
}

// Add creates a flight with the next free id and persists the collection.
func (s *FlightService) Add(ctx context.Context, input AddFlightInput) (*domain.Flight, error) {
	if input.FlightNumber == "" {
		return nil, &domain.ValidationError{Msg: "flight number is required"}
	}
	if input.Capacity < 0 {
		return nil, &domain.ValidationError{Msg: "capacity must be positive"}
	}
	if input.Price < 0 {
		return nil, &domain.ValidationError{Msg: "price must not be negative"}
	}
	if input.Capacity == 0 {
		input.Capacity = domain.DefaultCapacity
	}

	s.reg.Lock()
	defer s.reg.Unlock()

	f := domain.NewFlight(s.reg.NextFlightID(), input.FlightNumber, input.Origin, input.Destination,
		input.DepartureDate, input.Capacity, input.Price)
	if err := s.reg.AddFlight(f); err != nil {
		return nil, err
	}

	if err := s.persister.SaveFlights(ctx, s.reg); err != nil {
		s.reg.DropFlight(f.ID)
		s.log.Error("flight add rolled back, store failed", "flight_id", f.ID, "err", err)
		return nil, err
	}

	s.log.Info("flight added", "flight_id", f.ID, "flight_number", f.FlightNumber)
	return f, nil
}

// Delete soft-deletes a flight. The passenger set stays as history; no new
// passengers can be added through the safe path once the flag is set.
func (s *FlightService) Delete(ctx context.Context, id int) error {
	s.reg.Lock()
	defer s.reg.Unlock()

	f, err := s.reg.FlightByID(id)
	if err != nil {
		return err
	}
	if f.Deleted {
		return &domain.ValidationError{Msg: fmt.Sprintf("flight %d is already deleted", id)}
	}

	f.Deleted = true
	if err := s.persister.SaveFlights(ctx, s.reg); err != nil {
		f.Deleted = false
		s.log.Error("flight delete rolled back, store failed", "flight_id", id, "err", err)
		return err
	}

	s.log.Info("flight deleted", "flight_id", id)
	return nil
}

var _ FlightUseCase = (*FlightService)(nil)
