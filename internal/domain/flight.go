package domain

import (
	"sort"
	"time"
)

// DefaultCapacity is assumed for flights loaded from legacy records that
// predate the capacity field.
const DefaultCapacity = 100

type Flight struct {
	ID            int
	FlightNumber  string
	Origin        string
	Destination   string
	DepartureDate time.Time
	Capacity      int
	Price         float64
	Deleted       bool

	passengers map[int]*Customer
}

func NewFlight(id int, flightNumber, origin, destination string, departureDate time.Time, capacity int, price float64) *Flight {
	return &Flight{
		ID:            id,
		FlightNumber:  flightNumber,
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departureDate,
		Capacity:      capacity,
		Price:         price,
		passengers:    make(map[int]*Customer),
	}
}

// AddPassengerSafe inserts the customer only if the flight is not deleted,
// has a free seat and does not already carry the customer. The check and the
// insert happen under whatever lock the caller holds; the method itself is a
// single step so capacity can never be observed as free twice for one seat.
func (f *Flight) AddPassengerSafe(c *Customer) bool {
	if f.Deleted {
		return false
	}
	if len(f.passengers) >= f.Capacity {
		return false
	}
	if _, ok := f.passengers[c.ID]; ok {
		return false
	}
	f.passengers[c.ID] = c
	return true
}

// AddPassenger inserts without capacity or deleted checks. Only the storage
// layer uses it, when rebuilding links from persisted bookings.
func (f *Flight) AddPassenger(c *Customer) {
	f.passengers[c.ID] = c
}

func (f *Flight) RemovePassenger(c *Customer) {
	delete(f.passengers, c.ID)
}

func (f *Flight) HasPassenger(customerID int) bool {
	_, ok := f.passengers[customerID]
	return ok
}

// Passengers returns the passenger set ordered by customer id.
func (f *Flight) Passengers() []*Customer {
	out := make([]*Customer, 0, len(f.passengers))
	for _, c := range f.passengers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *Flight) PassengerCount() int {
	return len(f.passengers)
}

func (f *Flight) AvailableSeats() int {
	return f.Capacity - len(f.passengers)
}
