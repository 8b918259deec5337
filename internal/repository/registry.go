package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dip051030/flightbooking/internal/domain"
)

// Registry is the in-memory canonical store for customers, flights and
// bookings. It owns the collections; the back-references held by Customer and
// Flight are kept in sync by the services, not here.
//
// The embedded mutex guards every mutating workflow end to end
// (validate, mutate, persist). Services lock it for the whole operation so the
// capacity check-and-insert can never interleave.
type Registry struct {
	mu sync.Mutex

	customers map[int]*domain.Customer
	flights   map[int]*domain.Flight
	bookings  []*domain.Booking

	nextBookingID int
}

func NewRegistry() *Registry {
	return &Registry{
		customers:     make(map[int]*domain.Customer),
		flights:       make(map[int]*domain.Flight),
		nextBookingID: 1,
	}
}

func (r *Registry) Lock()   { r.mu.Lock() }
func (r *Registry) Unlock() { r.mu.Unlock() }

// ---------- customers ----------

// AddCustomer inserts a customer keyed by id. Duplicate ids are rejected:
// silent overwrite would corrupt a ledger.
func (r *Registry) AddCustomer(c *domain.Customer) error {
	if _, ok := r.customers[c.ID]; ok {
		return &domain.ValidationError{Msg: fmt.Sprintf("customer id %d already exists", c.ID)}
	}
	r.customers[c.ID] = c
	return nil
}

// CustomerByID returns the customer regardless of its deleted flag. Callers
// decide whether deleted status matters for their operation.
func (r *Registry) CustomerByID(id int) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "customer", ID: id}
	}
	return c, nil
}

// CustomerByEmail finds a non-deleted customer by login email.
func (r *Registry) CustomerByEmail(email string) (*domain.Customer, bool) {
	for _, id := range sortedKeys(r.customers) {
		c := r.customers[id]
		if !c.Deleted && c.Email == email {
			return c, true
		}
	}
	return nil, false
}

// Customers returns non-deleted customers in ascending-id order. The ordering
// is a stable contract; listings and iteration-dependent callers rely on it.
func (r *Registry) Customers() []*domain.Customer {
	var out []*domain.Customer
	for _, id := range sortedKeys(r.customers) {
		if c := r.customers[id]; !c.Deleted {
			out = append(out, c)
		}
	}
	return out
}

// AllCustomers returns every customer including soft-deleted ones, in
// ascending-id order. The durable store persists this view so history is
// never lost.
func (r *Registry) AllCustomers() []*domain.Customer {
	out := make([]*domain.Customer, 0, len(r.customers))
	for _, id := range sortedKeys(r.customers) {
		out = append(out, r.customers[id])
	}
	return out
}

// DropCustomer removes a customer from the canonical store. Customers are
// only ever soft-deleted; this exists solely so a failed persist of a fresh
// add can be rolled back.
func (r *Registry) DropCustomer(id int) {
	delete(r.customers, id)
}

// NextCustomerID returns max id + 1 over all customers, deleted included.
func (r *Registry) NextCustomerID() int {
	max := 0
	for id := range r.customers {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// ---------- flights ----------

func (r *Registry) AddFlight(f *domain.Flight) error {
	if _, ok := r.flights[f.ID]; ok {
		return &domain.ValidationError{Msg: fmt.Sprintf("flight id %d already exists", f.ID)}
	}
	r.flights[f.ID] = f
	return nil
}

// FlightByID returns the flight regardless of its deleted flag.
func (r *Registry) FlightByID(id int) (*domain.Flight, error) {
	f, ok := r.flights[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "flight", ID: id}
	}
	return f, nil
}

// Flights returns non-deleted flights in ascending-id order.
func (r *Registry) Flights() []*domain.Flight {
	var out []*domain.Flight
	for _, id := range sortedKeys(r.flights) {
		if f := r.flights[id]; !f.Deleted {
			out = append(out, f)
		}
	}
	return out
}

// AllFlights returns every flight including soft-deleted ones, in
// ascending-id order.
func (r *Registry) AllFlights() []*domain.Flight {
	out := make([]*domain.Flight, 0, len(r.flights))
	for _, id := range sortedKeys(r.flights) {
		out = append(out, r.flights[id])
	}
	return out
}

// DropFlight is the rollback counterpart of AddFlight, like DropCustomer.
func (r *Registry) DropFlight(id int) {
	delete(r.flights, id)
}

func (r *Registry) NextFlightID() int {
	max := 0
	for id := range r.flights {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// ---------- bookings ----------

func (r *Registry) AddBooking(b *domain.Booking) error {
	for _, held := range r.bookings {
		if held.ID == b.ID {
			return &domain.ValidationError{Msg: fmt.Sprintf("booking id %d already exists", b.ID)}
		}
	}
	r.bookings = append(r.bookings, b)
	if b.ID >= r.nextBookingID {
		r.nextBookingID = b.ID + 1
	}
	return nil
}

// Bookings returns all bookings in insertion order as a read-only copy.
func (r *Registry) Bookings() []*domain.Booking {
	out := make([]*domain.Booking, len(r.bookings))
	copy(out, r.bookings)
	return out
}

func (r *Registry) BookingByID(id int) (*domain.Booking, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, &domain.BookingNotFoundError{BookingID: id}
}

// RemoveBooking removes by identity from the canonical list only. The caller
// is responsible for also detaching the booking from its customer and flight.
func (r *Registry) RemoveBooking(b *domain.Booking) {
	for i, held := range r.bookings {
		if held == b {
			r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
			return
		}
	}
}

// NextBookingID hands out engine-assigned booking ids. Booking ids are not
// persisted; they are renumbered from 1 on every load.
func (r *Registry) NextBookingID() int {
	id := r.nextBookingID
	r.nextBookingID++
	return id
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
