package domain

import "time"

// Booking is the edge between a Customer and a Flight. A booking present in
// the registry must also appear in its customer's booking sequence, and the
// customer must appear in its flight's passenger set.
type Booking struct {
	ID          int
	Customer    *Customer
	Flight      *Flight
	BookingDate time.Time
}

func NewBooking(id int, customer *Customer, flight *Flight, bookingDate time.Time) *Booking {
	return &Booking{
		ID:          id,
		Customer:    customer,
		Flight:      flight,
		BookingDate: bookingDate,
	}
}
