package domain

import "fmt"

// NotFoundError reports a failed lookup by id.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("there is no %s with id %d", e.Entity, e.ID)
}

// BookingNotFoundError reports a booking lookup failure, either by booking id
// or by (customer, flight) pair.
type BookingNotFoundError struct {
	BookingID  int
	CustomerID int
	FlightID   int
}

func (e *BookingNotFoundError) Error() string {
	if e.BookingID != 0 {
		return fmt.Sprintf("booking with id %d not found", e.BookingID)
	}
	return fmt.Sprintf("no booking for customer %d on flight %d", e.CustomerID, e.FlightID)
}

// ValidationError reports a precondition failure detected before any mutation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

type FlightDeletedError struct {
	FlightID int
}

func (e *FlightDeletedError) Error() string {
	return fmt.Sprintf("cannot book a deleted flight (id %d)", e.FlightID)
}

type CustomerDeletedError struct {
	CustomerID int
}

func (e *CustomerDeletedError) Error() string {
	return fmt.Sprintf("cannot make a booking for a deleted customer (id %d)", e.CustomerID)
}

// FlightFullError names the capacity that was hit.
type FlightFullError struct {
	FlightNumber string
	Capacity     int
}

func (e *FlightFullError) Error() string {
	return fmt.Sprintf("flight %s is at full capacity (%d seats)", e.FlightNumber, e.Capacity)
}

// PersistenceError wraps a failure while storing or loading a collection.
// In-memory state is guaranteed consistent when one is returned from an
// engine operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// FormatError describes a stored record that could not be parsed.
type FormatError struct {
	File string
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s line %d: %s", e.File, e.Line, e.Msg)
}
