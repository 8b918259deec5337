package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dip051030/flightbooking/internal/domain"
)

// Flight record: id::flightNumber::origin::destination::departureDate::capacity::price::deleted
// The last three fields are optional; files written by earlier format
// versions lack them and take the documented defaults.
func parseFlightLine(file string, lineNum int, line string) (*domain.Flight, error) {
	parts := strings.Split(line, fieldSep)
	if len(parts) < 5 {
		return nil, &domain.FormatError{File: file, Line: lineNum, Msg: fmt.Sprintf("expected at least 5 fields, got %d", len(parts))}
	}

	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, &domain.FormatError{File: file, Line: lineNum, Msg: "invalid flight id " + strconv.Quote(parts[0])}
	}
	departure, err := time.Parse(time.DateOnly, parts[4])
	if err != nil {
		return nil, &domain.FormatError{File: file, Line: lineNum, Msg: "invalid departure date " + strconv.Quote(parts[4])}
	}

	capacity := domain.DefaultCapacity
	price := 0.0
	deleted := false

	if len(parts) > 5 && parts[5] != "" {
		capacity, err = strconv.Atoi(parts[5])
		if err != nil {
			return nil, &domain.FormatError{File: file, Line: lineNum, Msg: "invalid capacity " + strconv.Quote(parts[5])}
		}
	}
	if len(parts) > 6 && parts[6] != "" {
		price, err = strconv.ParseFloat(parts[6], 64)
		if err != nil {
			return nil, &domain.FormatError{File: file, Line: lineNum, Msg: "invalid price " + strconv.Quote(parts[6])}
		}
	}
	if len(parts) > 7 && parts[7] != "" {
		deleted, err = strconv.ParseBool(parts[7])
		if err != nil {
			return nil, &domain.FormatError{File: file, Line: lineNum, Msg: "invalid deleted flag " + strconv.Quote(parts[7])}
		}
	}

	f := domain.NewFlight(id, parts[1], parts[2], parts[3], departure, capacity, price)
	f.Deleted = deleted
	return f, nil
}

func formatFlightLine(f *domain.Flight) string {
	return strings.Join([]string{
		strconv.Itoa(f.ID),
		f.FlightNumber,
		f.Origin,
		f.Destination,
		f.DepartureDate.Format(time.DateOnly),
		strconv.Itoa(f.Capacity),
		strconv.FormatFloat(f.Price, 'f', -1, 64),
		strconv.FormatBool(f.Deleted),
	}, fieldSep)
}

// Customer record: id::name::phone::email::credentialHash::deleted
// Hash and deleted flag are optional for legacy records.
func parseCustomerLine(file string, lineNum int, line string) (*domain.Customer, error) {
	parts := strings.Split(line, fieldSep)
	if len(parts) < 4 {
		return nil, &domain.FormatError{File: file, Line: lineNum, Msg: fmt.Sprintf("expected at least 4 fields, got %d", len(parts))}
	}

	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, &domain.FormatError{File: file, Line: lineNum, Msg: "invalid customer id " + strconv.Quote(parts[0])}
	}

	hash := ""
	if len(parts) > 4 {
		hash = parts[4]
	}
	deleted := false
	if len(parts) > 5 && parts[5] != "" {
		deleted, err = strconv.ParseBool(parts[5])
		if err != nil {
			return nil, &domain.FormatError{File: file, Line: lineNum, Msg: "invalid deleted flag " + strconv.Quote(parts[5])}
		}
	}

	c := domain.NewCustomer(id, parts[1], parts[2], parts[3], hash)
	c.Deleted = deleted
	return c, nil
}

func formatCustomerLine(c *domain.Customer) string {
	return strings.Join([]string{
		strconv.Itoa(c.ID),
		c.Name,
		c.Phone,
		c.Email,
		c.CredentialHash,
		strconv.FormatBool(c.Deleted),
	}, fieldSep)
}

type bookingRecord struct {
	customerID  int
	flightID    int
	bookingDate time.Time
}

// Booking record: customerId|flightId|bookingDate — all fields required.
func parseBookingLine(file string, lineNum int, line string) (bookingRecord, error) {
	parts := strings.Split(line, bookingSep)
	if len(parts) != 3 {
		return bookingRecord{}, &domain.FormatError{File: file, Line: lineNum, Msg: fmt.Sprintf("expected 3 fields, got %d", len(parts))}
	}

	customerID, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return bookingRecord{}, &domain.FormatError{File: file, Line: lineNum, Msg: "invalid customer id " + strconv.Quote(parts[0])}
	}
	flightID, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return bookingRecord{}, &domain.FormatError{File: file, Line: lineNum, Msg: "invalid flight id " + strconv.Quote(parts[1])}
	}
	bookingDate, err := time.Parse(time.DateOnly, strings.TrimSpace(parts[2]))
	if err != nil {
		return bookingRecord{}, &domain.FormatError{File: file, Line: lineNum, Msg: "invalid booking date " + strconv.Quote(parts[2])}
	}

	return bookingRecord{customerID: customerID, flightID: flightID, bookingDate: bookingDate}, nil
}

func formatBookingLine(b *domain.Booking) string {
	return strings.Join([]string{
		strconv.Itoa(b.Customer.ID),
		strconv.Itoa(b.Flight.ID),
		b.BookingDate.Format(time.DateOnly),
	}, bookingSep)
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
