package storage

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dip051030/flightbooking/internal/domain"
	"github.com/dip051030/flightbooking/internal/repository"
)

const (
	flightsFile   = "flights.txt"
	customersFile = "customers.txt"
	bookingsFile  = "bookings.txt"

	// fieldSep delimits flight and customer records; bookingSep delimits
	// booking records. Both are fixed wire formats shared with earlier
	// versions of the data files.
	fieldSep   = "::"
	bookingSep = "|"
)

// Store persists the three entity collections as line-oriented flat files
// under a single data directory. Each file is independent; there is no
// cross-file transaction.
type Store struct {
	dir string
	log *slog.Logger
}

func New(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{dir: dir, log: log}
}

func (s *Store) flightsPath() string   { return filepath.Join(s.dir, flightsFile) }
func (s *Store) customersPath() string { return filepath.Join(s.dir, customersFile) }
func (s *Store) bookingsPath() string  { return filepath.Join(s.dir, bookingsFile) }

// SkippedLine records one stored line that did not survive loading.
type SkippedLine struct {
	File   string
	Line   int
	Reason string
}

// LoadReport collects per-line skips so the caller can inspect what a load
// dropped. Skips are logged as warnings, never raised as errors.
type LoadReport struct {
	Skipped []SkippedLine
}

func (r *LoadReport) skip(log *slog.Logger, file string, line int, reason string) {
	r.Skipped = append(r.Skipped, SkippedLine{File: file, Line: line, Reason: reason})
	log.Warn("skipping stored record", "file", file, "line", line, "reason", reason)
}

// Load populates the registry from the data directory. A missing file is an
// empty initial collection, not an error. Customers and flights load first;
// bookings load last and are linked against them, with unresolvable
// references skipped.
func (s *Store) Load(reg *repository.Registry) (*LoadReport, error) {
	report := &LoadReport{}
	if err := s.loadCustomers(reg, report); err != nil {
		return nil, err
	}
	if err := s.loadFlights(reg, report); err != nil {
		return nil, err
	}
	if err := s.loadBookings(reg, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Store) loadFlights(reg *repository.Registry, report *LoadReport) error {
	return s.readLines(s.flightsPath(), func(lineNum int, line string) {
		f, err := parseFlightLine(flightsFile, lineNum, line)
		if err != nil {
			report.skip(s.log, flightsFile, lineNum, err.Error())
			return
		}
		if err := reg.AddFlight(f); err != nil {
			report.skip(s.log, flightsFile, lineNum, err.Error())
		}
	})
}

func (s *Store) loadCustomers(reg *repository.Registry, report *LoadReport) error {
	return s.readLines(s.customersPath(), func(lineNum int, line string) {
		c, err := parseCustomerLine(customersFile, lineNum, line)
		if err != nil {
			report.skip(s.log, customersFile, lineNum, err.Error())
			return
		}
		if err := reg.AddCustomer(c); err != nil {
			report.skip(s.log, customersFile, lineNum, err.Error())
		}
	})
}

func (s *Store) loadBookings(reg *repository.Registry, report *LoadReport) error {
	return s.readLines(s.bookingsPath(), func(lineNum int, line string) {
		rec, err := parseBookingLine(bookingsFile, lineNum, line)
		if err != nil {
			report.skip(s.log, bookingsFile, lineNum, err.Error())
			return
		}
		customer, err := reg.CustomerByID(rec.customerID)
		if err != nil {
			report.skip(s.log, bookingsFile, lineNum, err.Error())
			return
		}
		flight, err := reg.FlightByID(rec.flightID)
		if err != nil {
			report.skip(s.log, bookingsFile, lineNum, err.Error())
			return
		}

		// Ids are not persisted; bookings are renumbered in file order.
		// The link rebuild bypasses the capacity check: the persisted
		// state is history, not a new reservation.
		b := domain.NewBooking(reg.NextBookingID(), customer, flight, rec.bookingDate)
		customer.AddBooking(b)
		flight.AddPassenger(customer)
		if err := reg.AddBooking(b); err != nil {
			customer.RemoveBooking(b)
			flight.RemovePassenger(customer)
			report.skip(s.log, bookingsFile, lineNum, err.Error())
		}
	})
}

func (s *Store) readLines(path string, handle func(lineNum int, line string)) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &domain.PersistenceError{Op: "open " + filepath.Base(path), Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if isBlank(line) {
			continue
		}
		handle(lineNum, line)
	}
	if err := scanner.Err(); err != nil {
		return &domain.PersistenceError{Op: "read " + filepath.Base(path), Err: err}
	}
	return nil
}

// SaveFlights writes the unfiltered flight collection, soft-deleted records
// included, so history is not lost.
func (s *Store) SaveFlights(ctx context.Context, reg *repository.Registry) error {
	var buf []byte
	for _, f := range reg.AllFlights() {
		buf = append(buf, formatFlightLine(f)...)
		buf = append(buf, '\n')
	}
	if err := writeFileAtomic(s.flightsPath(), buf); err != nil {
		return &domain.PersistenceError{Op: "store flights", Err: err}
	}
	return nil
}

// SaveCustomers writes the unfiltered customer collection.
func (s *Store) SaveCustomers(ctx context.Context, reg *repository.Registry) error {
	var buf []byte
	for _, c := range reg.AllCustomers() {
		buf = append(buf, formatCustomerLine(c)...)
		buf = append(buf, '\n')
	}
	if err := writeFileAtomic(s.customersPath(), buf); err != nil {
		return &domain.PersistenceError{Op: "store customers", Err: err}
	}
	return nil
}

// SaveBookings writes all bookings in insertion order.
func (s *Store) SaveBookings(ctx context.Context, reg *repository.Registry) error {
	var buf []byte
	for _, b := range reg.Bookings() {
		buf = append(buf, formatBookingLine(b)...)
		buf = append(buf, '\n')
	}
	if err := writeFileAtomic(s.bookingsPath(), buf); err != nil {
		return &domain.PersistenceError{Op: "store bookings", Err: err}
	}
	return nil
}
