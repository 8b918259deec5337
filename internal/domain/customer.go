package domain

type Customer struct {
	ID    int
	Name  string
	Phone string
	Email string
	// CredentialHash is empty for records created before authentication
	// existed; such customers must re-register to log in.
	CredentialHash string
	Deleted        bool

	bookings []*Booking
}

func NewCustomer(id int, name, phone, email, credentialHash string) *Customer {
	return &Customer{
		ID:             id,
		Name:           name,
		Phone:          phone,
		Email:          email,
		CredentialHash: credentialHash,
	}
}

func (c *Customer) AddBooking(b *Booking) {
	c.bookings = append(c.bookings, b)
}

// RemoveBooking removes by identity and reports whether the booking was held.
func (c *Customer) RemoveBooking(b *Booking) bool {
	for i, held := range c.bookings {
		if held == b {
			c.bookings = append(c.bookings[:i], c.bookings[i+1:]...)
			return true
		}
	}
	return false
}

// Bookings returns the booking sequence in insertion order.
func (c *Customer) Bookings() []*Booking {
	out := make([]*Booking, len(c.bookings))
	copy(out, c.bookings)
	return out
}

// ActiveBookings returns only bookings whose flight is not soft-deleted.
func (c *Customer) ActiveBookings() []*Booking {
	var active []*Booking
	for _, b := range c.bookings {
		if !b.Flight.Deleted {
			active = append(active, b)
		}
	}
	return active
}
