package model

import (
	"net/url"
	"strings"
)

// Booking form field names, in render order.
const (
	FieldName        = "name"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldDestination = "destination"
	FieldDate        = "date"
)

// BookingFields lists the booking form fields in render order.
var BookingFields = []string{FieldName, FieldPhone, FieldEmail, FieldDestination, FieldDate}

// BookingForm is the validated set of traveler supplied fields submitted per
// booking attempt. Empty optional fields are treated as absent.
type BookingForm struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Destination string `json:"destination,omitempty"`
	Date        string `json:"date,omitempty"`
}

// BookingFromValues maps raw form values onto a BookingForm, trimming
// surrounding whitespace.
func BookingFromValues(values map[string]string) BookingForm {
	return BookingForm{
		Name:        strings.TrimSpace(values[FieldName]),
		Phone:       strings.TrimSpace(values[FieldPhone]),
		Email:       strings.TrimSpace(values[FieldEmail]),
		Destination: strings.TrimSpace(values[FieldDestination]),
		Date:        strings.TrimSpace(values[FieldDate]),
	}
}

// Values returns the form as a field name to value map, including empty
// optional fields.
func (b BookingForm) Values() map[string]string {
	return map[string]string{
		FieldName:        b.Name,
		FieldPhone:       b.Phone,
		FieldEmail:       b.Email,
		FieldDestination: b.Destination,
		FieldDate:        b.Date,
	}
}

// Query encodes the populated fields as URL query parameters. Empty fields are
// omitted.
func (b BookingForm) Query() url.Values {
	query := url.Values{}
	values := b.Values()
	for _, name := range BookingFields {
		if value := values[name]; value != "" {
			query.Set(name, value)
		}
	}
	return query
}

// Map applies fn to every field and returns the resulting form.
func (b BookingForm) Map(fn func(string) string) BookingForm {
	if fn == nil {
		return b
	}
	return BookingForm{
		Name:        fn(b.Name),
		Phone:       fn(b.Phone),
		Email:       fn(b.Email),
		Destination: fn(b.Destination),
		Date:        fn(b.Date),
	}
}
