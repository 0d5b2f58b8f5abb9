package booking

import (
	"regexp"
	"strings"

	"mobilvask/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(\+\d{1,3}[- ]?)?\d{8,}$`)
)

const (
	msgNameRequired  = "Navn er påkrævet"
	msgEmailRequired = "E-mail er påkrævet"
	msgEmailInvalid  = "E-mail er ikke gyldig"
	msgPhoneRequired = "Telefon er påkrævet"
	msgPhoneInvalid  = "Telefon er ikke gyldig"
)

// Validate checks name, email and phone. All rules are evaluated; the
// result collects every failing field. Service and message are never
// rejected. Pure function, no side effects.
func Validate(req models.BookingRequest) models.ValidationErrors {
	errs := make(models.ValidationErrors)

	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = msgNameRequired
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs["email"] = msgEmailRequired
	} else if !emailPattern.MatchString(email) {
		errs["email"] = msgEmailInvalid
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		errs["phone"] = msgPhoneRequired
	} else if !phonePattern.MatchString(phone) {
		errs["phone"] = msgPhoneInvalid
	}

	return errs
}
