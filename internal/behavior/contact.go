package behavior

import "regexp"

// Messages shown to the visitor by the contact form.
const (
	MsgFillAllFields = "Please fill in all fields."
	MsgInvalidEmail  = "Please enter a valid email address."
	MsgThankYou      = "Thank you for your message! We'll get back to you soon."
)

// Browser whitespace is wider than RE2's \s.
const jsSpace = `\s\x{0B}\p{Z}\x{FEFF}`

var emailPattern = regexp.MustCompile(`^[^` + jsSpace + `@]+@[^` + jsSpace + `@]+\.[^` + jsSpace + `@]+$`)

// ContactError is a contact form validation failure. Its message is meant
// for the visitor.
type ContactError struct {
	Field   string
	Message string
}

func (e *ContactError) Error() string {
	return e.Message
}

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateContact checks a contact form submission. All fields are required
// and the email must look like an address.
func ValidateContact(name, email, message string) error {
	switch {
	case name == "":
		return &ContactError{Field: "name", Message: MsgFillAllFields}
	case email == "":
		return &ContactError{Field: "email", Message: MsgFillAllFields}
	case message == "":
		return &ContactError{Field: "message", Message: MsgFillAllFields}
	}

	if !ValidEmail(email) {
		return &ContactError{Field: "email", Message: MsgInvalidEmail}
	}

	return nil
}
