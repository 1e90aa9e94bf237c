package domain

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// newContactRules is checked field by field in declaration order, so the first failure is the
// one reported.
type newContactRules struct {
	Name  string `validate:"required"`
	Phone string `validate:"required"`
	Email string `validate:"required"`
}

var requiredMessages = map[string]string{
	"Name":  "Name cannot be empty.",
	"Phone": "Phone must be provided.",
	"Email": "Email must be provided.",
}

var fieldNames = map[string]string{
	"Name":  "name",
	"Phone": "phone",
	"Email": "email",
}

// ValidateNewContact checks an already trimmed contact before it is added.
// Rules, first violation wins: name present, phone present, email present, phone all digits.
func ValidateNewContact(c *Contact) error {
	err := validate.Struct(newContactRules{Name: c.Name, Phone: c.Phone, Email: c.Email})
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return NewValidationError(fieldNames[first.StructField()], requiredMessages[first.StructField()])
		}
		return err
	}

	// "number" is ^[0-9]+$: no sign, separators or non-ASCII digits.
	if err := validate.Var(c.Phone, "number"); err != nil {
		return NewValidationError("phone", "Phone number must contain only digits.")
	}
	return nil
}
