package domain

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is the parent of every user-facing validation failure
var ErrValidation = errors.New("validation failed")

// ValidationError is a user-facing validation failure for a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

var (
	ErrCustomerNameRequired = &ValidationError{Field: "customerName", Message: "Please enter your name"}
	ErrPhoneRequired        = &ValidationError{Field: "phone", Message: "Please enter your phone number"}
	ErrAddressRequired      = &ValidationError{Field: "address", Message: "Please enter your delivery address"}
	ErrNegativeTotal        = &ValidationError{Field: "totalAmount", Message: "Total amount cannot be negative"}
	ErrNegativeItemPrice    = &ValidationError{Field: "items", Message: "Item price cannot be negative"}

	ErrProductNameRequired = &ValidationError{Field: "name", Message: "Please enter a product name"}
	ErrCategoryRequired    = &ValidationError{Field: "category", Message: "Please enter a category"}
	ErrNegativePrice       = &ValidationError{Field: "price", Message: "Price cannot be negative"}
	ErrNegativeStock       = &ValidationError{Field: "stock", Message: "Stock cannot be negative"}

	ErrInvalidStatus = &ValidationError{Field: "status", Message: "Unknown order status"}
)

var validate = validator.New()

var orderFieldErrors = map[string]*ValidationError{
	"CustomerName": ErrCustomerNameRequired,
	"Phone":        ErrPhoneRequired,
	"Address":      ErrAddressRequired,
}

var productFieldErrors = map[string]*ValidationError{
	"Name":     ErrProductNameRequired,
	"Category": ErrCategoryRequired,
	"Stock":    ErrNegativeStock,
}

// firstValidationError maps the first failing struct field onto its
// user-facing error. Fields are reported in declaration order.
func firstValidationError(err error, fields map[string]*ValidationError) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if mapped, ok := fields[fe.StructField()]; ok {
			return mapped
		}
	}
	return &ValidationError{Field: verrs[0].Field(), Message: "Invalid value"}
}
