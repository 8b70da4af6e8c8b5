package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/apvcouncil/technocratz-registration/model"
)

var (
	// EmailRegex is a simple local@domain.tld check; the backend re-validates
	// authoritatively, this only saves a wasted round trip.
	EmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// ContactRegex requires exactly 10 digits.
	ContactRegex = regexp.MustCompile(`^\d{10}$`)
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "email":
				errors[field] = "Invalid email format"
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			case "len":
				errors[field] = fmt.Sprintf("%s must be exactly %s characters", e.Field(), e.Param())
			case "numeric":
				errors[field] = fmt.Sprintf("%s must contain only digits", e.Field())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// ValidateSubmissionPayload checks a payload field by field before it is sent
// to the backend. Checks run in a fixed order and the first violation is
// returned; participants are reported with a 1-based index.
func ValidateSubmissionPayload(payload *model.SubmissionPayload) error {
	if payload.RazorpayPaymentID == "" {
		return fmt.Errorf("missing razorpay_payment_id")
	}

	if payload.RazorpayOrderID == "" {
		return fmt.Errorf("missing razorpay_order_id")
	}

	if payload.RazorpaySignature == "" {
		return fmt.Errorf("missing razorpay_signature (required for backend verification)")
	}

	if payload.Competition == "" {
		return fmt.Errorf("missing competition name")
	}

	if payload.Institute == "" {
		return fmt.Errorf("missing institute")
	}

	if len(payload.Participants) == 0 {
		return fmt.Errorf("participants array cannot be empty")
	}

	for i, participant := range payload.Participants {
		if participant.Name == "" {
			return fmt.Errorf("participant %d missing name", i+1)
		}

		if participant.Department == "" {
			return fmt.Errorf("participant %d missing department", i+1)
		}

		if participant.Semester == "" {
			return fmt.Errorf("participant %d missing semester", i+1)
		}

		if participant.Email == "" {
			return fmt.Errorf("participant %d missing email", i+1)
		}

		if participant.Contact == "" {
			return fmt.Errorf("participant %d missing contact", i+1)
		}

		if !ContactRegex.MatchString(participant.Contact) {
			return fmt.Errorf("participant %d contact must be exactly 10 digits", i+1)
		}

		if !EmailRegex.MatchString(participant.Email) {
			return fmt.Errorf("participant %d email format is invalid", i+1)
		}
	}

	return nil
}
