package validator

import (
	"github.com/go-playground/validator/v10"
)

// BusinessValidator handles rules that struct tags cannot express.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator(validate *validator.Validate) *BusinessValidator {
	return &BusinessValidator{validate: validate}
}

func (bv *BusinessValidator) structErrors(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegister validates registration: struct rules plus password
// confirmation equality.
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	errors := bv.structErrors(req)

	if req.Password != req.ConfirmPassword {
		errors = append(errors, ValidationError{
			Field:   "confirm_password",
			Message: "passwords do not match",
			Rule:    "password_match",
		})
	}

	return errors
}

// ValidateResetPassword validates a password reset request.
func (bv *BusinessValidator) ValidateResetPassword(req *ResetPasswordRequest) ValidationErrors {
	errors := bv.structErrors(req)

	if req.NewPassword != req.ConfirmPassword {
		errors = append(errors, ValidationError{
			Field:   "confirm_password",
			Message: "passwords do not match",
			Rule:    "password_match",
		})
	}

	return errors
}
