package validator

import (
	"testing"

	"github.com/openlms/lms-service/internal/models"
)

func TestValidateRegisterPasswordMismatch(t *testing.T) {
	v := New()

	req := &RegisterRequest{
		Email:           "student@example.com",
		FirstName:       "Sam",
		Role:            models.RoleStudent,
		Password:        "longenough1",
		ConfirmPassword: "different1",
	}

	errs := v.GetBusinessValidator().ValidateRegister(req)
	if len(errs) == 0 {
		t.Fatal("expected a validation error for mismatched passwords")
	}

	found := false
	for _, e := range errs {
		if e.Rule == "password_match" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected password_match rule, got %+v", errs)
	}
}

func TestValidateRegisterShortPassword(t *testing.T) {
	v := New()

	req := &RegisterRequest{
		Email:           "student@example.com",
		FirstName:       "Sam",
		Role:            models.RoleStudent,
		Password:        "short",
		ConfirmPassword: "short",
	}

	errs := v.GetBusinessValidator().ValidateRegister(req)
	if len(errs) == 0 {
		t.Fatal("expected a validation error for a password under 8 characters")
	}
	if errs[0].Field != "password" {
		t.Errorf("expected error on password field, got %q", errs[0].Field)
	}
}

func TestValidateRegisterRejectsUnknownRole(t *testing.T) {
	v := New()

	req := &RegisterRequest{
		Email:           "someone@example.com",
		FirstName:       "Ada",
		Role:            models.UserRole("superuser"),
		Password:        "longenough1",
		ConfirmPassword: "longenough1",
	}

	errs := v.GetBusinessValidator().ValidateRegister(req)
	if len(errs) == 0 {
		t.Fatal("expected a validation error for an unknown role")
	}
}

func TestValidateRegisterOK(t *testing.T) {
	v := New()

	req := &RegisterRequest{
		Email:           "teach@example.com",
		FirstName:       "Ida",
		LastName:        "Lovel",
		Role:            models.RoleInstructor,
		Password:        "longenough1",
		ConfirmPassword: "longenough1",
	}

	if errs := v.GetBusinessValidator().ValidateRegister(req); len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}

func TestValidateEnrollmentUpdateProgressRange(t *testing.T) {
	v := New()

	over := 150
	req := &EnrollmentUpdateRequest{Progress: &over}
	if errs := v.Validate(req); len(errs) == 0 {
		t.Error("expected a validation error for progress above 100")
	}

	ok := 100
	req = &EnrollmentUpdateRequest{Progress: &ok}
	if errs := v.Validate(req); len(errs) != 0 {
		t.Errorf("expected no errors for progress 100, got %+v", errs)
	}
}
