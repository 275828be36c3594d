package validator

import (
	"fmt"
	"strings"

	"absensi/dto"
	apperrors "absensi/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRegister checks sign-up input.
func ValidateRegister(input *dto.RegisterInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	return translate(validate.Struct(input))
}

// ValidateCheckIn checks the optional status and coordinates of a check-in.
func ValidateCheckIn(input *dto.CheckInInput) error {
	input.Status = strings.ToUpper(strings.TrimSpace(input.Status))
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return apperrors.Validation("Latitude dan longitude harus diisi bersamaan")
	}
	return translate(validate.Struct(input))
}

func ValidateCheckOut(input *dto.CheckOutInput) error {
	input.Status = strings.ToUpper(strings.TrimSpace(input.Status))
	return translate(validate.Struct(input))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return apperrors.NewAppError(apperrors.ErrCodeValidation, "Data tidak valid", err)
	}
	fe := errs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return apperrors.Validation(fmt.Sprintf("%s wajib diisi", field))
	case "email":
		return apperrors.Validation("Format email tidak valid")
	case "min":
		return apperrors.Validation(fmt.Sprintf("%s minimal %s karakter", field, fe.Param()))
	case "max":
		return apperrors.Validation(fmt.Sprintf("%s maksimal %s karakter", field, fe.Param()))
	case "oneof":
		return apperrors.Validation(fmt.Sprintf("%s harus salah satu dari: %s", field, fe.Param()))
	default:
		return apperrors.Validation(fmt.Sprintf("%s tidak valid", field))
	}
}
