package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"secondarypro/internal/models"

	"github.com/go-playground/validator/v10"
)

// Validator checks request structs against their `validate` tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a validator with the storefront's custom tags registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.NormalizeCategory(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return models.PaymentMethod(strings.TrimSpace(fl.Field().String())).Valid()
	})
	_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		return models.OrderStatus(fl.Field().String()).Valid()
	})
	return &Validator{validate: v}
}

// Struct validates s and converts failures into a *models.ValidationError.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &models.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "category":
		return "must be one of sneakers, boots, sandals, formal, sports, casual"
	case "payment_method":
		return "must be one of COD, Bank Transfer, E-Wallet, Credit Card"
	case "order_status":
		return "must be one of Pending, Confirmed, Shipped, Delivered, Cancelled"
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
	}
}
