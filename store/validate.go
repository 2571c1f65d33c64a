// ABOUTME: Input types and validation for deal and task mutations
// ABOUTME: Uses validator struct tags and converts failures into validation errors
package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/simplecrm/models"
)

// ContactPatch carries the contact fields to overwrite. Nil fields are left alone.
type ContactPatch struct {
	Name    *string `json:"name,omitempty"`
	Company *string `json:"company,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// DealInput is the editable part of a deal. Value is raw user text; blank
// leaves the deal without a value.
type DealInput struct {
	Title     string       `json:"title" validate:"required"`
	Value     string       `json:"value"`
	Stage     models.Stage `json:"stage" validate:"required,oneof=lead qualified proposal won lost"`
	CloseDate string       `json:"closeDate"`
}

// normalize trims text fields and defaults the stage to lead.
func (in DealInput) normalize() DealInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Value = strings.TrimSpace(in.Value)
	in.Stage = models.Stage(strings.ToLower(strings.TrimSpace(string(in.Stage))))
	if in.Stage == "" {
		in.Stage = models.StageLead
	}
	in.CloseDate = strings.TrimSpace(in.CloseDate)
	return in
}

type taskInput struct {
	Title     string `json:"title" validate:"required"`
	ContactID string `json:"contactId"`
	DueDate   string `json:"dueDate"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates in and reports the first failing field as a validation error.
func (s *Store) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return models.NewValidationError(ve[0].Field(), formatFieldError(ve[0]))
	}
	return models.WrapValidationError("invalid input", err)
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
