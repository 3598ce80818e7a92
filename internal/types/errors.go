package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports every field-level problem found on an entity or
// request, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, problem string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: problem}}
}

// wrapValidation converts validator output into a ValidationError carrying
// the full set of per-field messages. A nil input returns nil.
func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = messageForTag(fe)
	}
	return &ValidationError{Fields: fields}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "alphanum":
		return "must contain only letters and digits"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "uri":
		return "must be a valid URI"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// Validate validates the ontology, returning a *ValidationError listing
// every per-field problem.
func (o *Ontology) Validate() error {
	validate := validator.New()
	return wrapValidation(validate.Struct(o))
}

// Validate validates the submission using the validator.
func (s *OntologySubmission) Validate() error {
	validate := validator.New()
	return wrapValidation(validate.Struct(s))
}

// Validate validates the CreateOntologyRequest using the validator.
func (r *CreateOntologyRequest) Validate() error {
	validate := validator.New()
	return wrapValidation(validate.Struct(r))
}

// Validate validates the CreateSubmissionRequest using the validator.
func (r *CreateSubmissionRequest) Validate() error {
	validate := validator.New()
	return wrapValidation(validate.Struct(r))
}
