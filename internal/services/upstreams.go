package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Shopware is the commerce platform API used by the services.
type Shopware interface {
	Get(ctx context.Context, resource string) ([]byte, error)
	Data(ctx context.Context, resource string) (json.RawMessage, error)
	Decode(ctx context.Context, resource string, out any) error
}

// Zalando is the marketplace API used by the product service.
type Zalando interface {
	Outlines(ctx context.Context) (json.RawMessage, error)
	Attributes(ctx context.Context, name string) (json.RawMessage, error)
	SubmitProduct(ctx context.Context, payload any) (int, error)
}

// EventPublisher publishes domain events. A nil publisher disables events.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

var (
	// ErrDocumentSettingsMissing is returned by Print when no document type
	// has been configured for a customer group.
	ErrDocumentSettingsMissing = errors.New("document type settings missing")
	// ErrSessionNotFound is returned for unknown or closed board sessions.
	ErrSessionNotFound = errors.New("board session not found")
	// ErrInvalidCredentials is returned for failed operator logins.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAuthDisabled is returned by Login when no JWT secret is configured.
	ErrAuthDisabled = errors.New("operator login is disabled")
)

// DocumentSettingsHint tells the operator how to fix ErrDocumentSettingsMissing.
const DocumentSettingsHint = "Check and Save Document Type from Settings/Document"

// ValidationError lists invalid fields by their JSON name.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidator returns a validator that reports fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError converts validator errors into a ValidationError.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		fields[ns] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s entries", fe.Param())
	case "len":
		return fmt.Sprintf("must contain exactly %s entries", fe.Param())
	case "number":
		return "must be a number"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
