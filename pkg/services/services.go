// Package services maps Promorang API endpoints onto normalized view models.
//
// Transport failures come back as *api.Error wrapped with the failed
// operation; successful responses always normalize into a complete model.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/promorang/promorang-cli/pkg/client"
	"github.com/promorang/promorang-cli/pkg/logger"
)

// API is the subset of *client.Client used by the services.
type API interface {
	Get(ctx context.Context, path string, opts ...client.RequestOption) (*client.RawResponse, error)
	Post(ctx context.Context, path string, body any, opts ...client.RequestOption) (*client.RawResponse, error)
	Put(ctx context.Context, path string, body any, opts ...client.RequestOption) (*client.RawResponse, error)
	Delete(ctx context.Context, path string, opts ...client.RequestOption) (*client.RawResponse, error)
}

var _ API = (*client.Client)(nil)

// ErrEmptyID is returned when an operation is called without an identifier.
var ErrEmptyID = errors.New("identifier must not be empty")

// Option configures a service.
type Option func(*options)

type options struct {
	log logger.Logger
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ValidationError lists the fields of a request that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Fields, "; ")
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			out.Fields = append(out.Fields, fe.Field()+" is required")
		case "gt":
			out.Fields = append(out.Fields, fe.Field()+" must be greater than "+fe.Param())
		case "lte", "max":
			out.Fields = append(out.Fields, fe.Field()+" must be at most "+fe.Param())
		case "url":
			out.Fields = append(out.Fields, fe.Field()+" must be a URL")
		default:
			out.Fields = append(out.Fields, fe.Field()+" is invalid")
		}
	}
	return out
}

// segment escapes one path segment, rejecting blank identifiers.
func segment(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrEmptyID
	}
	return url.PathEscape(id), nil
}
