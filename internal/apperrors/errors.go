// Package apperrors defines the errors the API reports to its clients and the
// single mapping from an error to an HTTP status and response body.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// FieldError describes one failed validation rule.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// HTTPError is implemented by every error kind that knows how it is rendered.
type HTTPError interface {
	error
	Name() string
	StatusCode() int
	FieldErrors() []FieldError
}

// ApplicationError is a generic business-rule violation.
type ApplicationError struct {
	Reason string
}

// NewApplicationError creates an ApplicationError.
func NewApplicationError(reason string) *ApplicationError {
	return &ApplicationError{Reason: reason}
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("Could not process your request: %s", e.Reason)
}
func (e *ApplicationError) Name() string              { return "ApplicationError" }
func (e *ApplicationError) StatusCode() int           { return http.StatusConflict }
func (e *ApplicationError) FieldErrors() []FieldError { return nil }

// DataInputValidationError carries every field that failed validation.
type DataInputValidationError struct {
	Errors []FieldError
}

// NewDataInputValidationError creates a DataInputValidationError.
func NewDataInputValidationError(errs []FieldError) *DataInputValidationError {
	return &DataInputValidationError{Errors: errs}
}

func (e *DataInputValidationError) Error() string {
	return "Your request could not be processed. Please fix the errors and try again"
}
func (e *DataInputValidationError) Name() string              { return "DataInputValidationError" }
func (e *DataInputValidationError) StatusCode() int           { return http.StatusBadRequest }
func (e *DataInputValidationError) FieldErrors() []FieldError { return e.Errors }

// ResourceNotFoundError reports a missing entity.
type ResourceNotFoundError struct {
	Resource string
	ID       uint
}

// NewResourceNotFoundError creates a ResourceNotFoundError.
func NewResourceNotFoundError(resource string, id uint) *ResourceNotFoundError {
	return &ResourceNotFoundError{Resource: resource, ID: id}
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("The resource %s with ID %d does not exist.", e.Resource, e.ID)
}
func (e *ResourceNotFoundError) Name() string              { return "ResourceNotFoundError" }
func (e *ResourceNotFoundError) StatusCode() int           { return http.StatusNotFound }
func (e *ResourceNotFoundError) FieldErrors() []FieldError { return nil }

// RouteNotFoundError reports a path or method without a handler.
type RouteNotFoundError struct {
	Route string
}

// NewRouteNotFoundError creates a RouteNotFoundError.
func NewRouteNotFoundError(route string) *RouteNotFoundError {
	return &RouteNotFoundError{Route: route}
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("The route %s does not exist.", e.Route)
}
func (e *RouteNotFoundError) Name() string              { return "RouteNotFoundError" }
func (e *RouteNotFoundError) StatusCode() int           { return http.StatusNotFound }
func (e *RouteNotFoundError) FieldErrors() []FieldError { return nil }

// Response is the body of every error response.
type Response struct {
	Error  string       `json:"error"`
	Reason string       `json:"reason"`
	Errors []FieldError `json:"errors"`
}

// Describe maps any error to the status code and body sent to the client.
// Errors outside the taxonomy never expose their message.
func Describe(err error) (int, Response) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		fieldErrs := httpErr.FieldErrors()
		if fieldErrs == nil {
			fieldErrs = []FieldError{}
		}
		return httpErr.StatusCode(), Response{
			Error:  httpErr.Name(),
			Reason: httpErr.Error(),
			Errors: fieldErrs,
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, Response{
			Error:  "HTTPError",
			Reason: fiberErr.Message,
			Errors: []FieldError{},
		}
	}

	return http.StatusInternalServerError, Response{
		Error:  "InternalError",
		Reason: "An unexpected error has occurred.",
		Errors: []FieldError{},
	}
}
