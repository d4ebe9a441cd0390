package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"propertyapi/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantName   string
		wantReason string
	}{
		{
			name:       "application error",
			err:        apperrors.NewApplicationError("bad filter"),
			wantStatus: http.StatusConflict,
			wantName:   "ApplicationError",
			wantReason: "Could not process your request: bad filter",
		},
		{
			name:       "resource not found",
			err:        apperrors.NewResourceNotFoundError("Property", 42),
			wantStatus: http.StatusNotFound,
			wantName:   "ResourceNotFoundError",
			wantReason: "The resource Property with ID 42 does not exist.",
		},
		{
			name:       "route not found",
			err:        apperrors.NewRouteNotFoundError("/unknown"),
			wantStatus: http.StatusNotFound,
			wantName:   "RouteNotFoundError",
			wantReason: "The route /unknown does not exist.",
		},
		{
			name:       "wrapped taxonomy error keeps its kind",
			err:        fmt.Errorf("service: %w", apperrors.NewResourceNotFoundError("Property", 7)),
			wantStatus: http.StatusNotFound,
			wantName:   "ResourceNotFoundError",
			wantReason: "The resource Property with ID 7 does not exist.",
		},
		{
			name:       "fiber error keeps its code",
			err:        fiber.ErrTooManyRequests,
			wantStatus: http.StatusTooManyRequests,
			wantName:   "HTTPError",
			wantReason: "Too Many Requests",
		},
		{
			name:       "unknown error is hidden",
			err:        errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantName:   "InternalError",
			wantReason: "An unexpected error has occurred.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := apperrors.Describe(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantName, body.Error)
			assert.Equal(t, tc.wantReason, body.Reason)
			assert.NotNil(t, body.Errors)
			assert.Empty(t, body.Errors)
		})
	}
}

func TestDescribe_ValidationErrorCarriesFields(t *testing.T) {
	err := apperrors.NewDataInputValidationError([]apperrors.FieldError{
		{Path: "page", Message: "The filter page must be a positive integer"},
		{Path: "type", Message: "The type filter must be an string value"},
	})

	status, body := apperrors.Describe(err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "DataInputValidationError", body.Error)
	assert.Equal(t, "Your request could not be processed. Please fix the errors and try again", body.Reason)
	assert.Len(t, body.Errors, 2)
	assert.Equal(t, "page", body.Errors[0].Path)
}
