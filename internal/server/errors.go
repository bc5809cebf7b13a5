package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/linkedin-snapshot/internal/brightdata"
	"github.com/jonathan/linkedin-snapshot/internal/config"
	"github.com/jonathan/linkedin-snapshot/internal/linkedin"
)

// HTTPStatus returns the appropriate HTTP status code for a pipeline error
func HTTPStatus(err error) int {
	var (
		inputErr      *linkedin.InputError
		validationErr validator.ValidationErrors
		configErr     *config.ConfigurationError
		transportErr  *brightdata.TransportError
		protocolErr   *brightdata.ProtocolError
		remoteErr     *brightdata.RemoteProcessingError
		timeoutErr    *brightdata.TimeoutError
	)

	switch {
	case errors.As(err, &inputErr), errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &transportErr), errors.As(err, &protocolErr), errors.As(err, &remoteErr):
		return http.StatusBadGateway
	case errors.As(err, &configErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// validationMessage turns validator errors into one readable line.
func validationMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		parts = append(parts, fmt.Sprintf("%s failed %q validation", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
	}
	return "validation error: " + strings.Join(parts, "; ")
}
