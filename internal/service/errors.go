package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/agrovision/dashboard-go/internal/client"
)

// Display strings shown in the dashboard panels.
const (
	MsgPredictionFailed = "Error fetching predictions"
	MsgTrainFailed      = "Model retraining failed"
	MsgSupplyFailed     = "Failed to fetch allocations. Please try again."
	MsgSupplyEmpty      = "No stock available or no matching warehouses found."
	MsgSupplyNoCity     = "Please enter a city on the dashboard first."
	MsgBackendOffline   = "Unable to reach the prediction service (server offline?)"
)

// ValidationError is a missing or malformed user input. It is raised before
// any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// WorkflowError records which step of a multi-step operation failed.
type WorkflowError struct {
	Step    string
	Display string
	Err     error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// UserMessage converts any service error into the single display string shown
// to the user. Detail stays in the logs.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var wErr *WorkflowError
	if errors.As(err, &wErr) && wErr.Display != "" {
		return wErr.Display
	}
	if client.IsUnreachable(err) && fallback == "" {
		return MsgBackendOffline
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}

// HTTPStatus picks the status code a handler should answer with.
func HTTPStatus(err error) int {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case client.IsNotFound(err):
		return http.StatusNotFound
	case client.IsUnreachable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
