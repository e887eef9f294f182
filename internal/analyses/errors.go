package analyses

import (
	"errors"
	"fmt"
	"net/http"

	"enhanceme/internal/extract"
	"enhanceme/internal/uploads"
)

var (
	// ErrMissingText is returned when the resume text is blank.
	ErrMissingText = errors.New("resume text is required")
	// ErrNotConfigured is returned when no provider credentials are set.
	ErrNotConfigured = errors.New("provider api key not configured")
	// ErrProviderAuth maps a provider 401.
	ErrProviderAuth = errors.New("provider rejected credentials")
	// ErrProviderRateLimited maps a provider 429.
	ErrProviderRateLimited = errors.New("provider rate limited")
	// ErrProvider covers every other provider failure.
	ErrProvider = errors.New("provider request failed")
	// ErrNoText is returned when extraction produced only whitespace.
	ErrNoText = errors.New("no text could be extracted from the file")
	// ErrAnalysisInFlight is returned when a session already has a running analysis.
	ErrAnalysisInFlight = errors.New("analysis already in progress")
	// ErrSuperseded is returned by a run whose outcome was discarded by Reset.
	ErrSuperseded = errors.New("analysis was reset before it finished")
	// ErrAnalysisTimeout is returned when the orchestrator's analysis deadline passes.
	ErrAnalysisTimeout = errors.New("analysis timed out")
)

// ShapeKind distinguishes unparseable output from output missing required fields.
type ShapeKind string

const (
	ShapeParse   ShapeKind = "parse"
	ShapeInvalid ShapeKind = "invalid"
)

// ShapeError reports provider output that is not a usable analysis.
type ShapeError struct {
	Kind   ShapeKind
	Reason string
	Err    error
}

func (e *ShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("response shape %s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("response shape %s: %s", e.Kind, e.Reason)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// RemoteError carries the message returned by a remote /api/ai endpoint.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote analysis failed (status %d): %s", e.StatusCode, e.Message)
}

const (
	msgMissingText    = "Resume text is required"
	msgNotConfigured  = "API key not configured"
	msgParse          = "Failed to parse AI response. Please try again."
	msgProviderAuth   = "Invalid API key. Please check your API key."
	msgRateLimited    = "Rate limit exceeded. Please try again later."
	msgProvider       = "Failed to analyze resume. Please try again."
	msgNoText         = "No text could be extracted from the file"
	msgUnsupported    = "Unsupported file type"
	msgExtraction     = "Could not read text from the file"
	msgInFlight       = "An analysis is already in progress"
	msgSuperseded     = "The analysis was reset before it finished"
	msgTimeout        = "Analysis timed out. Please try again."
	msgRemoteFallback = "Failed to analyze resume"
)

// HTTPStatus maps an analysis error to the response status.
func HTTPStatus(err error) int {
	var verr *uploads.ValidationError
	var remoteErr *RemoteError
	var extErr *extract.ExtractionError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr), errors.Is(err, ErrMissingText):
		return http.StatusBadRequest
	case errors.Is(err, ErrProviderAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrProviderRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrAnalysisInFlight), errors.Is(err, ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, ErrNoText), errors.Is(err, extract.ErrUnsupportedFormat), errors.As(err, &extErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrAnalysisTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &remoteErr) && remoteErr.StatusCode >= 400:
		return remoteErr.StatusCode
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage maps an analysis error to the short message shown to the user.
func UserMessage(err error) string {
	var verr *uploads.ValidationError
	var shapeErr *ShapeError
	var remoteErr *RemoteError
	var extErr *extract.ExtractionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Reason
	case errors.Is(err, ErrMissingText):
		return msgMissingText
	case errors.Is(err, ErrAnalysisTimeout):
		return msgTimeout
	case errors.Is(err, ErrNotConfigured):
		return msgNotConfigured
	case errors.As(err, &shapeErr):
		return msgParse
	case errors.Is(err, ErrProviderAuth):
		return msgProviderAuth
	case errors.Is(err, ErrProviderRateLimited):
		return msgRateLimited
	case errors.Is(err, ErrNoText):
		return msgNoText
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return msgUnsupported
	case errors.As(err, &extErr):
		return msgExtraction
	case errors.Is(err, ErrAnalysisInFlight):
		return msgInFlight
	case errors.Is(err, ErrSuperseded):
		return msgSuperseded
	case errors.As(err, &remoteErr):
		if remoteErr.Message != "" {
			return remoteErr.Message
		}
		return msgRemoteFallback
	default:
		return msgProvider
	}
}

// Category is a stable label for metrics and logs.
func Category(err error) string {
	var verr *uploads.ValidationError
	var shapeErr *ShapeError
	var remoteErr *RemoteError
	var extErr *extract.ExtractionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, ErrMissingText), errors.Is(err, ErrNoText):
		return "no_text"
	case errors.Is(err, ErrAnalysisTimeout):
		return "timeout"
	case errors.Is(err, ErrNotConfigured):
		return "configuration"
	case errors.As(err, &shapeErr):
		return "response_shape_" + string(shapeErr.Kind)
	case errors.Is(err, ErrProviderAuth):
		return "provider_auth"
	case errors.Is(err, ErrProviderRateLimited):
		return "provider_rate_limit"
	case errors.Is(err, extract.ErrUnsupportedFormat), errors.As(err, &extErr):
		return "extraction"
	case errors.Is(err, ErrAnalysisInFlight):
		return "in_flight"
	case errors.Is(err, ErrSuperseded):
		return "superseded"
	case errors.As(err, &remoteErr):
		return "remote"
	default:
		return "provider"
	}
}
