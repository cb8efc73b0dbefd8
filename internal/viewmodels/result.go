package viewmodels

import (
	apperrors "ega-bank-client/internal/errors"
)

// Route is a presentation-layer destination a result can ask to navigate to
type Route string

const (
	RouteLogin    Route = "/"
	RouteAccounts Route = "/app"
)

// Outcome is how an intent ended
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeValidationError
	OutcomeAuthError
	OutcomeNetworkError
	OutcomeDataShapeError
	OutcomeBusy
	// OutcomeDiscarded means the call succeeded but its result no longer
	// matched the screen and was not applied
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationError:
		return "validation_error"
	case OutcomeAuthError:
		return "auth_error"
	case OutcomeNetworkError:
		return "network_error"
	case OutcomeDataShapeError:
		return "data_shape_error"
	case OutcomeBusy:
		return "busy"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Result is what an intent hands back to the presentation layer to render
type Result struct {
	Outcome  Outcome
	Message  string
	URL      string
	Redirect Route
	Err      error
}

func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

func success(message string) Result {
	return Result{Outcome: OutcomeSuccess, Message: message}
}

func busy() Result {
	return Result{
		Outcome: OutcomeBusy,
		Message: apperrors.GetErrorMessage(apperrors.ValidationDuplicateSubmit),
	}
}

func discarded(message string) Result {
	return Result{Outcome: OutcomeDiscarded, Message: message}
}

// failure classifies err; fallback is shown when err carries no message
func failure(err error, fallback string) Result {
	return Result{
		Outcome: outcomeFor(apperrors.KindFromError(err)),
		Message: apperrors.UserMessage(err, fallback),
		Err:     err,
	}
}

func outcomeFor(kind apperrors.Kind) Outcome {
	switch kind {
	case apperrors.KindValidation:
		return OutcomeValidationError
	case apperrors.KindAuth:
		return OutcomeAuthError
	case apperrors.KindDataShape:
		return OutcomeDataShapeError
	default:
		return OutcomeNetworkError
	}
}
