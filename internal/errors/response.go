package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failure for the presentation layer
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindNetwork
	KindDataShape
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNetwork:
		return "network"
	case KindDataShape:
		return "data_shape"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is to test the kind of any *Error
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrNetwork    = &Error{Kind: KindNetwork}
	ErrDataShape  = &Error{Kind: KindDataShape}
)

// maxPlainTextMessage caps, in characters, how much of a non-JSON body is shown to the user
const maxPlainTextMessage = 200

// Error is the single error type returned by the client layers
type Error struct {
	Kind    Kind
	Code    ErrorCode
	Message string
	Status  int
	Fields  map[string]string
	TraceID string
	Err     error
}

// ErrorOption is a functional option for configuring errors
type ErrorOption func(*Error)

// WithMessage overrides the default message for the error code
func WithMessage(message string) ErrorOption {
	return func(e *Error) {
		if message != "" {
			e.Message = message
		}
	}
}

// WithFields attaches field-level validation messages
func WithFields(fields map[string]string) ErrorOption {
	return func(e *Error) {
		e.Fields = fields
	}
}

// WithStatus records the HTTP status the error came from
func WithStatus(status int) ErrorOption {
	return func(e *Error) {
		e.Status = status
	}
}

// WithTraceID records the trace ID sent with the failed request
func WithTraceID(traceID string) ErrorOption {
	return func(e *Error) {
		e.TraceID = traceID
	}
}

// WithCause wraps an underlying error
func WithCause(err error) ErrorOption {
	return func(e *Error) {
		e.Err = err
	}
}

// New creates an error for the given code, its kind derived from the code
func New(code ErrorCode, opts ...ErrorOption) *Error {
	e := &Error{
		Kind:    KindOf(code),
		Code:    code,
		Message: GetErrorMessage(code),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a sentinel by kind, or another *Error by code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Kind == e.Kind
}

// Details renders field errors as sorted "field: message" lines
func (e *Error) Details() []string {
	details := make([]string, 0, len(e.Fields))
	for field, message := range e.Fields {
		details = append(details, fmt.Sprintf("%s: %s", field, message))
	}
	sort.Strings(details)
	return details
}

// IsClientError returns true if the error came from a 4xx response
func (e *Error) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// IsServerError returns true if the error came from a 5xx response
func (e *Error) IsServerError() bool {
	return e.Status >= 500
}

// BackendErrorPayload mirrors the JSON error bodies the bank backend produces
type BackendErrorPayload struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Status  int               `json:"status,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ParseErrorPayload extracts a user-facing message from a backend error body.
// The body may be a JSON object, a JSON string, or plain text. An empty message
// means the body carried nothing usable.
func ParseErrorPayload(body []byte) (string, map[string]string) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return strings.TrimSpace(text), nil
	}

	var payload BackendErrorPayload
	if err := json.Unmarshal(trimmed, &payload); err == nil {
		message := strings.TrimSpace(payload.Message)
		if message == "" {
			message = strings.TrimSpace(payload.Error)
		}
		return message, payload.Fields
	}

	if trimmed[0] == '{' || trimmed[0] == '[' || trimmed[0] == '<' {
		return "", nil
	}

	message := string(trimmed)
	if runes := []rune(message); len(runes) > maxPlainTextMessage {
		message = string(runes[:maxPlainTextMessage])
	}
	return message, nil
}

// FromResponse classifies a non-2xx response. fallback is shown when the body
// carries no usable message.
func FromResponse(status int, body []byte, fallback string, opts ...ErrorOption) *Error {
	message, fields := ParseErrorPayload(body)
	if message == "" {
		message = fallback
	}

	var code ErrorCode
	switch {
	case status == http.StatusUnauthorized:
		code = AuthRejectedToken
	case status == http.StatusForbidden:
		code = AuthForbidden
	case status >= 400 && status < 500:
		code = ValidationRejectedByBank
	default:
		code = NetworkServerError
	}

	opts = append([]ErrorOption{WithMessage(message), WithFields(fields), WithStatus(status)}, opts...)
	return New(code, opts...)
}

// UserMessage returns the message to show for err, or fallback when err does
// not carry one
func UserMessage(err error, fallback string) string {
	var e *Error
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// KindFromError returns the taxonomy kind of err; plain errors count as network failures
func KindFromError(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindNetwork
}
