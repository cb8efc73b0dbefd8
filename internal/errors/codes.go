package errors

// ErrorCode represents a standardized error code used throughout the client
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials ErrorCode = "AUTH_001"
	AuthMissingToken       ErrorCode = "AUTH_002"
	AuthRejectedToken      ErrorCode = "AUTH_003"
	AuthForbidden          ErrorCode = "AUTH_004"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral         ErrorCode = "VALIDATION_001"
	ValidationRequiredField   ErrorCode = "VALIDATION_002"
	ValidationNonPositive     ErrorCode = "VALIDATION_003"
	ValidationMissingAccount  ErrorCode = "VALIDATION_004"
	ValidationInvalidDate     ErrorCode = "VALIDATION_005"
	ValidationInvalidType     ErrorCode = "VALIDATION_006"
	ValidationRejectedByBank  ErrorCode = "VALIDATION_007"
	ValidationDuplicateSubmit ErrorCode = "VALIDATION_008"
)

// Network error codes (NETWORK_*)
const (
	NetworkUnreachable    ErrorCode = "NETWORK_001"
	NetworkServerError    ErrorCode = "NETWORK_002"
	NetworkCircuitOpen    ErrorCode = "NETWORK_003"
	NetworkRequestAborted ErrorCode = "NETWORK_004"
)

// Data shape error codes (DATA_*)
const (
	DataMissingToken  ErrorCode = "DATA_001"
	DataUndecodable   ErrorCode = "DATA_002"
	DataUnexpectedNil ErrorCode = "DATA_003"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthInvalidCredentials: "Invalid username or password",
	AuthMissingToken:       "You are not logged in",
	AuthRejectedToken:      "Your session is invalid or has expired",
	AuthForbidden:          "You are not allowed to perform this operation",

	// Validation errors
	ValidationGeneral:         "Validation failed",
	ValidationRequiredField:   "Required field is missing",
	ValidationNonPositive:     "Amount must be greater than zero",
	ValidationMissingAccount:  "Please enter valid destination and amount",
	ValidationInvalidDate:     "Please select date range",
	ValidationInvalidType:     "Invalid account type",
	ValidationRejectedByBank:  "The request was rejected",
	ValidationDuplicateSubmit: "A request for this account is already in progress",

	// Network errors
	NetworkUnreachable:    "The bank could not be reached",
	NetworkServerError:    "The bank failed to process the request",
	NetworkCircuitOpen:    "The bank is temporarily unavailable",
	NetworkRequestAborted: "The request was cancelled",

	// Data shape errors
	DataMissingToken:  "Invalid response from server",
	DataUndecodable:   "Unreadable response from server",
	DataUnexpectedNil: "Empty response from server",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}

// KindOf returns the taxonomy kind a code belongs to
func KindOf(code ErrorCode) Kind {
	switch code {
	case AuthInvalidCredentials, AuthMissingToken, AuthRejectedToken, AuthForbidden:
		return KindAuth
	case NetworkUnreachable, NetworkServerError, NetworkCircuitOpen, NetworkRequestAborted:
		return KindNetwork
	case DataMissingToken, DataUndecodable, DataUnexpectedNil:
		return KindDataShape
	default:
		return KindValidation
	}
}
