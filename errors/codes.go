package errors

// ErrorCode identifies an application error category
type ErrorCode int32

const (
	ErrorCode_UNKNOWN          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1
	ErrorCode_INVALID_ARGUMENT ErrorCode = 2
	ErrorCode_NOT_FOUND        ErrorCode = 3
	ErrorCode_ALREADY_EXISTS   ErrorCode = 4
	ErrorCode_PERMISSION_DENIED ErrorCode = 5
	ErrorCode_UNAUTHENTICATED  ErrorCode = 6
	ErrorCode_FORBIDDEN        ErrorCode = 7
	ErrorCode_HTTP_OK          ErrorCode = 200

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = 100
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = 101
	ErrorCode_AUTH_INVALID_CREDENTIALS   ErrorCode = 102
	ErrorCode_AUTH_USER_NOT_FOUND        ErrorCode = 103
	ErrorCode_AUTH_USER_ALREADY_EXISTS   ErrorCode = 104
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = 105

	// Recording sessions
	ErrorCode_SESSION_NOT_FOUND   ErrorCode = 300
	ErrorCode_MISSING_AUDIO       ErrorCode = 301
	ErrorCode_INVALID_ATTACHMENTS ErrorCode = 302
	ErrorCode_UPLOAD_FAILED       ErrorCode = 303

	// AI pipeline
	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 400
	ErrorCode_AI_ANALYSIS_FAILED      ErrorCode = 401
	ErrorCode_AI_SERVICE_UNAVAILABLE  ErrorCode = 402

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 500
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 501
	ErrorCode_DB_QUERY_FAILED            ErrorCode = 502
	ErrorCode_DB_CONNECTION_FAILED       ErrorCode = 503

	// Payload
	ErrorCode_INVALID_PAYLOAD ErrorCode = 600
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                    "UNKNOWN",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:          "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_CREDENTIALS:   "AUTH_INVALID_CREDENTIALS",
	ErrorCode_AUTH_USER_NOT_FOUND:        "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_USER_ALREADY_EXISTS:   "AUTH_USER_ALREADY_EXISTS",
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN: "AUTH_INVALID_REFRESH_TOKEN",
	ErrorCode_SESSION_NOT_FOUND:          "SESSION_NOT_FOUND",
	ErrorCode_MISSING_AUDIO:              "MISSING_AUDIO",
	ErrorCode_INVALID_ATTACHMENTS:        "INVALID_ATTACHMENTS",
	ErrorCode_UPLOAD_FAILED:              "UPLOAD_FAILED",
	ErrorCode_AI_TRANSCRIPTION_FAILED:    "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_ANALYSIS_FAILED:         "AI_ANALYSIS_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:     "AI_SERVICE_UNAVAILABLE",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:       "DB_CONNECTION_FAILED",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
