package errors

// ErrorCode identifies an application error class
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1
	ErrorCode_INVALID_ARGUMENT ErrorCode = 2
	ErrorCode_NOT_FOUND        ErrorCode = 3
	ErrorCode_ALREADY_EXISTS   ErrorCode = 4
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 5

	ErrorCode_MENTEE_NOT_FOUND   ErrorCode = 100
	ErrorCode_RESPONSE_NOT_FOUND ErrorCode = 101
	ErrorCode_VALIDATION_FAILED  ErrorCode = 102

	ErrorCode_MODEL_UNAVAILABLE      ErrorCode = 200
	ErrorCode_MODEL_RESPONSE_INVALID ErrorCode = 201

	ErrorCode_DATASTORE_FAILED     ErrorCode = 300
	ErrorCode_DB_CONNECTION_FAILED ErrorCode = 301
	ErrorCode_CACHE_FAILED         ErrorCode = 302
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                "OK",
	ErrorCode_INTERNAL:               "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:       "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:              "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:         "ALREADY_EXISTS",
	ErrorCode_INVALID_PAYLOAD:        "INVALID_PAYLOAD",
	ErrorCode_MENTEE_NOT_FOUND:       "MENTEE_NOT_FOUND",
	ErrorCode_RESPONSE_NOT_FOUND:     "RESPONSE_NOT_FOUND",
	ErrorCode_VALIDATION_FAILED:      "VALIDATION_FAILED",
	ErrorCode_MODEL_UNAVAILABLE:      "MODEL_UNAVAILABLE",
	ErrorCode_MODEL_RESPONSE_INVALID: "MODEL_RESPONSE_INVALID",
	ErrorCode_DATASTORE_FAILED:       "DATASTORE_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:   "DB_CONNECTION_FAILED",
	ErrorCode_CACHE_FAILED:           "CACHE_FAILED",
}

// String returns the symbolic name for the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
