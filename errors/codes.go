package errors

// ErrorCode identifies an application error independently of its HTTP status.
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = 0
	ErrorCode_HTTP_OK     ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_PERMISSION_DENIED ErrorCode = 1003
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1004
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1005

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001

	// Tasks
	ErrorCode_TASK_NOT_FOUND      ErrorCode = 3000
	ErrorCode_TASK_INVALID_STATUS ErrorCode = 3001
	ErrorCode_INVALID_PLAN_FILTER ErrorCode = 3002

	// OCR
	ErrorCode_OCR_EMPTY_INPUT        ErrorCode = 4000
	ErrorCode_OCR_RECOGNITION_FAILED ErrorCode = 4001
	ErrorCode_OCR_UNSUPPORTED_MEDIA  ErrorCode = 4002

	// Integrations
	ErrorCode_INTEGRATION_BACKEND_UNAVAILABLE ErrorCode = 5000
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 5001
	ErrorCode_DB_QUERY_FAILED                 ErrorCode = 5003
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                     "UNSPECIFIED",
	ErrorCode_HTTP_OK:                         "HTTP_OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_PERMISSION_DENIED:               "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:              "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:              "AUTH_TOKEN_EXPIRED",
	ErrorCode_TASK_NOT_FOUND:                  "TASK_NOT_FOUND",
	ErrorCode_TASK_INVALID_STATUS:             "TASK_INVALID_STATUS",
	ErrorCode_INVALID_PLAN_FILTER:             "INVALID_PLAN_FILTER",
	ErrorCode_OCR_EMPTY_INPUT:                 "OCR_EMPTY_INPUT",
	ErrorCode_OCR_RECOGNITION_FAILED:          "OCR_RECOGNITION_FAILED",
	ErrorCode_OCR_UNSUPPORTED_MEDIA:           "OCR_UNSUPPORTED_MEDIA",
	ErrorCode_INTEGRATION_BACKEND_UNAVAILABLE: "INTEGRATION_BACKEND_UNAVAILABLE",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText lets codes render by name in JSON bodies.
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
