package errcatalog

import (
	"math"
)

// GenericMessage is returned whenever an input can not be classified.
const GenericMessage = "An unexpected error occurred. Please try again."

// Codes referenced from outside the catalog.
const (
	CodeDeploymentNotFound   = "DEPLOYMENT_NOT_FOUND"
	CodeNotFound             = "NOT_FOUND"
	CodeResourceNotFound     = "RESOURCE_NOT_FOUND"
	CodeInvalidRequestMethod = "INVALID_REQUEST_METHOD"
	CodeMalformedHeader      = "MALFORMED_REQUEST_HEADER"
	CodePayloadTooLarge      = "FUNCTION_PAYLOAD_TOO_LARGE"
	CodeFunctionFailed       = "FUNCTION_INVOCATION_FAILED"
	CodeFunctionThrottled    = "FUNCTION_THROTTLED"
)

// Record describes a single registered error code.
type Record struct {
	Code        string `json:"code"`
	Status      int    `json:"status"`
	Category    string `json:"category"`
	Message     string `json:"message"`
	UserMessage string `json:"userMessage"`
}

var (
	byCode   map[string]Record
	byStatus map[int][]Record
)

// fallback messages for common HTTP statuses without a registered code
var statusMessages = map[int]string{
	400: "Bad request. Please check your input and try again.",
	401: "You are not authorized to access this resource.",
	403: "Access forbidden. You don't have permission.",
	404: "The requested resource could not be found.",
	408: "Request timeout. Please try again.",
	413: "The request is too large. Please reduce the size.",
	414: "The URL is too long. Please use a shorter URL.",
	416: "The request range is invalid.",
	429: "Too many requests. Please wait a moment and try again.",
	431: "The request headers are too large.",
	500: "Internal server error. Please try again later.",
	502: "Bad gateway. The server is temporarily unavailable.",
	503: "Service unavailable. Please try again later.",
	504: "Gateway timeout. The request took too long.",
	508: "A processing error occurred. Please refresh the page.",
}

func init() {
	byCode = make(map[string]Record, len(registry))
	byStatus = make(map[int][]Record)
	for _, rec := range registry {
		byCode[rec.Code] = rec
		byStatus[rec.Status] = append(byStatus[rec.Status], rec)
	}
}

// All returns a copy of the registry in declaration order.
func All() []Record {
	records := make([]Record, len(registry))
	copy(records, registry)
	return records
}

// LookupByCode finds the record registered under the exact code.
func LookupByCode(code string) (Record, bool) {
	rec, ok := byCode[code]
	return rec, ok
}

// LookupByStatus returns every record sharing the status, in registry order.
// The result is never nil.
func LookupByStatus(status int) []Record {
	matches := byStatus[status]
	records := make([]Record, len(matches))
	copy(records, matches)
	return records
}

// MessageForCode returns the user message of the code, or the generic message.
func MessageForCode(code string) string {
	if rec, ok := byCode[code]; ok {
		return rec.UserMessage
	}
	return GenericMessage
}

// MessageForStatus returns the user message of the first record with the status,
// then the common HTTP status message, then the generic message.
func MessageForStatus(status int) string {
	if matches := byStatus[status]; len(matches) > 0 {
		return matches[0].UserMessage
	}
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return GenericMessage
}

// FriendlyMessage accepts an error code (string) or an HTTP status (any integer kind).
// Anything else yields the generic message.
func FriendlyMessage(codeOrStatus any) string {
	if status, ok := asStatus(codeOrStatus); ok {
		return MessageForStatus(status)
	}
	if code, ok := codeOrStatus.(string); ok {
		return MessageForCode(code)
	}
	return GenericMessage
}

// IsKnownError reports whether the input is a registered code, a status shared by
// at least one record, or a value carrying a registered code.
func IsKnownError(input any) bool {
	switch v := input.(type) {
	case nil:
		return false
	case string:
		_, ok := byCode[v]
		return ok
	}

	if status, ok := asStatus(input); ok {
		return len(byStatus[status]) > 0
	}

	if code := codeOf(input); code != "" {
		_, ok := byCode[code]
		return ok
	}

	return false
}

// asStatus converts integer kinds to a status code. Floats only count when they
// hold a whole number.
func asStatus(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return floatStatus(float64(n))
	case float64:
		return floatStatus(n)
	}
	return 0, false
}

func floatStatus(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
