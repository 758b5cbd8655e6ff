package errcatalog

import (
	"errors"
	"fmt"
)

// Error carries a registry code through regular Go error chains.
type Error struct {
	Code    string
	Status  int
	Message string
	Cause   error
}

// New builds an error for a registered code, filling the status and the
// user message from the registry. Unknown codes keep a zero status.
func New(code string) *Error {
	rec, ok := byCode[code]
	if !ok {
		return &Error{Code: code, Message: GenericMessage}
	}
	return &Error{
		Code:    rec.Code,
		Status:  rec.Status,
		Message: rec.UserMessage,
	}
}

// Wrap is New with an underlying cause.
func Wrap(code string, cause error) *Error {
	e := New(code)
	e.Cause = cause
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) ErrorCode() string {
	return e.Code
}

func (e *Error) StatusCode() int {
	return e.Status
}

func (e *Error) UserMessage() string {
	return e.Message
}

type coder interface {
	ErrorCode() string
}

type statusCoder interface {
	StatusCode() int
}

type userMessenger interface {
	UserMessage() string
}

// codeOf extracts an error code from error chains, code carriers and decoded JSON objects.
func codeOf(v any) string {
	switch t := v.(type) {
	case map[string]any:
		code, _ := t["code"].(string)
		return code
	case map[string]string:
		return t["code"]
	case error:
		var c coder
		if errors.As(t, &c) {
			return c.ErrorCode()
		}
		return ""
	case coder:
		return t.ErrorCode()
	}
	return ""
}

func statusOf(v any) int {
	switch t := v.(type) {
	case map[string]any:
		status, _ := asStatus(t["status"])
		return status
	case error:
		var s statusCoder
		if errors.As(t, &s) {
			return s.StatusCode()
		}
		return 0
	case statusCoder:
		return t.StatusCode()
	}
	return 0
}

func messageOf(v any) string {
	switch t := v.(type) {
	case map[string]any:
		msg, _ := t["message"].(string)
		return msg
	case map[string]string:
		return t["message"]
	case userMessenger:
		return t.UserMessage()
	case error:
		var m userMessenger
		if errors.As(t, &m) {
			return m.UserMessage()
		}
		return t.Error()
	case fmt.Stringer:
		return t.String()
	}
	return ""
}
