package errcatalog

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusOnlyErr struct {
	status int
}

func (e statusOnlyErr) Error() string   { return fmt.Sprintf("status %d", e.status) }
func (e statusOnlyErr) StatusCode() int { return e.status }

func TestClassify(t *testing.T) {
	for caseName, tc := range map[string]struct {
		input    any
		expected Classification
	}{
		"bare known code": {
			input: "URL_TOO_LONG",
			expected: Classification{
				ErrorCode: "URL_TOO_LONG",
				Message:   "The URL is too long. Please use a shorter URL.",
			},
		},
		"bare unknown code": {
			input: "NOPE",
			expected: Classification{
				ErrorCode: "NOPE",
				Message:   GenericMessage,
			},
		},
		"bare status": {
			input: 503,
			expected: Classification{
				StatusCode: 503,
				Message:    "This service is temporarily paused. Please check back later.",
			},
		},
		"code wins over status": {
			input: map[string]any{"code": "DEPLOYMENT_BLOCKED", "status": float64(500), "message": "boom"},
			expected: Classification{
				ErrorCode:  "DEPLOYMENT_BLOCKED",
				StatusCode: 403,
				Message:    "This deployment is currently blocked. Please contact support.",
			},
		},
		"unknown code keeps value message, ignores value status": {
			input: map[string]any{"code": "NOPE", "status": float64(500), "message": "custom text"},
			expected: Classification{
				ErrorCode: "NOPE",
				Message:   "custom text",
			},
		},
		"unknown code without message": {
			input: map[string]any{"code": "NOPE"},
			expected: Classification{
				ErrorCode: "NOPE",
				Message:   GenericMessage,
			},
		},
		"status field": {
			input: map[string]any{"status": float64(401), "message": "ignored"},
			expected: Classification{
				StatusCode: 401,
				Message:    "You are not authorized to access this resource.",
			},
		},
		"message field": {
			input: map[string]any{"message": "disk on fire"},
			expected: Classification{
				Message: "disk on fire",
			},
		},
		"empty object": {
			input:    map[string]any{},
			expected: Classification{Message: GenericMessage},
		},
		"nil": {
			input:    nil,
			expected: Classification{Message: GenericMessage},
		},
		"catalog error in chain": {
			input: fmt.Errorf("delete post: %w", New(CodeResourceNotFound)),
			expected: Classification{
				ErrorCode:  CodeResourceNotFound,
				StatusCode: 404,
				Message:    "The requested resource could not be found.",
			},
		},
		"status error": {
			input: statusOnlyErr{status: 429},
			expected: Classification{
				StatusCode: 429,
				Message:    "Too many requests. Please wait a moment and try again.",
			},
		},
		"plain error": {
			input: errors.New("connection refused"),
			expected: Classification{
				Message: "connection refused",
			},
		},
	} {
		t.Run(caseName, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.input))
		})
	}
}

func TestClassifyCode(t *testing.T) {
	assert.Equal(t, Classification{
		ErrorCode:  "SANDBOX_STOPPED",
		StatusCode: 410,
		Message:    "The service is no longer available.",
	}, ClassifyCode("SANDBOX_STOPPED"))

	assert.Equal(t, Classification{Message: GenericMessage}, ClassifyCode("NOPE"))
}

func TestClassifyResponse(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		assert.Equal(t, Classification{Message: GenericMessage}, ClassifyResponse(nil))
	})

	t.Run("header code and json message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rec.Header().Set(ErrorCodeHeader, "FUNCTION_INVOCATION_TIMEOUT")
		rec.WriteHeader(http.StatusGatewayTimeout)
		_, _ = rec.WriteString(`{"message":"the function timed out"}`)

		c := ClassifyResponse(rec.Result())
		assert.Equal(t, "FUNCTION_INVOCATION_TIMEOUT", c.ErrorCode)
		assert.Equal(t, http.StatusGatewayTimeout, c.StatusCode)
		assert.Equal(t, "the function timed out", c.Message)
	})

	t.Run("non json body falls back to status message", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusBadGateway,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("<html>bad gateway</html>")),
		}
		c := ClassifyResponse(resp)
		assert.Empty(t, c.ErrorCode)
		assert.Equal(t, http.StatusBadGateway, c.StatusCode)
		assert.Equal(t, MessageForStatus(http.StatusBadGateway), c.Message)
	})

	t.Run("status without registry match", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusRequestTimeout,
			Header:     http.Header{},
		}
		c := ClassifyResponse(resp)
		assert.Equal(t, "Request timeout. Please try again.", c.Message)
	})
}

func TestBoundaryMessage(t *testing.T) {
	assert.Equal(t, BoundaryFallbackMessage, BoundaryMessage(nil))
	assert.Equal(t, BoundaryFallbackMessage, BoundaryMessage(errors.New("nil pointer dereference")))
	assert.Equal(t,
		"The request took too long to process. Please try again.",
		BoundaryMessage(errors.New("FUNCTION_INVOCATION_TIMEOUT")),
	)

	msg := BoundaryMessage(fmt.Errorf("render: %w", New("TOO_MANY_RANGES")))
	require.NotEqual(t, BoundaryFallbackMessage, msg)
	assert.Equal(t, "The request contains too many ranges.", msg)
}
