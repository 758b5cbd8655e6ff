package errpage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/localblog/internal/errcatalog"
	"github.com/2beens/localblog/internal/kvstore"
)

func TestClassify(t *testing.T) {
	secret := errors.New("dial tcp 10.0.0.3:5432: password authentication failed")

	testCases := map[string]struct {
		err      error
		expected Response
	}{
		"catalog error": {
			err: errcatalog.Wrap(errcatalog.CodeResourceNotFound, errors.New("blog b1")),
			expected: Response{
				ErrorCode:  errcatalog.CodeResourceNotFound,
				StatusCode: http.StatusNotFound,
				Message:    "The requested resource could not be found.",
			},
		},
		"wrapped catalog error": {
			err: fmt.Errorf("handler: %w", errcatalog.New(errcatalog.CodePayloadTooLarge)),
			expected: Response{
				ErrorCode:  errcatalog.CodePayloadTooLarge,
				StatusCode: http.StatusRequestEntityTooLarge,
				Message:    "The data you're trying to send is too large. Please reduce the size.",
			},
		},
		"quota": {
			err: fmt.Errorf("write blogs: %w", kvstore.ErrQuotaExceeded),
			expected: Response{
				StatusCode: http.StatusInsufficientStorage,
				Message:    StorageFullMessage,
			},
		},
		"conflict": {
			err: kvstore.ErrConflict,
			expected: Response{
				StatusCode: http.StatusConflict,
				Message:    ConflictMessage,
			},
		},
		"timeout": {
			err: fmt.Errorf("read blogs: %w", context.DeadlineExceeded),
			expected: Response{
				StatusCode: http.StatusGatewayTimeout,
				Message:    "The request took too long to process. Please try again.",
			},
		},
		"unexpected": {
			err: secret,
			expected: Response{
				StatusCode: http.StatusInternalServerError,
				Message:    "A server error occurred. Please try again.",
			},
		},
		"nil": {
			err: nil,
			expected: Response{
				StatusCode: http.StatusInternalServerError,
				Message:    "A server error occurred. Please try again.",
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.err, false))
		})
	}
}

func TestClassify_Debug(t *testing.T) {
	err := errors.New("dial tcp: connection refused")

	resp := Classify(err, false)
	assert.Empty(t, resp.Detail)

	resp = Classify(err, true)
	assert.Equal(t, "dial tcp: connection refused", resp.Detail)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRespond(t *testing.T) {
	rr := httptest.NewRecorder()
	Respond(rr, errors.New("internal thing"), false)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotContains(t, rr.Body.String(), "internal thing")

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "A server error occurred. Please try again.", resp.Message)
}

func TestRespondStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondStatus(rr, http.StatusUnauthorized, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"statusCode":401,"message":"You are not authorized to access this resource."}`, rr.Body.String())

	rr = httptest.NewRecorder()
	RespondStatus(rr, http.StatusBadRequest, "title is required")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"statusCode":400,"message":"title is required"}`, rr.Body.String())
}

func TestRespondCode(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondCode(rr, errcatalog.CodeFunctionThrottled)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{
		"errorCode":"FUNCTION_THROTTLED",
		"statusCode":503,
		"message":"Too many requests. Please wait a moment and try again."
	}`, rr.Body.String())

	// unknown codes degrade to the generic message
	rr = httptest.NewRecorder()
	RespondCode(rr, "NOPE")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"statusCode":500,"message":"An unexpected error occurred. Please try again."}`, rr.Body.String())
}
