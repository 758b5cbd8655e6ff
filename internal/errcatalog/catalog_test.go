package errcatalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SelfConsistent(t *testing.T) {
	require.Len(t, registry, 54)
	seen := make(map[string]bool)
	for _, rec := range registry {
		assert.False(t, seen[rec.Code], "duplicate code %s", rec.Code)
		seen[rec.Code] = true

		found, ok := LookupByCode(rec.Code)
		require.True(t, ok, rec.Code)
		assert.Equal(t, rec.Code, found.Code)
		assert.Equal(t, rec, found)
		assert.NotEmpty(t, found.UserMessage)
		assert.NotEmpty(t, found.Category)
		assert.NotZero(t, found.Status)
	}
}

func TestLookupByCode_ExactMatchOnly(t *testing.T) {
	_, ok := LookupByCode("DEPLOYMENT_BLOCKED")
	assert.True(t, ok)

	for _, code := range []string{"deployment_blocked", " DEPLOYMENT_BLOCKED", "DEPLOYMENT_BLOCKED ", "", "NOPE"} {
		_, ok := LookupByCode(code)
		assert.False(t, ok, code)
	}
}

func TestLookupByStatus(t *testing.T) {
	var codes []string
	for _, rec := range LookupByStatus(404) {
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []string{
		"DEPLOYMENT_NOT_FOUND",
		"DNS_HOSTNAME_RESOLVED_PRIVATE",
		"NOT_FOUND",
		"RESOURCE_NOT_FOUND",
		"SANDBOX_NOT_FOUND",
	}, codes)

	none := LookupByStatus(999)
	require.NotNil(t, none)
	assert.Empty(t, none)

	// every status lookup returns exactly the records declaring it, in order
	for status := range byStatus {
		var expected []Record
		for _, rec := range registry {
			if rec.Status == status {
				expected = append(expected, rec)
			}
		}
		assert.Equal(t, expected, LookupByStatus(status), "status %d", status)
	}
}

func TestLookupByStatus_ReturnsCopy(t *testing.T) {
	records := LookupByStatus(410)
	require.NotEmpty(t, records)
	records[0].UserMessage = "changed"
	assert.NotEqual(t, "changed", LookupByStatus(410)[0].UserMessage)
}

func TestFriendlyMessage(t *testing.T) {
	for caseName, tc := range map[string]struct {
		input    any
		expected string
	}{
		"status, first registry match": {
			input:    404,
			expected: "The requested page could not be found.",
		},
		"status as int64": {
			input:    int64(405),
			expected: "The request method is not allowed.",
		},
		"status as whole float": {
			input:    float64(410),
			expected: "This deployment no longer exists.",
		},
		"status only in fallback table": {
			input:    401,
			expected: "You are not authorized to access this resource.",
		},
		"status 429 fallback": {
			input:    429,
			expected: "Too many requests. Please wait a moment and try again.",
		},
		"unknown status": {
			input:    999,
			expected: GenericMessage,
		},
		"known code": {
			input:    "DEPLOYMENT_BLOCKED",
			expected: "This deployment is currently blocked. Please contact support.",
		},
		"unknown code": {
			input:    "UNKNOWN_CODE_XYZ",
			expected: GenericMessage,
		},
		"numeric string is a code": {
			input:    "404",
			expected: GenericMessage,
		},
		"nil": {
			input:    nil,
			expected: GenericMessage,
		},
		"bool": {
			input:    true,
			expected: GenericMessage,
		},
		"fractional float": {
			input:    404.5,
			expected: GenericMessage,
		},
	} {
		t.Run(caseName, func(t *testing.T) {
			assert.Equal(t, tc.expected, FriendlyMessage(tc.input))
		})
	}
}

func TestIsKnownError(t *testing.T) {
	for caseName, tc := range map[string]struct {
		input    any
		expected bool
	}{
		"known code":           {input: "DEPLOYMENT_BLOCKED", expected: true},
		"unknown code":         {input: "NOPE", expected: false},
		"known status":         {input: 404, expected: true},
		"unknown status":       {input: 999, expected: false},
		"fallback-only status": {input: 401, expected: false},
		"map with known code":  {input: map[string]any{"code": "DEPLOYMENT_BLOCKED"}, expected: true},
		"map with unknown":     {input: map[string]any{"code": "NOPE"}, expected: false},
		"map without code":     {input: map[string]any{"status": 404}, expected: false},
		"map with bad code":    {input: map[string]any{"code": 42}, expected: false},
		"catalog error":        {input: New("URL_TOO_LONG"), expected: true},
		"wrapped error":        {input: fmt.Errorf("load: %w", New("URL_TOO_LONG")), expected: true},
		"unknown catalog code": {input: &Error{Code: "NOPE"}, expected: false},
		"plain error":          {input: errors.New("DEPLOYMENT_BLOCKED"), expected: false},
		"nil":                  {input: nil, expected: false},
		"struct":               {input: struct{}{}, expected: false},
	} {
		t.Run(caseName, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsKnownError(tc.input))
		})
	}
}

func TestError(t *testing.T) {
	err := New(CodeResourceNotFound)
	assert.Equal(t, CodeResourceNotFound, err.ErrorCode())
	assert.Equal(t, 404, err.StatusCode())
	assert.Equal(t, "The requested resource could not be found.", err.UserMessage())

	cause := errors.New("blog 42 missing")
	wrapped := fmt.Errorf("get blog: %w", Wrap(CodeResourceNotFound, cause))
	assert.True(t, errors.Is(wrapped, New(CodeResourceNotFound)))
	assert.False(t, errors.Is(wrapped, New(CodeNotFound)))
	assert.True(t, errors.Is(wrapped, cause))
	assert.Contains(t, wrapped.Error(), "blog 42 missing")

	unknown := New("NOPE")
	assert.Zero(t, unknown.StatusCode())
	assert.Equal(t, GenericMessage, unknown.UserMessage())
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	require.Len(t, all, len(registry))
	all[0].Code = "changed"
	assert.Equal(t, "BODY_NOT_A_STRING_FROM_FUNCTION", registry[0].Code)
}
