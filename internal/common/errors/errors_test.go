package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name            string
		err             *StandardError
		expectedCode    string
		expectedRetries int
	}{
		{
			name:            "business error is never retried",
			err:             NewProfileValidationFailedError("landSize: must be greater than 0"),
			expectedCode:    "PROFILE_VALIDATION_FAILED",
			expectedRetries: 0,
		},
		{
			name:            "technical error gets three retries",
			err:             NewDatabaseInsertFailedError(fmt.Errorf("connection reset")),
			expectedCode:    "DATABASE_INSERT_FAILED",
			expectedRetries: 3,
		},
		{
			name:            "timeouts get two retries",
			err:             NewSearchTimeoutError("schemes"),
			expectedCode:    "SEARCH_TIMEOUT",
			expectedRetries: 2,
		},
		{
			name: "retryable code marked non-retryable is not retried",
			err: &StandardError{
				Code:      ErrCodeQueryExecutionFailed,
				Message:   "bad",
				Retryable: false,
			},
			expectedCode:    "QUERY_EXECUTION_FAILED",
			expectedRetries: 0,
		},
		{
			name:            "unmapped code passes through",
			err:             &StandardError{Code: "SOMETHING_NEW", Message: "new"},
			expectedCode:    "SOMETHING_NEW",
			expectedRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmnErr.Code)
			assert.Equal(t, tt.expectedRetries, bpmnErr.Retries)
			assert.Equal(t, string(tt.err.Code), bpmnErr.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestBPMNError_ToErrorVariablesIncludesMetadata(t *testing.T) {
	stdErr := NewProfileNotFoundError("F-42").WithMetadata("farmerId", "F-42")
	vars := ConvertToBPMNError(stdErr).ToErrorVariables()

	assert.Equal(t, "PROFILE_NOT_FOUND", vars["errorCode"])
	assert.Equal(t, "Farmer profile not found", vars["errorMessage"])
	assert.Equal(t, "farmerId: F-42", vars["errorDetails"])
	assert.Equal(t, false, vars["retryable"])
	assert.Equal(t, "F-42", vars["farmerId"])
}

func TestNormalize(t *testing.T) {
	original := NewCacheUnavailableError(fmt.Errorf("dial tcp: refused"))
	wrapped := fmt.Errorf("load profile: %w", original)

	got := Normalize(wrapped)
	require.NotNil(t, got)
	assert.Same(t, original, got)

	plain := Normalize(fmt.Errorf("kaboom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "kaboom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestRemainingRetries(t *testing.T) {
	assert.Equal(t, int32(3), remainingRetries(5, 3))
	assert.Equal(t, int32(2), remainingRetries(3, 3))
	assert.Equal(t, int32(0), remainingRetries(1, 3))
	assert.Equal(t, int32(2), remainingRetries(0, 2))
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeProfileValidationFailed:       "PROFILE",
		ErrCodeProfileNotFound:               "PROFILE",
		ErrCodeDuplicateAnalysis:             "DATABASE",
		ErrCodeQueryTimeout:                  "DATABASE",
		ErrCodeCacheUnavailable:              "CACHE",
		ErrCodeIndexNotFound:                 "SEARCH",
		ErrCodeElasticsearchConnectionFailed: "SEARCH",
		ErrCodeNotificationSendFailed:        "NOTIFICATION",
		ErrCodeInvalidNotificationType:       "NOTIFICATION",
		ErrCodeInvalidDocumentList:           "VALIDATION",
		ErrCodeInternal:                      "OTHER",
	}
	for code, want := range tests {
		t.Run(string(code), func(t *testing.T) {
			assert.Equal(t, want, GetErrorCategory(code))
		})
	}
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
	assert.True(t, IsRetryableErrorCode(ErrCodeQueryTimeout))
	assert.False(t, IsRetryableErrorCode(ErrCodeDuplicateAnalysis))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidCatalog))
}
