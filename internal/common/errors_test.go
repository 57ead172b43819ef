package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	appErr := NewAppError("CRM_UNAVAILABLE", "contact directory request failed", http.StatusBadGateway, cause)

	require.True(t, IsAppError(appErr))
	require.True(t, errors.Is(appErr, cause))
	require.Equal(t, "dial tcp: timeout", appErr.Error())

	wrapped := fmt.Errorf("fetch contact: %w", appErr)
	require.True(t, IsAppError(wrapped))
}

func TestAppErrorMessageWithoutCause(t *testing.T) {
	appErr := NewAppError("NOT_FOUND", "quote not found", http.StatusNotFound, nil)
	require.Equal(t, "quote not found", appErr.Error())
	require.NoError(t, appErr.Unwrap())
}

func TestIsAppErrorPlainError(t *testing.T) {
	require.False(t, IsAppError(errors.New("plain")))
	require.False(t, IsAppError(nil))
}

func TestWriteErrorHonoursAppErrorMetadata(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewAppError("STORE_FAILED", "quote could not be saved", http.StatusInternalServerError, errors.New("connection refused")))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "STORE_FAILED", body.Error.Code)
	require.Equal(t, "quote could not be saved", body.Error.Message)
}

func TestWriteErrorFallsBackToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("unexpected"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INTERNAL", body.Error.Code)
}
