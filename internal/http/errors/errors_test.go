package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	cause := stderrors.New("boom")

	got := FromError(cause)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.ErrorIs(t, got, cause)

	wrapped := fmt.Errorf("login: %w", ErrAuthProvider)
	assert.Same(t, ErrAuthProvider, FromError(wrapped))
}

func TestWithDetailCopies(t *testing.T) {
	e := ErrBadRequest.WithDetail("code is required")
	assert.Equal(t, "code is required", e.Detail)
	assert.Empty(t, ErrBadRequest.Detail)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrSessionCreation.WithCause(stderrors.New("redis down")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SESSION_CREATION_FAILED", body["code"])
	assert.NotContains(t, rec.Body.String(), "redis down")
}
