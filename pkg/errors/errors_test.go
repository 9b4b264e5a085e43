package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeSuccess:         http.StatusOK,
		CodeInvalidParam:    http.StatusBadRequest,
		CodeEmptyPrompt:     http.StatusBadRequest,
		CodeSessionNotFound: http.StatusNotFound,
		CodeTooManyRequests: http.StatusTooManyRequests,
		CodeLLMCallFailed:   http.StatusBadGateway,
		CodeInternalError:   http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, New(code, "x").HTTPStatus, "code %s", code)
	}
}

func TestWithErrorDoesNotMutatePredefined(t *testing.T) {
	cause := stderrors.New("quota exceeded")
	wrapped := ErrLLMCallFailed.WithError(cause)

	assert.Nil(t, ErrLLMCallFailed.Err)
	assert.ErrorIs(t, wrapped, cause)
	assert.ErrorIs(t, wrapped, ErrLLMCallFailed)
	assert.Contains(t, wrapped.Error(), "quota exceeded")
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrEmptyPrompt)
	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, CodeEmptyPrompt, AsAppError(wrapped).Code)

	plain := stderrors.New("plain")
	assert.False(t, IsAppError(plain))
	got := AsAppError(plain)
	assert.Equal(t, CodeUnknown, got.Code)
	assert.Equal(t, plain, got.Err)
}
