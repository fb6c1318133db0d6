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
		CodeValidationFailed:  http.StatusBadRequest,
		CodeInvalidParam:      http.StatusBadRequest,
		CodeStoryNotFound:     http.StatusNotFound,
		CodeTooManyRequests:   http.StatusTooManyRequests,
		CodeLLMProviderError:  http.StatusBadGateway,
		CodeGenerationTimeout: http.StatusGatewayTimeout,
		CodeStorageError:      http.StatusInternalServerError,
		CodeUnknown:           http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, New(code, "x").HTTPStatus, "code %s", code)
	}
}

func TestAsAppErrorUnwrapsChain(t *testing.T) {
	base := Validation("empty prompt")
	wrapped := fmt.Errorf("generate: %w", base)

	got := AsAppError(wrapped)
	assert.Same(t, base, got)
	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsCode(wrapped, CodeValidationFailed))
	assert.True(t, stderrors.Is(wrapped, ErrValidationFailed))
}

func TestAsAppErrorWrapsForeignError(t *testing.T) {
	got := AsAppError(stderrors.New("boom"))
	assert.Equal(t, CodeUnknown, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
}

func TestWithDetailDoesNotMutatePredefined(t *testing.T) {
	e := ErrStoryNotFound.WithDetail("id=abc")
	assert.Equal(t, "id=abc", e.Detail)
	assert.Empty(t, ErrStoryNotFound.Detail)
}

func TestProviderHidesCause(t *testing.T) {
	cause := stderrors.New("upstream 503: quota")
	e := Provider(cause)
	assert.Equal(t, "story generation failed, please try again", e.Message)
	assert.ErrorIs(t, e, cause)
}
