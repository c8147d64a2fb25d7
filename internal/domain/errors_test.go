package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(ErrCodeData, "entry has no embedding")
	assert.Equal(t, "[DATA_ERROR] entry has no embedding", err.Error())

	cause := errors.New("connection refused")
	wrapped := NewServiceError("embedding request failed", cause)
	assert.Equal(t, "[SERVICE_ERROR] embedding request failed: connection refused", wrapped.Error())
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := NewStoreError("failed to load entries", cause)

	assert.True(t, errors.Is(err, cause))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeModelLoad, ErrorCode(NewModelLoadError("model pull failed", nil)))
	assert.Equal(t, ErrCodeData, ErrorCode(ErrMissingEmbedding))
	assert.Equal(t, "", ErrorCode(fmt.Errorf("plain error")))
	assert.Equal(t, "", ErrorCode(nil))
}
