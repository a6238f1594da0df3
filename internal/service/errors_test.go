package service

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAsServiceError(t *testing.T) {
	assert.Nil(t, asServiceError(nil))

	wrapped := errors.WithMessage(NewError(ErrorCodeStageMismatch, "wrong stage"), "transaction function failed")
	assert.Equal(t, NewError(ErrorCodeStageMismatch, "wrong stage"), asServiceError(wrapped))

	got := asServiceError(errors.New("failed to commit transaction"))
	assert.Equal(t, ErrorCodeUnspecified, got.Code)
}
