package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Message(t *testing.T) {
	err := Unauthorized("identity check", nil)
	assert.Equal(t, "UNAUTHORIZED: identity check", err.Error())

	wrapped := Unavailable("fetch listings", fmt.Errorf("dial tcp: refused"))
	assert.Equal(t, "UNAVAILABLE: fetch listings: dial tcp: refused", wrapped.Error())
	assert.NotEmpty(t, wrapped.StackTrace())
}

func TestDomainError_IsMatchesByType(t *testing.T) {
	sentinel := Unauthorized("not authenticated", nil)
	err := fmt.Errorf("get current user: %w", Unauthorized("status 401", nil))

	assert.True(t, stderrors.Is(err, sentinel))
	assert.False(t, stderrors.Is(err, Unavailable("x", nil)))
	assert.True(t, IsType(err, ErrTypeUnauthorized))
	assert.Equal(t, ErrorType(""), TypeOf(fmt.Errorf("plain")))
}

func TestDomainError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Internal("decode", cause)
	assert.True(t, stderrors.Is(err, cause))
}
