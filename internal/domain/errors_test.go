package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(ErrStoreUnavailable, cause)

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
	// the sentinel itself is untouched
	assert.Nil(t, ErrStoreUnavailable.Err)
}

func TestError_NonAlphabeticField(t *testing.T) {
	err := fmt.Errorf("update: %w", NonAlphabetic("surname"))
	assert.ErrorIs(t, err, NonAlphabetic("surname"))
	assert.NotErrorIs(t, err, NonAlphabetic("name"))
	assert.ErrorIs(t, err, &Error{Code: "non_alphabetic"})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{ErrInvalidToken, KindAuthentication},
		{ErrTokenExpired, KindAuthentication},
		{ErrUserNotFound, KindAuthentication},
		{ErrProtectedRole, KindAuthorization},
		{ErrForbidden, KindAuthorization},
		{ErrEmptyUpdate, KindValidation},
		{NonAlphabetic("name"), KindValidation},
		{ErrNotFound, KindNotFound},
		{fmt.Errorf("wrapped: %w", ErrDuplicateEmail), KindConflict},
		{Wrap(ErrStoreUnavailable, errors.New("x")), KindUnavailable},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), tt.err.Error())
	}
}
