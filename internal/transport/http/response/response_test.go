package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"user-portal/internal/domain"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"bad login", domain.ErrInvalidCredentials, 401, "Incorrect username or password"},
		{"bad token", domain.Wrap(domain.ErrInvalidToken, errors.New("sig")), 401, "Could not validate credentials"},
		{"expired", domain.ErrTokenExpired, 401, "Could not validate credentials"},
		{"gone subject", domain.ErrUserNotFound, 401, "Could not validate credentials"},
		{"protected", domain.ErrProtectedRole, 406, "Superadmin cannot be deleted via API."},
		{"forbidden", domain.ErrForbidden, 403, "Forbidden."},
		{"empty update", domain.ErrEmptyUpdate, 422, "At least one parameter for user update info should be provided"},
		{"not found", domain.ErrNotFound, 404, "user not found"},
		{"conflict", domain.Wrap(domain.ErrDuplicateEmail, errors.New("unique")), 409, "email already registered"},
		{"unavailable", domain.Wrap(domain.ErrStoreUnavailable, errors.New("conn refused")), 503, "Service Unavailable"},
		{"plain", errors.New("boom"), 500, "Internal Server Error"},
		{"wrapped", fmt.Errorf("ctx: %w", domain.ErrForbidden), 403, "Forbidden."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := FromError(tc.err)
			assert.Equal(t, tc.code, r.Code)
			assert.Equal(t, tc.msg, r.Msg)
		})
	}
}

func TestFromError_CombinedValidation(t *testing.T) {
	err := multierr.Combine(domain.NonAlphabetic("name"), domain.ErrMalformedEmail)
	r := FromError(err)
	assert.Equal(t, 422, r.Code)
	assert.Equal(t, "Name should contains only letters.; value is not a valid email address", r.Msg)

	data, ok := r.Data.(gin.H)
	require.True(t, ok)
	fields := data["errors"].([]FieldError)
	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Field)
	assert.Equal(t, "email", fields[1].Field)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, Status(CodeOK))
	assert.Equal(t, http.StatusNotAcceptable, Status(CodeNotAcceptable))
}

func TestNew_NeverNullData(t *testing.T) {
	assert.Equal(t, struct{}{}, New(0, "OK", nil).Data)
	assert.Equal(t, "Not Found", Error(CodeNotFound, "").Msg)
}
