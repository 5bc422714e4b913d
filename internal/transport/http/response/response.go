package response

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"

	"user-portal/internal/domain"
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New never leaves data null.
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error builds a failure envelope; an empty msg falls back to CodeMsgMap.
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

type FieldError struct {
	Field string `json:"field,omitempty"`
	Code  string `json:"code"`
	Msg   string `json:"msg"`
}

// FromError maps a domain error onto an envelope. Authentication failures
// other than a bad login all read the same, so the caller cannot tell a
// forged token from an expired one or a deleted account.
func FromError(err error) Resp {
	var de *domain.Error
	if !errors.As(err, &de) {
		return Error(CodeServerError, "")
	}

	switch de.Kind {
	case domain.KindAuthentication:
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return Error(CodeUnauthorized, de.Msg)
		}
		return Error(CodeUnauthorized, "")
	case domain.KindAuthorization:
		if errors.Is(err, domain.ErrProtectedRole) {
			return Error(CodeNotAcceptable, de.Msg)
		}
		return Error(CodeForbidden, de.Msg)
	case domain.KindValidation:
		fields := fieldErrors(err)
		msgs := make([]string, len(fields))
		for i, f := range fields {
			msgs[i] = f.Msg
		}
		return New(CodeUnprocessable, strings.Join(msgs, "; "), gin.H{"errors": fields})
	case domain.KindNotFound:
		return Error(CodeNotFound, de.Msg)
	case domain.KindConflict:
		return Error(CodeConflict, de.Msg)
	case domain.KindUnavailable:
		return Error(CodeServiceUnavailable, "")
	}
	return Error(CodeServerError, "")
}

func fieldErrors(err error) []FieldError {
	var out []FieldError
	for _, e := range multierr.Errors(err) {
		var de *domain.Error
		if errors.As(e, &de) {
			out = append(out, FieldError{Field: de.Field, Code: de.Code, Msg: de.Msg})
		}
	}
	return out
}

// Fail writes err as JSON with the matching HTTP status and aborts.
func Fail(c *gin.Context, err error) {
	r := FromError(err)
	c.AbortWithStatusJSON(Status(r.Code), r)
}

// Abort writes a bare code with an optional message and aborts.
func Abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(Status(code), Error(code, msg))
}
