package apperrors

import (
	"errors"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("TestError", func(t *testing.T) {
		ErrBaseErr := New("base error")
		assert.Equal(t, "base error", ErrBaseErr.Error())
		assert.Equal(t, "msg", ErrBaseErr.New("msg").Error())
		assert.ErrorIs(t, ErrBaseErr, ErrBaseErr)

		ErrFirstLevel := ErrBaseErr.New("first level")
		assert.Equal(t, "first level", ErrFirstLevel.Error())
		assert.ErrorIs(t, ErrFirstLevel, ErrBaseErr)

		ErrAnotherErr := New("another error")
		ErrWrappedErr := ErrFirstLevel.Err(ErrAnotherErr)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, ErrFirstLevel)
		assert.ErrorIs(t, ErrWrappedErr, ErrAnotherErr)

		err := pkgerrors.New("error")
		ErrWrappedErr = ErrFirstLevel.Err(err)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, err)

		ErrWrappedErr = ErrFirstLevel.MsgErr("msg", err)
		assert.Equal(t, "msg", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, err)
	})
}

func TestSentinelsAreNotModified(t *testing.T) {
	ErrKind := New("kind").SetStatusCode(http.StatusNotFound)
	cause := errors.New("driver failure")

	derived := ErrKind.Err(cause)
	renamed := ErrKind.Msg("renamed")
	prefixed := ErrKind.Prefix("employee")

	assert.Equal(t, "kind", ErrKind.Error())
	assert.Empty(t, ErrKind.Unwrap())
	assert.Equal(t, "renamed", renamed.Error())
	assert.Equal(t, "employee: kind", prefixed.Error())
	assert.ErrorIs(t, derived, ErrKind)
	assert.ErrorIs(t, renamed, ErrKind)
	assert.Equal(t, http.StatusNotFound, derived.StatusCode())
	assert.False(t, errors.Is(ErrKind, cause))
}

func TestErrorAll(t *testing.T) {
	ErrQuery := New("failed to execute query").SetExpandError(true)
	tests := []struct {
		name string
		err  Error
		want string
	}{
		{name: "no wrapped errors", err: ErrQuery, want: "failed to execute query"},
		{name: "one wrapped error", err: ErrQuery.Err(errors.New("syntax error")), want: "failed to execute query: syntax error"},
		{name: "two wrapped errors", err: ErrQuery.Err(errors.New("a"), errors.New("b")), want: "failed to execute query: a;b"},
		{name: "not expanded", err: New("plain").Err(errors.New("hidden")), want: "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.ErrorAll())
		})
	}
}

func TestChildInheritsStatusCode(t *testing.T) {
	ErrParent := New("parent").SetStatusCode(http.StatusBadRequest)
	ErrChild := ErrParent.New("child")
	assert.Equal(t, http.StatusBadRequest, ErrChild.StatusCode())
	ErrChild.SetStatusCode(http.StatusConflict)
	assert.Equal(t, http.StatusBadRequest, ErrParent.StatusCode())
	assert.Equal(t, http.StatusConflict, ErrChild.StatusCode())
}
