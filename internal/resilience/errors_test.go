package resilience

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"marked", NewTransientError(errors.New("429"), 429), true},
		{"wrapped marked", fmt.Errorf("llm: %w", NewTransientError(errors.New("503"), 503)), true},
		{"conn reset", fmt.Errorf("dial: %w", syscall.ECONNRESET), true},
		{"io timeout text", errors.New("read tcp: i/o timeout"), true},
		{"permanent", errors.New("invalid api key"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	t.Parallel()
	for _, code := range []int{408, 429, 500, 502, 503, 504, 529} {
		assert.True(t, IsTransientHTTPStatus(code), code)
	}
	for _, code := range []int{200, 400, 401, 404} {
		assert.False(t, IsTransientHTTPStatus(code), code)
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	t.Parallel()
	base := errors.New("base")
	te := NewTransientError(base, 500)
	assert.ErrorIs(t, te, base)
	assert.Equal(t, "base", te.Error())
}
