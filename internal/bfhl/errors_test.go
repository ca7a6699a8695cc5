package bfhl

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func TestNewHTTPError(t *testing.T) {
	assert.Equal(t, "bad input", NewHTTPError(400, "bad input").Error())
	assert.Equal(t, "Request failed with status 502", NewHTTPError(502, "").Error())
}

func TestClassifyTransport(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}

	tests := []struct {
		name string
		err  error
		want TransportKind
	}{
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), TransportTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "nowhere.invalid", IsNotFound: true}, TransportUnreachable},
		{"dns timeout", &net.DNSError{Err: "i/o timeout", IsTimeout: true}, TransportTimeout},
		{"connection refused", refused, TransportUnreachable},
		{"read error", &net.OpError{Op: "read", Net: "tcp", Err: errors.New("reset")}, TransportOther},
		{"plain", errors.New("boom"), TransportOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyTransport(tt.err))
		})
	}
}

func TestNewTransportError_Messages(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}

	err := NewTransportError("http://api.local/bfhl", refused)
	assert.Equal(t, TransportUnreachable, err.Transport)
	assert.Contains(t, err.Error(), "http://api.local/bfhl")
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)

	other := NewTransportError("http://api.local/bfhl", errors.New("tls handshake failure"))
	assert.Equal(t, TransportOther, other.Transport)
	assert.Equal(t, "Network Error: tls handshake failure", other.Error())
}

func TestAsError(t *testing.T) {
	assert.Nil(t, AsError(nil))

	wrapped := fmt.Errorf("outer: %w", NewValidationError(MsgEmptyInput))
	assert.Equal(t, KindValidation, KindOf(wrapped))

	plain := errors.New("surprise")
	e := AsError(plain)
	assert.Equal(t, KindUnexpected, e.Kind)
	assert.Equal(t, "surprise", e.Error())
	assert.ErrorIs(t, e, plain)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, MsgUnexpected, Message(errors.New("")))
	assert.Equal(t, MsgUnexpected, Message(NewUnexpectedError(nil)))
	assert.Equal(t, MsgEmptyInput, Message(NewValidationError(MsgEmptyInput)))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ValidationError", KindValidation.String())
	assert.Equal(t, "HttpError", KindHTTP.String())
	assert.Equal(t, "TransportError", KindTransport.String())
	assert.Equal(t, "UnexpectedError", KindUnexpected.String())
	assert.Equal(t, "unreachable", TransportUnreachable.String())
}
