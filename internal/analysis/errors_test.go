package analysis

import (
	"errors"
	"strings"
	"testing"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, GenericMessage},
		{"plain error", errors.New("network down"), "network down"},
		{"plain error without message", errors.New(""), GenericMessage},
		{"transport", NewTransportError("call failed", errors.New("dial tcp: refused")), "dial tcp: refused"},
		{"transport without cause", NewTransportError("call failed", nil), "call failed"},
		{"malformed", NewMalformedError("bad json", errors.New("unexpected EOF")), MalformedMessage},
		{"unexpected", NewUnexpectedError("panic", nil), GenericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServiceError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewMalformedError("bad body", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !strings.Contains(err.Error(), "Malformed Response") {
		t.Errorf("Error() = %q, should name the kind", err.Error())
	}
	if IsTransportError(err) {
		t.Error("malformed error should not be a transport error")
	}
}

func TestErrorKind_String(t *testing.T) {
	if got := ErrorKind(42).String(); got != "ErrorKind(42)" {
		t.Errorf("String() = %q, want ErrorKind(42)", got)
	}
}
