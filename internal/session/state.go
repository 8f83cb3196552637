package session

import (
	"fmt"

	"github.com/neckcare/neckscan/internal/analysis"
)

// State is the screen a session is on. Exactly one is active at a time.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateResult
	StateError
)

// String returns the lowercase state name used in logs and wire frames
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateResult:
		return "result"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name written by MarshalText
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{StateIdle, StateLoading, StateResult, StateError} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", text)
}

// ImageInfo describes the submitted photo without carrying its bytes
type ImageInfo struct {
	Name     string `json:"name,omitempty"`
	MIMEType string `json:"mimeType"`
	Size     int    `json:"size"`
}

// Snapshot is a read-only copy of a session at one point in time.
// Revision increases by one on every observable change.
type Snapshot struct {
	SessionID      string           `json:"sessionId"`
	State          State            `json:"state"`
	Image          *ImageInfo       `json:"image,omitempty"`
	Result         *analysis.Result `json:"result,omitempty"`
	Error          string           `json:"error,omitempty"`
	LoadingIndex   int              `json:"loadingIndex"`
	LoadingMessage string           `json:"loadingMessage,omitempty"`
	RequestID      uint64           `json:"requestId"`
	Revision       uint64           `json:"revision"`
}
