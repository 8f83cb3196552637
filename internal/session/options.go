package session

import "time"

// DefaultLoadingInterval is how often the loading message rotates
const DefaultLoadingInterval = 1500 * time.Millisecond

// DefaultLoadingMessages are cycled in order while an analysis is running
var DefaultLoadingMessages = []string{
	"콜라겐 조직 스캔 중...",
	"중력의 흔적 측정 중...",
	"피부 탄력 알고리즘 가동...",
	"전문의 AI 의견 청취 중...",
	"맞춤형 솔루션 조합 중...",
}

// Option configures a Machine
type Option func(*Machine)

// WithLoadingInterval sets the rotation period. Non-positive values are ignored.
func WithLoadingInterval(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithLoadingMessages replaces the rotating messages. An empty list is ignored.
func WithLoadingMessages(msgs []string) Option {
	return func(m *Machine) {
		if len(msgs) > 0 {
			m.messages = append([]string(nil), msgs...)
		}
	}
}

// WithTimeout bounds each analysis call. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(m *Machine) {
		m.timeout = d
	}
}

// WithSessionID sets the identifier used in logs and snapshots
func WithSessionID(id string) Option {
	return func(m *Machine) {
		m.id = id
	}
}
