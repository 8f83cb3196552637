package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/logging"
)

var (
	// ErrBusy is returned by SubmitImage while an analysis is in flight
	ErrBusy = errors.New("analysis already in progress")
	// ErrClosed is returned after Close
	ErrClosed = errors.New("session closed")
)

// Machine owns one user's Idle -> Loading -> Result|Error cycle.
//
// All state lives behind mu. Each submission is tagged with a new request id;
// an outcome whose id is no longer current, or that arrives after the machine
// left Loading, is dropped. The rotation ticker belongs to the Loading
// lifetime and is stopped on every exit from it.
type Machine struct {
	analyzer analysis.Analyzer
	id       string
	interval time.Duration
	messages []string
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	state      State
	image      *ImageInfo
	result     *analysis.Result
	errMsg     string
	loadingIdx int
	requestID  uint64
	revision   uint64
	closed     bool

	// Loading lifetime
	callCancel context.CancelFunc
	stopTicker chan struct{}

	subs    map[int]chan Snapshot
	nextSub int
}

// New creates a machine in the Idle state
func New(analyzer analysis.Analyzer, opts ...Option) *Machine {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Machine{
		analyzer: analyzer,
		interval: DefaultLoadingInterval,
		messages: append([]string(nil), DefaultLoadingMessages...),
		ctx:      ctx,
		cancel:   cancel,
		state:    StateIdle,
		subs:     make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ID returns the session identifier
func (m *Machine) ID() string {
	return m.id
}

// SubmitImage starts an analysis. The machine is in Loading when this returns;
// the outcome arrives asynchronously. Any previous result or error is cleared.
func (m *Machine) SubmitImage(img analysis.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.state == StateLoading {
		return ErrBusy
	}

	m.requestID++
	reqID := m.requestID

	from := m.state
	m.state = StateLoading
	m.image = &ImageInfo{Name: img.Name, MIMEType: img.MIMEType, Size: img.Size()}
	m.result = nil
	m.errMsg = ""
	m.loadingIdx = 0

	var ctx context.Context
	var cancel context.CancelFunc
	if m.timeout > 0 {
		ctx, cancel = context.WithTimeout(m.ctx, m.timeout)
	} else {
		ctx, cancel = context.WithCancel(m.ctx)
	}
	m.callCancel = cancel
	m.stopTicker = make(chan struct{})

	m.wg.Add(2)
	go m.rotate(reqID, m.stopTicker)
	go m.run(ctx, reqID, img)

	m.transitionLocked(from)
	return nil
}

// Reset returns to Idle, clearing the image, result and error. From Loading
// it also cancels the in-flight call, whose outcome is then discarded.
// Reset from Idle is a no-op.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.state == StateIdle {
		return
	}

	from := m.state
	if from == StateLoading {
		m.endLoadingLocked()
	}

	m.state = StateIdle
	m.image = nil
	m.result = nil
	m.errMsg = ""
	m.loadingIdx = 0

	m.transitionLocked(from)
}

// Snapshot returns a copy of the current state
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe returns a channel that receives the current snapshot immediately
// and then every change. Slow readers only see the latest snapshot. The
// returned func unsubscribes and closes the channel; Close does the same for
// every subscriber.
func (m *Machine) Subscribe() (<-chan Snapshot, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if m.closed {
		close(ch)
		return ch, func() {}
	}

	key := m.nextSub
	m.nextSub++
	m.subs[key] = ch
	ch <- m.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if sub, ok := m.subs[key]; ok {
				delete(m.subs, key)
				close(sub)
			}
		})
	}
}

// Close cancels any in-flight analysis, closes all subscriptions and waits
// for the machine's goroutines to exit. The analyzer must honour ctx for
// Close to return promptly.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.state == StateLoading {
		m.endLoadingLocked()
	}
	m.cancel()
	for key, ch := range m.subs {
		delete(m.subs, key)
		close(ch)
	}
	m.mu.Unlock()

	m.wg.Wait()
}

// rotate advances the loading message every interval until the Loading
// lifetime for reqID ends
func (m *Machine) rotate(reqID uint64, stop <-chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			if m.closed || m.requestID != reqID || m.state != StateLoading {
				m.mu.Unlock()
				return
			}
			m.loadingIdx = (m.loadingIdx + 1) % len(m.messages)
			m.revision++
			m.publishLocked()
			m.mu.Unlock()
		}
	}
}

// run performs the analysis call and applies its outcome
func (m *Machine) run(ctx context.Context, reqID uint64, img analysis.Image) {
	defer m.wg.Done()

	result, err := m.analyze(ctx, img)
	if err == nil && result == nil {
		err = analysis.NewUnexpectedError("analyzer returned no result", nil)
	}
	m.complete(reqID, result, err)
}

// analyze calls the analyzer, turning a panic into an unexpected error
func (m *Machine) analyze(ctx context.Context, img analysis.Image) (result *analysis.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error(fmt.Sprintf("analyzer panic: %v", r))
			result = nil
			err = analysis.NewUnexpectedError(fmt.Sprintf("analyzer panic: %v", r), nil)
		}
	}()
	return m.analyzer.Analyze(ctx, img)
}

func (m *Machine) complete(reqID uint64, result *analysis.Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || reqID != m.requestID || m.state != StateLoading {
		logging.LogStaleResponse(m.id, reqID, m.requestID)
		return
	}

	m.endLoadingLocked()

	if err != nil {
		m.state = StateError
		m.errMsg = analysis.UserMessage(err)
	} else {
		m.state = StateResult
		m.result = result
	}
	m.transitionLocked(StateLoading)
}

// endLoadingLocked releases everything owned by the current Loading lifetime
func (m *Machine) endLoadingLocked() {
	if m.stopTicker != nil {
		close(m.stopTicker)
		m.stopTicker = nil
	}
	if m.callCancel != nil {
		m.callCancel()
		m.callCancel = nil
	}
}

func (m *Machine) transitionLocked(from State) {
	m.revision++
	logging.LogTransition(m.id, from.String(), m.state.String(), m.requestID)
	m.publishLocked()
}

// publishLocked delivers the current snapshot to every subscriber, replacing
// any snapshot still unread. Only this method sends, and only under mu, so the
// send after draining never blocks.
func (m *Machine) publishLocked() {
	if len(m.subs) == 0 {
		return
	}
	snap := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (m *Machine) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: m.id,
		State:     m.state,
		Result:    m.result,
		Error:     m.errMsg,
		RequestID: m.requestID,
		Revision:  m.revision,
	}
	if m.image != nil {
		info := *m.image
		snap.Image = &info
	}
	if m.state == StateLoading {
		snap.LoadingIndex = m.loadingIdx
		snap.LoadingMessage = m.messages[m.loadingIdx]
	}
	return snap
}
