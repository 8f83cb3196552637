package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/discovery"
	"github.com/neckcare/neckscan/internal/logging"
	"github.com/neckcare/neckscan/internal/report"
	"github.com/neckcare/neckscan/internal/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	wsPath = discovery.WebSocketPath
)

// Command types sent by clients
const (
	CommandSubmit = "submit"
	CommandReset  = "reset"
)

// Frame types sent by the server
const (
	FrameSnapshot = "snapshot"
	FrameError    = "error"
)

// Command is an inbound websocket message
type Command struct {
	Type  string `json:"type"`
	Image string `json:"image,omitempty"` // data URI, for submit
	Name  string `json:"name,omitempty"`
}

// Frame is an outbound websocket message. A snapshot frame in the result
// state also carries the rendered view.
type Frame struct {
	Type     string            `json:"type"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	View     *report.View      `json:"view,omitempty"`
	Message  string            `json:"message,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browsers on the LAN load the page from anywhere
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsSession ties one connection to one state machine
type wsSession struct {
	id      string
	conn    *websocket.Conn
	machine *session.Machine
	links   report.Links

	replies   chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

func shortID() string {
	return uuid.NewString()[:8]
}

func (s *Server) serveWebSocket(c *gin.Context) {
	if s.isClosing() {
		respondError(c, http.StatusServiceUnavailable, "shutting down", "server is shutting down", nil)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied to the client
		logging.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	id := uuid.NewString()
	ws := &wsSession{
		id:      id,
		conn:    conn,
		machine: s.newMachine(id),
		links:   s.config.Links,
		replies: make(chan Frame, 4),
		done:    make(chan struct{}),
	}
	conn.SetReadLimit(s.config.MaxImageBytes * 2)

	if !s.addSession(ws) {
		// Shutdown began while upgrading
		ws.close()
		return
	}
	logging.LogConnection(conn.RemoteAddr().String(), id, "connected")

	updates, _ := ws.machine.Subscribe()

	go func() {
		defer s.wg.Done()
		ws.writePump(updates)
	}()
	go func() {
		defer s.wg.Done()
		ws.readPump()
		ws.close()
		s.removeSession(id)
		logging.LogConnection(conn.RemoteAddr().String(), id, "disconnected")
	}()
}

// close tears down the machine and the connection. Safe to call repeatedly.
func (ws *wsSession) close() {
	ws.closeOnce.Do(func() {
		ws.machine.Close()
		ws.conn.Close()
	})
}

// readPump decodes commands until the connection fails
func (ws *wsSession) readPump() {
	ws.conn.SetReadDeadline(time.Now().Add(pongWait))
	ws.conn.SetPongHandler(func(string) error {
		return ws.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := ws.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug("WebSocket read failed", zap.String("session_id", ws.id), zap.Error(err))
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			ws.reply(Frame{Type: FrameError, Message: "invalid command"})
			continue
		}
		ws.handle(cmd)
	}
}

func (ws *wsSession) handle(cmd Command) {
	switch cmd.Type {
	case CommandSubmit:
		img, err := analysis.ParseDataURI(cmd.Image)
		if err != nil {
			ws.reply(Frame{Type: FrameError, Message: err.Error()})
			return
		}
		img.Name = cmd.Name
		if err := ws.machine.SubmitImage(img); err != nil {
			ws.reply(Frame{Type: FrameError, Message: err.Error()})
		}
	case CommandReset:
		ws.machine.Reset()
	default:
		ws.reply(Frame{Type: FrameError, Message: "unknown command: " + cmd.Type})
	}
}

// reply queues a frame for writePump unless it has exited
func (ws *wsSession) reply(f Frame) {
	select {
	case ws.replies <- f:
	case <-ws.done:
	}
}

// writePump is the only goroutine that writes to the connection
func (ws *wsSession) writePump(updates <-chan session.Snapshot) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(ws.done)
		ws.conn.Close()
	}()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
				ws.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				return
			}
			if err := ws.write(ws.snapshotFrame(snap)); err != nil {
				return
			}
		case f := <-ws.replies:
			if err := ws.write(f); err != nil {
				return
			}
		case <-ticker.C:
			ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ws *wsSession) write(f Frame) error {
	ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.conn.WriteJSON(f); err != nil {
		logging.Debug("WebSocket write failed", zap.String("session_id", ws.id), zap.Error(err))
		return err
	}
	return nil
}

func (ws *wsSession) snapshotFrame(snap session.Snapshot) Frame {
	f := Frame{Type: FrameSnapshot, Snapshot: &snap}
	if snap.State == session.StateResult {
		view, err := report.BuildView(snap.Result, ws.links)
		if err != nil {
			logging.Warn("Result could not be rendered", zap.String("session_id", ws.id), zap.Error(err))
			f.Message = analysis.MalformedMessage
			return f
		}
		f.View = &view
	}
	return f
}
