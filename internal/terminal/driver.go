package terminal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/wolfman30/mozbe-site/internal/chatdemo"
	"github.com/wolfman30/mozbe-site/internal/webchat"
	"github.com/wolfman30/mozbe-site/pkg/logging"
)

// Driver starts and replays the demo behind the model.
type Driver interface {
	Start(ctx context.Context) error
	Replay(ctx context.Context) error
	Close() error
}

// LocalDriver runs a player in-process and forwards its ops to the program.
type LocalDriver struct {
	player *chatdemo.Player
}

// NewLocalDriver builds a player whose surface forwards every op through send.
func NewLocalDriver(transcript chatdemo.Transcript, cfg chatdemo.Config, send func(tea.Msg), logger *logging.Logger) *LocalDriver {
	surface := chatdemo.NewOpSurface(func(op chatdemo.Op) { send(OpMsg(op)) })
	return &LocalDriver{player: chatdemo.NewPlayer(transcript, surface, cfg, logger)}
}

// Start plays once; the terminal is always "in view".
func (d *LocalDriver) Start(ctx context.Context) error {
	d.player.StartOnce(ctx, chatdemo.TriggerImmediate)
	return nil
}

func (d *LocalDriver) Replay(ctx context.Context) error {
	d.player.Replay(ctx)
	return nil
}

func (d *LocalDriver) Close() error {
	d.player.Stop()
	return nil
}

// RemoteDriver streams ops from a running site service over its demo socket.
type RemoteDriver struct {
	conn          *websocket.Conn
	send          func(tea.Msg)
	reducedMotion bool
	logger        *logging.Logger

	writeMu   sync.Mutex
	readOnce  sync.Once
	closeOnce sync.Once
	closed    chan struct{}
}

// DialRemote connects to a /chat/ws endpoint.
func DialRemote(ctx context.Context, url string, reducedMotion bool, send func(tea.Msg), logger *logging.Logger) (*RemoteDriver, error) {
	if logger == nil {
		logger = logging.Default()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("terminal: dial %s: %w", url, err)
	}
	return &RemoteDriver{
		conn:          conn,
		send:          send,
		reducedMotion: reducedMotion,
		logger:        logger,
		closed:        make(chan struct{}),
	}, nil
}

// Start reports the host as fully visible, so the server autostarts at once.
func (d *RemoteDriver) Start(ctx context.Context) error {
	d.readOnce.Do(func() { go d.readLoop() })
	return d.write(webchat.InboundMessage{
		Type:           "hello",
		Rect:           &chatdemo.Rect{Top: 0, Bottom: 1},
		ViewportHeight: 1,
		ReducedMotion:  d.reducedMotion,
	})
}

func (d *RemoteDriver) Replay(ctx context.Context) error {
	return d.write(webchat.InboundMessage{Type: "replay"})
}

func (d *RemoteDriver) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.closed)
		d.writeMu.Lock()
		_ = d.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		d.writeMu.Unlock()
		err = d.conn.Close()
	})
	return err
}

func (d *RemoteDriver) write(msg webchat.InboundMessage) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	if err := d.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("terminal: send %s: %w", msg.Type, err)
	}
	return nil
}

func (d *RemoteDriver) readLoop() {
	for {
		var msg webchat.OutboundMessage
		if err := d.conn.ReadJSON(&msg); err != nil {
			select {
			case <-d.closed:
				return
			default:
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				d.send(ErrMsg{Err: fmt.Errorf("terminal: read: %w", err)})
			}
			return
		}
		switch msg.Type {
		case "op":
			if msg.Op != nil {
				d.send(OpMsg(*msg.Op))
			}
		case "session":
			d.logger.Debug("terminal: remote session", "session_id", msg.SessionID)
			d.send(StatusMsg("connected · session " + msg.SessionID))
		case "error":
			d.send(ErrMsg{Err: errors.New(msg.Text)})
		}
	}
}
