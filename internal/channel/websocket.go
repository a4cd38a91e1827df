package channel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Gaurav-Gosain/winshell/internal/protocol"
	"github.com/coder/websocket"
)

// WebSocket carries protocol messages as text frames, one JSON message per
// frame.
type WebSocket struct {
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	inbox  *queue
	outbox *queue
	once   sync.Once
	remote string
}

// DialWebSocket connects to a child listening at url.
func DialWebSocket(ctx context.Context, url string) (*WebSocket, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewWebSocket(context.WithoutCancel(ctx), conn, url), nil
}

// AcceptWebSocket upgrades an HTTP request. An empty origins list only
// accepts same-origin requests.
func AcceptWebSocket(w http.ResponseWriter, r *http.Request, origins []string) (*WebSocket, error) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		return nil, fmt.Errorf("accept websocket: %w", err)
	}
	return NewWebSocket(r.Context(), conn, r.RemoteAddr), nil
}

// NewWebSocket wraps an established connection and starts its reader and
// writer goroutines. The channel lives until ctx is done or Close is called.
func NewWebSocket(ctx context.Context, conn *websocket.Conn, remote string) *WebSocket {
	ctx, cancel := context.WithCancel(ctx)
	ws := &WebSocket{
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		inbox:  newQueue(nil),
		remote: remote,
	}
	ws.outbox = newQueue(ws.write)
	go ws.readLoop()
	return ws
}

// Send implements Channel.
func (ws *WebSocket) Send(msg protocol.Message) error {
	if ws.ctx.Err() != nil {
		return ErrClosed
	}
	return ws.outbox.push(msg)
}

// Listen implements Channel.
func (ws *WebSocket) Listen(h Handler) {
	if h == nil {
		ws.inbox.setDeliver(nil)
		return
	}
	ws.inbox.setDeliver(func(msg protocol.Message) { h(ws, msg) })
}

// Close implements Channel.
func (ws *WebSocket) Close() error {
	if ws.ctx.Err() != nil {
		return nil
	}
	err := ws.conn.Close(websocket.StatusNormalClosure, "")
	ws.shutdown()
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
		return nil
	}
	return err
}

// Done is closed once the connection ended.
func (ws *WebSocket) Done() <-chan struct{} {
	return ws.ctx.Done()
}

func (ws *WebSocket) String() string { return "ws:" + ws.remote }

func (ws *WebSocket) write(msg protocol.Message) {
	data, err := protocol.Encode(msg)
	if err != nil {
		logger.Warn("dropping unencodable message", "remote", ws.remote, "command", msg.Command, "err", err)
		return
	}
	if err := ws.conn.Write(ws.ctx, websocket.MessageText, data); err != nil {
		if ws.ctx.Err() == nil {
			logger.Debug("write failed", "remote", ws.remote, "err", err)
		}
		ws.shutdown()
	}
}

func (ws *WebSocket) readLoop() {
	defer ws.shutdown()

	for {
		typ, data, err := ws.conn.Read(ws.ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, context.Canceled) {
				logger.Debug("read ended", "remote", ws.remote, "err", err)
			}
			return
		}
		if typ != websocket.MessageText {
			logger.Debug("ignoring binary frame", "remote", ws.remote, "size", len(data))
			continue
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			logger.Warn("dropping malformed message", "remote", ws.remote, "err", err)
			continue
		}
		if err := ws.inbox.push(msg); err != nil {
			return
		}
	}
}

func (ws *WebSocket) shutdown() {
	ws.once.Do(func() {
		ws.cancel()
		ws.outbox.close()
		ws.inbox.close()
		ws.conn.CloseNow()
	})
}
