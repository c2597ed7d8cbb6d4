// Package network is the websocket edge: it upgrades connections, decodes
// protocol envelopes into session inbox messages, and pumps outbound frames
// with deadlines and pings so dead peers get reaped.
package network

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"headball/game"
	"headball/protocol"
	"headball/session"
)

const (
	readLimit     = 1 << 20
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	pingInterval  = 25 * time.Second
)

var upgrader = websocket.Upgrader{
	// For dev, allow all origins. Lock this down in prod.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn adapts a gorilla connection to the session.Conn interface. Sends
// are serialized: session broadcast and the ping loop both write.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// Handler serves the /ws endpoint: ?session=CODE selects the match.
func Handler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("session")
		sess := mgr.Get(code)
		if sess == nil {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}

		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("ws upgrade failed", "err", err)
			return
		}
		conn := &wsConn{conn: raw}

		raw.SetReadLimit(readLimit)
		_ = raw.SetReadDeadline(time.Now().Add(readDeadline))
		raw.SetPongHandler(func(string) error {
			_ = raw.SetReadDeadline(time.Now().Add(readDeadline))
			return nil
		})

		serve(sess, conn, raw)
	}
}

func serve(sess *session.Session, conn *wsConn, raw *websocket.Conn) {
	defer raw.Close()

	// First message must be a hello.
	_, first, err := raw.ReadMessage()
	if err != nil {
		return
	}
	env, err := protocol.DecodeEnvelope(first)
	if err != nil || env.T != protocol.MsgHello {
		slog.Warn("ws: expected hello", "got", env.T)
		return
	}
	hello, err := protocol.DecodePayload[protocol.Hello](env)
	if err != nil {
		return
	}

	reply := make(chan session.JoinResult, 1)
	sess.Inbox <- session.Join{Conn: conn, Name: hello.Name, Reply: reply}
	res := <-reply
	if res.PlayerID == "" {
		slog.Info("ws: session full", "session", sess.ID)
		return
	}
	defer func() {
		sess.Inbox <- session.Leave{PlayerID: res.PlayerID}
	}()

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	readLoop(sess, raw, res.PlayerID)
}

func pingLoop(conn *wsConn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func readLoop(sess *session.Session, raw *websocket.Conn, playerID string) {
	for {
		_, msg, err := raw.ReadMessage()
		if err != nil {
			return
		}
		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			continue
		}
		switch env.T {
		case protocol.MsgInput:
			in, err := protocol.DecodePayload[protocol.Input](env)
			if err != nil {
				continue
			}
			sess.Inbox <- session.ClientInput{
				PlayerID: playerID,
				Command: game.Command{
					MoveLeft:       in.Left,
					MoveRight:      in.Right,
					Jump:           in.Jump,
					SpecialImpulse: in.Special,
				},
			}
		case protocol.MsgReset:
			sess.Inbox <- session.ResetRequest{PlayerID: playerID}
		case protocol.MsgSpecial:
			sess.Inbox <- session.SpecialRequest{PlayerID: playerID}
		}
	}
}
