package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 16
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// enqueue drops the message when the client is not keeping up; the next
// frame supersedes it.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  originPatterns(s.cfg.AllowedOrigins),
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		s.logger.Debug("websocket accept failed", "err", err)
		return
	}
	conn.SetReadLimit(maxMsgSize)

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	logger := s.logger.With("ambient", d.ambient, "client", c.id)
	logger.Debug("websocket connected")

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	go func() {
		select {
		case <-r.Context().Done():
		case <-ctx.Done():
		}
		cancel()
	}()

	d.register(c)
	defer d.unregister(c)

	if err := s.sendInitial(ctx, d, c); err != nil {
		logger.Debug("initial frame failed", "err", err)
	}

	go s.writePump(ctx, cancel, c)
	s.readPump(ctx, d, c)
	conn.Close(websocket.StatusNormalClosure, "")
	logger.Debug("websocket disconnected")
}

func (s *Server) sendInitial(ctx context.Context, d *diagram, c *client) error {
	st, png, err := d.snapshot(ctx, true)
	if err != nil {
		return err
	}
	msg := &Message{Type: MessageFrame, State: st, PNG: encodePNG(png)}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.enqueue(data)
	return nil
}

// readPump forwards client pointer events to the session until the
// connection or ctx ends.
func (s *Server) readPump(ctx context.Context, d *diagram, c *client) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		var req EventRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.replyError(c, err)
			continue
		}
		events, err := req.flatten()
		if err != nil {
			s.replyError(c, err)
			continue
		}
		for _, ev := range events {
			select {
			case d.events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Server) writePump(ctx context.Context, cancel context.CancelFunc, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
	}()

	for {
		select {
		case msg := <-c.send:
			writeCtx, done := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, msg)
			done()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, done := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			done()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) replyError(c *client, err error) {
	data, _ := json.Marshal(&Message{Type: MessageError, Error: err.Error()})
	c.enqueue(data)
}

// originPatterns turns allowed origins into the host patterns the websocket
// handshake checks.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
			continue
		}
		out = append(out, o)
	}
	return out
}
