package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"

	"github.com/lmfdb/latticeview/pkg/infopanel"
	"github.com/lmfdb/latticeview/pkg/interact"
	pkgio "github.com/lmfdb/latticeview/pkg/io"
	"github.com/lmfdb/latticeview/pkg/session"
)

// State is the JSON view of a session.
type State struct {
	Ambient      string    `json:"ambient"`
	Variant      string    `json:"variant"`
	ByOrder      bool      `json:"by_order"`
	Variants     []string  `json:"variants"`
	Selected     string    `json:"selected,omitempty"`
	Hovered      string    `json:"hovered,omitempty"`
	Dragging     bool      `json:"dragging"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Positions    string    `json:"positions"`
	PendingIcons int       `json:"pending_icons"`
	Info         *InfoView `json:"info,omitempty"`
}

// InfoView is the JSON view of the info panel.
type InfoView struct {
	State string `json:"state"`
	Key   string `json:"key,omitempty"`
	Text  string `json:"text"`
}

// Message is sent to websocket clients.
type Message struct {
	Type  string    `json:"type"`
	State *State    `json:"state,omitempty"`
	Info  *InfoView `json:"info,omitempty"`
	// PNG is the base64 encoded frame.
	PNG   string `json:"png,omitempty"`
	Error string `json:"error,omitempty"`
}

// Message types.
const (
	MessageFrame = "frame"
	MessageInfo  = "info"
	MessageError = "error"
)

type diagram struct {
	ambient string
	sess    *session.Session
	panel   *infopanel.Panel
	events  chan interact.Event

	mu      sync.Mutex
	clients map[string]*client
}

func (s *Server) startDiagram(doc *pkgio.Document) (*diagram, error) {
	d := &diagram{
		ambient: doc.Ambient,
		events:  make(chan interact.Event, 64),
		clients: make(map[string]*client),
	}

	opts := []session.Option{
		session.WithLogger(s.logger.With("ambient", doc.Ambient)),
		session.WithFrameFunc(d.broadcastFrame),
	}
	if s.icons != nil {
		opts = append(opts, session.WithIconLoader(s.icons))
	}
	if s.cfg.Info != nil {
		popts := []infopanel.Option{infopanel.WithUpdateFunc(d.broadcastInfo)}
		if s.cache != nil {
			popts = append(popts, infopanel.WithCache(s.cache))
		}
		p, err := infopanel.New(s.ctx, *s.cfg.Info, popts...)
		if err != nil {
			return nil, err
		}
		d.panel = p
		opts = append(opts, session.WithInfoPanel(p))
	}

	sess, err := session.New(doc, s.cfg.Session, opts...)
	if err != nil {
		return nil, err
	}
	d.sess = sess

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := sess.Run(s.ctx, d.events)
		if d.panel != nil {
			_ = d.panel.Close()
		}
		s.logger.Debug("session stopped", "ambient", d.ambient, "err", err)
	}()
	s.logger.Info("session started", "ambient", d.ambient, "variants", len(doc.Diagrams))
	return d, nil
}

// state must be called on the session event loop.
func (d *diagram) state(s *session.Session) *State {
	w, h := s.Renderer().Size()
	m := s.Mode()
	st := &State{
		Ambient:      s.Ambient(),
		Variant:      s.Variants()[m.Variant],
		ByOrder:      m.ByOrder,
		Variants:     s.Variants(),
		Selected:     s.Selected(),
		Hovered:      s.Controller().Hovered(),
		Dragging:     s.Controller().State() == interact.Dragging,
		Width:        w,
		Height:       h,
		Positions:    s.Positions(),
		PendingIcons: s.PendingIcons(),
	}
	if d.panel != nil {
		st.Info = infoView(d.panel.Content())
	}
	return st
}

func infoView(c infopanel.Content) *InfoView {
	return &InfoView{State: c.State.String(), Key: c.Key, Text: c.Text}
}

// snapshot reads state and frame through the event loop.
func (d *diagram) snapshot(ctx context.Context, withPNG bool) (*State, []byte, error) {
	var st *State
	var buf bytes.Buffer
	err := d.sess.Do(ctx, func(s *session.Session) error {
		st = d.state(s)
		if withPNG {
			return s.EncodePNG(&buf)
		}
		return nil
	})
	return st, buf.Bytes(), err
}

// broadcastFrame runs on the event loop after every change.
func (d *diagram) broadcastFrame(s *session.Session) {
	d.mu.Lock()
	n := len(d.clients)
	d.mu.Unlock()
	if n == 0 {
		return
	}

	var buf bytes.Buffer
	msg := &Message{Type: MessageFrame, State: d.state(s)}
	if err := s.EncodePNG(&buf); err != nil {
		msg = &Message{Type: MessageError, Error: err.Error()}
	} else {
		msg.PNG = encodePNG(buf.Bytes())
	}
	d.broadcast(msg)
}

func encodePNG(png []byte) string {
	return base64.StdEncoding.EncodeToString(png)
}

func (d *diagram) broadcastInfo(c infopanel.Content) {
	d.broadcast(&Message{Type: MessageInfo, Info: infoView(c)})
}

func (d *diagram) broadcast(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.clients {
		c.enqueue(data)
	}
}

func (d *diagram) register(c *client) {
	d.mu.Lock()
	d.clients[c.id] = c
	d.mu.Unlock()
}

func (d *diagram) unregister(c *client) {
	d.mu.Lock()
	delete(d.clients, c.id)
	d.mu.Unlock()
}
