package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lmfdb/latticeview/pkg/buildinfo"
	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/graph"
	"github.com/lmfdb/latticeview/pkg/interact"
	"github.com/lmfdb/latticeview/pkg/session"
)

// maxBodySize bounds event and mode request bodies.
const maxBodySize = 1 << 20

// EventRequest is the wire form of a pointer event.
type EventRequest struct {
	Kind    string         `json:"kind"`
	X       float64        `json:"x"`
	Y       float64        `json:"y"`
	Button  int            `json:"button,omitempty"`
	Touches []graph.Point  `json:"touches,omitempty"`
	Key     string         `json:"key,omitempty"`
	Events  []EventRequest `json:"events,omitempty"`
}

// Event converts the request to a controller event.
func (r EventRequest) Event() (interact.Event, error) {
	kind, ok := interact.ParseKind(r.Kind)
	if !ok {
		return interact.Event{}, errors.New(errors.ErrCodeInvalidInput, "unknown event kind %q", r.Kind)
	}
	return interact.Event{
		Kind:    kind,
		X:       r.X,
		Y:       r.Y,
		Button:  interact.Button(r.Button),
		Touches: r.Touches,
		Key:     r.Key,
	}, nil
}

// flatten returns the events of a request. A request either is one event or
// carries a batch in Events.
func (r EventRequest) flatten() ([]interact.Event, error) {
	if len(r.Events) == 0 {
		ev, err := r.Event()
		if err != nil {
			return nil, err
		}
		return []interact.Event{ev}, nil
	}
	out := make([]interact.Event, 0, len(r.Events))
	for _, sub := range r.Events {
		ev, err := sub.Event()
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// ModeRequest changes what a session displays. Fields are applied in
// declaration order; absent fields are left alone.
type ModeRequest struct {
	Variant       string  `json:"variant,omitempty"`
	ByOrder       *bool   `json:"by_order,omitempty"`
	ToggleHeights bool    `json:"toggle_heights,omitempty"`
	Rows          int     `json:"rows,omitempty"`
	Select        *string `json:"select,omitempty"`
	Hover         *string `json:"hover,omitempty"`
}

func (m ModeRequest) apply(s *session.Session) error {
	if m.Variant != "" {
		if err := s.SwitchVariant(m.Variant); err != nil {
			return err
		}
	}
	if m.ByOrder != nil && *m.ByOrder != s.Mode().ByOrder {
		if err := s.Show(s.Mode().Variant, *m.ByOrder); err != nil {
			return err
		}
	}
	if m.ToggleHeights {
		if err := s.ToggleHeights(); err != nil {
			return err
		}
	}
	if m.Rows > 0 {
		s.NewHeight(m.Rows)
	}
	if m.Select != nil {
		s.Select(*m.Select)
	}
	if m.Hover != nil {
		s.Hover(*m.Hover)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st, _, err := d.snapshot(r.Context(), false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}
	_, png, err := d.snapshot(r.Context(), true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st, _, err := d.snapshot(r.Context(), false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, st.Positions)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req EventRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	events, err := req.flatten()
	if err != nil {
		s.writeError(w, err)
		return
	}

	var st *State
	err = d.sess.Do(r.Context(), func(sess *session.Session) error {
		for _, ev := range events {
			sess.Handle(ev)
		}
		st = d.state(sess)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req ModeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var st *State
	err := d.sess.Do(r.Context(), func(sess *session.Session) error {
		if err := req.apply(sess); err != nil {
			return err
		}
		st = d.state(sess)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// lookup resolves the ambient URL parameter, writing the error response
// itself when it fails.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*diagram, bool) {
	d, err := s.diagram(r.Context(), chi.URLParam(r, "ambient"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return d, true
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
