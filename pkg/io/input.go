package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/graph"
)

// Document is a decoded diagram input.
type Document struct {
	Ambient   string
	Diagrams  []Diagram
	Orders    []graph.OrderRow
	NumLayers int

	// Width and Height are the requested canvas size in pixels; zero means
	// the caller should derive one.
	Width  int
	Height int
}

// Diagram is one node/edge set of a document.
type Diagram struct {
	Nodes []graph.NodeTuple
	Edges [][2]string
}

// OrderLabels returns the raw order values in table order.
func (d *Document) OrderLabels() []string {
	out := make([]string, len(d.Orders))
	for i, o := range d.Orders {
		out[i] = o.Raw
	}
	return out
}

type document struct {
	Ambient   any               `json:"ambient"`
	Diagrams  []json.RawMessage `json:"diagrams"`
	Orders    [][]any           `json:"orders"`
	NumLayers float64           `json:"num_layers"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
}

type diagramObject struct {
	Nodes []json.RawMessage `json:"nodes"`
	Edges []json.RawMessage `json:"edges"`
}

// ReadDocument decodes a diagram document from r. ReadDocument does not
// close r.
func ReadDocument(r io.Reader) (*Document, error) {
	var raw document
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode diagram document")
	}

	doc := &Document{
		Ambient:   Key(raw.Ambient),
		NumLayers: int(raw.NumLayers),
		Width:     int(raw.Width),
		Height:    int(raw.Height),
	}
	for i, row := range raw.Orders {
		o := graph.OrderRow{}
		if len(row) > 0 {
			o.Raw = Key(row[0])
		}
		if len(row) > 1 {
			o.Major = Number(row[1])
		}
		if len(row) > 2 {
			o.Minor = Number(row[2])
		}
		if len(row) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "order row %d is empty", i)
		}
		doc.Orders = append(doc.Orders, o)
	}
	for i, msg := range raw.Diagrams {
		d, err := decodeDiagram(msg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "diagram %d", i)
		}
		doc.Diagrams = append(doc.Diagrams, d)
	}
	if len(doc.Diagrams) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no diagrams")
	}
	return doc, nil
}

// ReadDocumentFile reads and decodes the document at path.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// ParseDocument decodes a document held in memory.
func ParseDocument(data []byte) (*Document, error) {
	return ReadDocument(bytes.NewReader(data))
}

func decodeDiagram(msg json.RawMessage) (Diagram, error) {
	var obj diagramObject
	trimmed := bytes.TrimSpace(msg)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '{':
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return Diagram{}, err
		}
	case len(trimmed) > 0 && trimmed[0] == '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return Diagram{}, err
		}
		if len(pair) != 2 {
			return Diagram{}, fmt.Errorf("expected [nodes, edges], got %d elements", len(pair))
		}
		if err := json.Unmarshal(pair[0], &obj.Nodes); err != nil {
			return Diagram{}, fmt.Errorf("nodes: %w", err)
		}
		if err := json.Unmarshal(pair[1], &obj.Edges); err != nil {
			return Diagram{}, fmt.Errorf("edges: %w", err)
		}
	default:
		return Diagram{}, fmt.Errorf("diagram must be an object or an array")
	}

	var d Diagram
	for i, n := range obj.Nodes {
		var fields []any
		if err := json.Unmarshal(n, &fields); err != nil {
			return Diagram{}, fmt.Errorf("node %d: tuple must be an array", i)
		}
		d.Nodes = append(d.Nodes, NodeTuple(fields))
	}
	for i, e := range obj.Edges {
		var fields []any
		if err := json.Unmarshal(e, &fields); err != nil || len(fields) < 2 {
			return Diagram{}, fmt.Errorf("edge %d: expected [source, target]", i)
		}
		d.Edges = append(d.Edges, [2]string{Key(fields[0]), Key(fields[1])})
	}
	return d, nil
}

// NodeTuple converts a decoded JSON array into a node tuple, filling absent
// fields with zero values.
func NodeTuple(fields []any) graph.NodeTuple {
	at := func(i int) any {
		if i < len(fields) {
			return fields[i]
		}
		return nil
	}
	t := graph.NodeTuple{
		Label:    Key(at(0)),
		Key:      Key(at(1)),
		Raw:      at(2),
		Size:     int(Number(at(3))),
		RawOrder: Key(at(4)),
		IconURL:  Key(at(5)),
	}
	for i := 6; i < len(fields); i++ {
		t.Hints = append(t.Hints, Number(fields[i]))
	}
	return t
}

// Key normalizes a JSON scalar into a string identity. Integral numbers are
// printed without a fraction so that 1 and "1" name the same node.
func Key(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case json.Number:
		return Key(Number(x))
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// Number converts a JSON value into a float. Strings are parsed, arrays
// contribute their first element, and anything else yields zero.
func Number(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case json.Number:
		f, _ := x.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	case []any:
		if len(x) == 0 {
			return 0
		}
		return Number(x[0])
	default:
		return 0
	}
}
