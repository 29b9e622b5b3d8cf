package xmlstream

import (
	"encoding/xml"
	"errors"
	"io"

	uderrors "github.com/jacoelho/unidump/errors"
)

var errNilReader = errors.New("nil XML reader")

// Kind identifies the kind of streaming XML event.
type Kind int

const (
	KindStart Kind = iota
	KindEnd
	KindText
)

// Attr is a single attribute of a start element, addressed by local name.
type Attr struct {
	Name  string
	Value string
}

// StartElement is an owned copy of an element start event.
type StartElement struct {
	Name  string
	Attrs []Attr
}

// Event is a single streaming XML event.
// Text is only valid until the next cursor operation.
type Event struct {
	Start StartElement
	Name  string
	Text  []byte
	Kind  Kind
}

// Cursor reads streaming XML events from an underlying tokenizer and
// tracks the stack of open elements. It is owned by a single goroutine
// and is not safe for concurrent use.
type Cursor struct {
	dec     *xml.Decoder
	open    []string
	scratch []byte
}

// NewCursor creates a streaming cursor for r.
func NewCursor(r io.Reader) *Cursor {
	if r == nil {
		return nil
	}
	return &Cursor{
		dec:     xml.NewDecoder(r),
		scratch: make([]byte, 0, 256),
	}
}

// Next returns the next XML event. It returns io.EOF at the end of the
// stream regardless of open elements; callers detect truncation via the
// open-element stack.
func (c *Cursor) Next() (Event, error) {
	if c == nil || c.dec == nil {
		return Event{}, errNilReader
	}
	for {
		tok, err := c.dec.RawToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return Event{}, uderrors.Wrap(uderrors.ErrMalformedXML, c.Innermost(), err)
			}
			return Event{}, uderrors.Wrap(uderrors.ErrSourceRead, c.Innermost(), err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			start := copyStart(t)
			c.open = append(c.open, start.Name)
			return Event{Kind: KindStart, Name: start.Name, Start: start}, nil

		case xml.EndElement:
			if len(c.open) > 0 {
				c.open = c.open[:len(c.open)-1]
			}
			return Event{Kind: KindEnd, Name: t.Name.Local}, nil

		case xml.CharData:
			return Event{Kind: KindText, Text: t}, nil
		}
		// comments, processing instructions and directives are not modeled
	}
}

// Innermost returns the name of the innermost open element, or "" at the
// top level.
func (c *Cursor) Innermost() string {
	if c == nil || len(c.open) == 0 {
		return ""
	}
	return c.open[len(c.open)-1]
}

// Depth returns the number of currently open elements.
func (c *Cursor) Depth() int {
	if c == nil {
		return 0
	}
	return len(c.open)
}

// UnexpectedEOF builds the end-of-stream failure naming the innermost
// open element, falling back to the given name at the top level.
func (c *Cursor) UnexpectedEOF(fallback string) error {
	name := c.Innermost()
	if name == "" {
		name = fallback
	}
	return uderrors.NewParse(uderrors.ErrUnexpectedEOF, name, "unexpected end of stream")
}

func copyStart(t xml.StartElement) StartElement {
	start := StartElement{Name: t.Name.Local}
	if len(t.Attr) > 0 {
		start.Attrs = make([]Attr, 0, len(t.Attr))
	}
	for _, attr := range t.Attr {
		if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
			continue
		}
		start.Attrs = append(start.Attrs, Attr{Name: attr.Name.Local, Value: attr.Value})
	}
	return start
}
