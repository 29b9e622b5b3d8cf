package xmlstream

import (
	"errors"
	"io"

	uderrors "github.com/jacoelho/unidump/errors"
)

var errNilNode = errors.New("nil Node")

// Node is implemented by record types that construct themselves from
// their element's start event. On success the cursor is positioned just
// after the element's matching end tag.
type Node interface {
	UnmarshalStream(c *Cursor, start StartElement) error
}

// Handler routes one named child element to a decode function. The
// function must fully consume the child, including its end tag.
type Handler struct {
	Name string
	Fn   func(start StartElement) error
}

// Handle pairs a child element name with its decode function.
func Handle(name string, fn func(start StartElement) error) Handler {
	return Handler{Name: name, Fn: fn}
}

// DecodeElement builds v from the provided start event.
func (c *Cursor) DecodeElement(v Node, start StartElement) error {
	if v == nil {
		return errNilNode
	}
	return v.UnmarshalStream(c, start)
}

// Children dispatches the children of start until its matching end tag.
// Children with no matching handler are skipped with their whole subtree,
// so schema additions are tolerated. Text and other content between
// children is ignored. The stream ending before the end tag fails with an
// unexpected end-of-stream error naming the innermost open element.
func (c *Cursor) Children(start StartElement, handlers ...Handler) error {
	if c == nil {
		return errNilReader
	}
	for {
		ev, err := c.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return c.UnexpectedEOF(start.Name)
			}
			return err
		}
		switch ev.Kind {
		case KindStart:
			handled := false
			for _, h := range handlers {
				if h.Name == ev.Name {
					if err := h.Fn(ev.Start); err != nil {
						return err
					}
					handled = true
					break
				}
			}
			if !handled {
				if err := c.Skip(ev.Start); err != nil {
					return err
				}
			}
		case KindEnd:
			if ev.Name == start.Name {
				return nil
			}
			// handlers consume their own end tags; any other end tag
			// here means the input is not well formed
			return uderrors.NewParsef(uderrors.ErrMalformedXML, start.Name, "unexpected end tag </%s>", ev.Name)
		}
	}
}

// Text accumulates the character data of a text-only element until its
// end tag. A nested element start fails with an unexpected-element error.
// The returned slice is valid until the next cursor operation.
func (c *Cursor) Text(start StartElement) ([]byte, error) {
	if c == nil {
		return nil, errNilReader
	}
	c.scratch = c.scratch[:0]
	for {
		ev, err := c.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, c.UnexpectedEOF(start.Name)
			}
			return nil, err
		}
		switch ev.Kind {
		case KindText:
			c.scratch = append(c.scratch, ev.Text...)
		case KindStart:
			return nil, uderrors.NewParsef(uderrors.ErrUnexpectedElement, start.Name, "unexpected element <%s> in text-only element", ev.Name)
		case KindEnd:
			if ev.Name == start.Name {
				return c.scratch, nil
			}
			return nil, uderrors.NewParsef(uderrors.ErrMalformedXML, start.Name, "unexpected end tag </%s>", ev.Name)
		}
	}
}

// TextString returns the character data of a text-only element as an
// owned string.
func (c *Cursor) TextString(start StartElement) (string, error) {
	text, err := c.Text(start)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// Skip discards the subtree of start, including its end tag.
func (c *Cursor) Skip(start StartElement) error {
	if c == nil {
		return errNilReader
	}
	depth := 1
	for depth > 0 {
		ev, err := c.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return c.UnexpectedEOF(start.Name)
			}
			return err
		}
		switch ev.Kind {
		case KindStart:
			depth++
		case KindEnd:
			depth--
		}
	}
	return nil
}
