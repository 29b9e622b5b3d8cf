// Package uniref models UniRef cluster dump entries.
package uniref

import (
	uderrors "github.com/jacoelho/unidump/errors"
	"github.com/jacoelho/unidump/pkg/xmlstream"
)

// Entry is one UniRef cluster record.
type Entry struct {
	ID             string
	Updated        string
	Name           string
	Properties     []Property
	Representative Member
	Members        []Member
}

// UnmarshalStream builds the cluster entry from its start event.
func (e *Entry) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	var err error
	if e.ID, err = start.RequiredAttr("id"); err != nil {
		return err
	}
	e.Updated, _ = start.Attr("updated")

	var seenRepresentative bool
	err = c.Children(start,
		xmlstream.Handle("name", func(st xmlstream.StartElement) error {
			name, err := c.TextString(st)
			if err != nil {
				return err
			}
			e.Name = name
			return nil
		}),
		xmlstream.Handle("property", func(st xmlstream.StartElement) error {
			prop, err := decodeProperty(c, st)
			if err != nil {
				return err
			}
			e.Properties = append(e.Properties, prop)
			return nil
		}),
		xmlstream.Handle("representativeMember", func(st xmlstream.StartElement) error {
			if seenRepresentative {
				return uderrors.NewParsef(uderrors.ErrDuplicateElement, start.Name, "duplicate element <representativeMember>")
			}
			seenRepresentative = true
			return e.Representative.UnmarshalStream(c, st)
		}),
		xmlstream.Handle("member", func(st xmlstream.StartElement) error {
			var member Member
			if err := member.UnmarshalStream(c, st); err != nil {
				return err
			}
			e.Members = append(e.Members, member)
			return nil
		}),
	)
	if err != nil {
		return err
	}

	if e.Name == "" {
		return uderrors.NewParsef(uderrors.ErrMissingElement, start.Name, "missing element <name>")
	}
	if !seenRepresentative {
		return uderrors.NewParsef(uderrors.ErrMissingElement, start.Name, "missing element <representativeMember>")
	}
	return nil
}

// Member is one cluster member: its database reference and, for the
// representative, the member sequence.
type Member struct {
	Reference DbReference
	Sequence  *Sequence
}

func (m *Member) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	var seenReference bool
	err := c.Children(start,
		xmlstream.Handle("dbReference", func(st xmlstream.StartElement) error {
			if seenReference {
				return uderrors.NewParsef(uderrors.ErrDuplicateElement, start.Name, "duplicate element <dbReference>")
			}
			seenReference = true
			return m.Reference.UnmarshalStream(c, st)
		}),
		xmlstream.Handle("sequence", func(st xmlstream.StartElement) error {
			var seq Sequence
			if err := seq.UnmarshalStream(c, st); err != nil {
				return err
			}
			m.Sequence = &seq
			return nil
		}),
	)
	if err != nil {
		return err
	}
	if !seenReference {
		return uderrors.NewParsef(uderrors.ErrMissingElement, start.Name, "missing element <dbReference>")
	}
	return nil
}

// DbReference points a member at its source record.
type DbReference struct {
	Type       string
	ID         string
	Properties []Property
}

func (d *DbReference) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	var err error
	if d.Type, err = start.RequiredAttr("type"); err != nil {
		return err
	}
	if d.ID, err = start.RequiredAttr("id"); err != nil {
		return err
	}
	return c.Children(start,
		xmlstream.Handle("property", func(st xmlstream.StartElement) error {
			prop, err := decodeProperty(c, st)
			if err != nil {
				return err
			}
			d.Properties = append(d.Properties, prop)
			return nil
		}),
	)
}

// Property is a typed key/value annotation.
type Property struct {
	Type  string
	Value string
}

func decodeProperty(c *xmlstream.Cursor, start xmlstream.StartElement) (Property, error) {
	var prop Property
	var err error
	if prop.Type, err = start.RequiredAttr("type"); err != nil {
		return Property{}, err
	}
	if prop.Value, err = start.RequiredAttr("value"); err != nil {
		return Property{}, err
	}
	if err := c.Children(start); err != nil {
		return Property{}, err
	}
	return prop, nil
}

// Sequence is a member sequence.
type Sequence struct {
	Length   int
	Checksum string
	Value    string
}

func (s *Sequence) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	var err error
	if s.Length, err = start.RequiredIntAttr("length"); err != nil {
		return err
	}
	s.Checksum, _ = start.Attr("checksum")
	text, err := c.Text(start)
	if err != nil {
		return err
	}
	s.Value = foldSequence(text)
	return nil
}

func foldSequence(text []byte) string {
	out := make([]byte, 0, len(text))
	for _, ch := range text {
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			continue
		}
		out = append(out, ch)
	}
	return string(out)
}
