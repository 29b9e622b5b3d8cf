// Package uniparc models UniParc archive dump entries.
package uniparc

import (
	uderrors "github.com/jacoelho/unidump/errors"
	"github.com/jacoelho/unidump/pkg/xmlstream"
)

// Entry is one UniParc archive record.
type Entry struct {
	Dataset      string
	Accession    string
	DbReferences []DbReference
	Sequence     Sequence
}

// UnmarshalStream builds the archive entry from its start event.
func (e *Entry) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	e.Dataset, _ = start.Attr("dataset")

	var seenSequence bool
	err := c.Children(start,
		xmlstream.Handle("accession", func(st xmlstream.StartElement) error {
			if e.Accession != "" {
				return uderrors.NewParsef(uderrors.ErrDuplicateElement, start.Name, "duplicate element <accession>")
			}
			accession, err := c.TextString(st)
			if err != nil {
				return err
			}
			e.Accession = accession
			return nil
		}),
		xmlstream.Handle("dbReference", func(st xmlstream.StartElement) error {
			var ref DbReference
			if err := ref.UnmarshalStream(c, st); err != nil {
				return err
			}
			e.DbReferences = append(e.DbReferences, ref)
			return nil
		}),
		xmlstream.Handle("sequence", func(st xmlstream.StartElement) error {
			if seenSequence {
				return uderrors.NewParsef(uderrors.ErrDuplicateElement, start.Name, "duplicate element <sequence>")
			}
			seenSequence = true
			return e.Sequence.UnmarshalStream(c, st)
		}),
	)
	if err != nil {
		return err
	}

	if e.Accession == "" {
		return uderrors.NewParsef(uderrors.ErrMissingElement, start.Name, "missing element <accession>")
	}
	if !seenSequence {
		return uderrors.NewParsef(uderrors.ErrMissingElement, start.Name, "missing element <sequence>")
	}
	return nil
}

// DbReference records one appearance of the sequence in a source
// database.
type DbReference struct {
	Type       string
	ID         string
	VersionI   int
	Version    int
	Active     bool
	Created    string
	Last       string
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
	if d.VersionI, err = start.RequiredIntAttr("version_i"); err != nil {
		return err
	}
	if d.Version, _, err = start.IntAttr("version"); err != nil {
		return err
	}
	if d.Active, err = parseActive(start); err != nil {
		return err
	}
	d.Created, _ = start.Attr("created")
	d.Last, _ = start.Attr("last")
	return c.Children(start,
		xmlstream.Handle("property", func(st xmlstream.StartElement) error {
			var prop Property
			if prop.Type, err = st.RequiredAttr("type"); err != nil {
				return err
			}
			if prop.Value, err = st.RequiredAttr("value"); err != nil {
				return err
			}
			if err := c.Children(st); err != nil {
				return err
			}
			d.Properties = append(d.Properties, prop)
			return nil
		}),
	)
}

// parseActive decodes the Y/N active flag; absent means active.
func parseActive(start xmlstream.StartElement) (bool, error) {
	value, ok := start.Attr("active")
	if !ok {
		return true, nil
	}
	switch value {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	default:
		return false, uderrors.NewParsef(uderrors.ErrInvalidValue, start.Name, "invalid active flag %q", value)
	}
}

// Property is a typed key/value annotation on a cross-reference.
type Property struct {
	Type  string
	Value string
}

// Sequence is the archived sequence.
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
	if s.Checksum, err = start.RequiredAttr("checksum"); err != nil {
		return err
	}
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
