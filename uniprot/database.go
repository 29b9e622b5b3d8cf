package uniprot

import (
	"io"

	"github.com/jacoelho/unidump"
	"github.com/jacoelho/unidump/pkg/xmlstream"
)

// Database is the UniProtKB record family.
type Database struct{}

// Roots returns the accepted root element names.
func (Database) Roots() []string {
	return []string{"uniprot"}
}

// DecodeEntry decodes one UniProtKB entry.
func (Database) DecodeEntry(c *xmlstream.Cursor, start xmlstream.StartElement) (*Entry, error) {
	entry := new(Entry)
	if err := entry.UnmarshalStream(c, start); err != nil {
		return nil, err
	}
	return entry, nil
}

// Parse returns a sequential parser over a UniProtKB XML dump.
func Parse(r io.Reader, opts ...unidump.Option) (*unidump.Parser[*Entry], error) {
	return unidump.NewParser(r, Database{}, opts...)
}

// ParseThreaded returns a threaded parser over a UniProtKB XML dump.
func ParseThreaded(r io.Reader, opts ...unidump.Option) (*unidump.ThreadedParser[*Entry], error) {
	return unidump.NewThreadedParser(r, Database{}, opts...)
}

// DecodeEntry decodes a single isolated entry fragment.
func DecodeEntry(r io.Reader) (*Entry, error) {
	return unidump.DecodeEntry(r, Database{})
}
