package uniref

import (
	"io"

	"github.com/jacoelho/unidump"
	"github.com/jacoelho/unidump/pkg/xmlstream"
)

// Database is the UniRef record family. All cluster identity levels
// share the same entry schema.
type Database struct{}

// Roots returns the accepted root element names.
func (Database) Roots() []string {
	return []string{"UniRef", "UniRef50", "UniRef90", "UniRef100"}
}

// DecodeEntry decodes one UniRef cluster entry.
func (Database) DecodeEntry(c *xmlstream.Cursor, start xmlstream.StartElement) (*Entry, error) {
	entry := new(Entry)
	if err := entry.UnmarshalStream(c, start); err != nil {
		return nil, err
	}
	return entry, nil
}

// Parse returns a sequential parser over a UniRef XML dump.
func Parse(r io.Reader, opts ...unidump.Option) (*unidump.Parser[*Entry], error) {
	return unidump.NewParser(r, Database{}, opts...)
}

// ParseThreaded returns a threaded parser over a UniRef XML dump.
func ParseThreaded(r io.Reader, opts ...unidump.Option) (*unidump.ThreadedParser[*Entry], error) {
	return unidump.NewThreadedParser(r, Database{}, opts...)
}

// DecodeEntry decodes a single isolated entry fragment.
func DecodeEntry(r io.Reader) (*Entry, error) {
	return unidump.DecodeEntry(r, Database{})
}
