package unidump

import (
	"github.com/jacoelho/unidump/pkg/xmlstream"
)

// entryElement is the local name of the per-record element in every
// supported dump family.
const entryElement = "entry"

// Database identifies a record family: which root element names are
// accepted for its documents, and how one entry is decoded. The cursor
// handed to DecodeEntry is positioned just after the entry start event;
// on success it must be positioned just after the entry's end tag.
type Database[E any] interface {
	Roots() []string
	DecodeEntry(c *xmlstream.Cursor, start xmlstream.StartElement) (E, error)
}

func rootAccepted[E any](db Database[E], name string) bool {
	for _, root := range db.Roots() {
		if root == name {
			return true
		}
	}
	return false
}
