package unidump

import (
	"errors"
	"io"

	uderrors "github.com/jacoelho/unidump/errors"
	"github.com/jacoelho/unidump/pkg/xmlstream"
)

// DecodeEntry decodes a single isolated <entry> fragment, for callers
// that already hold one entry's bytes outside any dump document.
func DecodeEntry[E any](r io.Reader, db Database[E]) (E, error) {
	var zero E
	if r == nil {
		return zero, errNilReader
	}
	if db == nil {
		return zero, errNilDatabase
	}
	c := xmlstream.NewCursor(r)
	for {
		ev, err := c.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return zero, c.UnexpectedEOF(entryElement)
			}
			return zero, err
		}
		if ev.Kind != xmlstream.KindStart {
			continue
		}
		if ev.Name != entryElement {
			return zero, uderrors.NewParsef(uderrors.ErrUnexpectedRoot, ev.Name, "expected <entry>, found <%s>", ev.Name)
		}
		return db.DecodeEntry(c, ev.Start)
	}
}
