package unidump

import (
	"errors"
	"io"
	"iter"

	uderrors "github.com/jacoelho/unidump/errors"
	"github.com/jacoelho/unidump/pkg/xmlstream"
)

var (
	errNilReader   = errors.New("nil dump reader")
	errNilDatabase = errors.New("nil database")
)

// Parser is the single-goroutine parser. It yields entries lazily, in
// strict document order, one Next call at a time. A Parser is not safe
// for concurrent use and is not restartable.
type Parser[E any] struct {
	db       Database[E]
	cursor   *xmlstream.Cursor
	pending  error
	root     string
	finished bool
}

// NewParser creates a sequential parser over an XML dump. Construction
// scans the token stream up to the root element; an unacceptable or
// absent root is reported by the first Next call, not here.
func NewParser[E any](r io.Reader, db Database[E], opts ...Option) (*Parser[E], error) {
	if r == nil {
		return nil, errNilReader
	}
	if db == nil {
		return nil, errNilDatabase
	}
	if _, err := resolveConfig(opts); err != nil {
		return nil, err
	}
	p := &Parser[E]{
		db:     db,
		cursor: xmlstream.NewCursor(r),
	}
	p.scanRoot()
	return p, nil
}

// scanRoot advances to the document's root start event and checks it
// against the database's accepted set. Failures are cached and yielded
// once by the first Next call.
func (p *Parser[E]) scanRoot() {
	for {
		ev, err := p.cursor.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = p.cursor.UnexpectedEOF("xml")
			}
			p.pending = err
			p.finished = true
			return
		}
		if ev.Kind != xmlstream.KindStart {
			continue
		}
		if !rootAccepted(p.db, ev.Name) {
			p.pending = uderrors.NewParsef(uderrors.ErrUnexpectedRoot, ev.Name, "unexpected root element %q", ev.Name)
			p.finished = true
			return
		}
		p.root = ev.Name
		return
	}
}

// Next returns the next entry in document order. It returns io.EOF once
// the root element is closed or the stream ends. A decode failure of one
// entry is returned for that entry only; iteration continues with the
// next one. Stream-level failures end the sequence after being returned
// once.
func (p *Parser[E]) Next() (E, error) {
	var zero E
	if p == nil {
		return zero, errNilReader
	}
	if p.pending != nil {
		err := p.pending
		p.pending = nil
		return zero, err
	}
	if p.finished {
		return zero, io.EOF
	}
	for {
		ev, err := p.cursor.Next()
		if err != nil {
			p.finished = true
			if errors.Is(err, io.EOF) {
				return zero, p.cursor.UnexpectedEOF(p.root)
			}
			return zero, err
		}
		switch ev.Kind {
		case xmlstream.KindStart:
			if ev.Name == entryElement {
				entry, err := p.db.DecodeEntry(p.cursor, ev.Start)
				if streamFailure(err) {
					p.finished = true
				}
				return entry, err
			}
			// non-entry elements under the root (copyright notices,
			// trailing metadata) are skipped wholesale
			if err := p.cursor.Skip(ev.Start); err != nil {
				p.finished = true
				return zero, err
			}
		case xmlstream.KindEnd:
			if ev.Name == p.root && p.cursor.Depth() == 0 {
				p.finished = true
				return zero, io.EOF
			}
		}
	}
}

// streamFailure reports whether a decode error means the token stream
// itself is unusable, as opposed to one entry being invalid.
func streamFailure(err error) bool {
	return uderrors.Is(err, uderrors.ErrUnexpectedEOF) ||
		uderrors.Is(err, uderrors.ErrMalformedXML) ||
		uderrors.Is(err, uderrors.ErrSourceRead)
}

// All returns a single-use iterator over the remaining results. Decode
// failures are yielded with a zero entry; the iterator stops at the end
// of the document.
func (p *Parser[E]) All() iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		for {
			entry, err := p.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(entry, err) {
				return
			}
		}
	}
}
