// Package segment carves complete <entry>…</entry> fragments out of a
// raw byte stream without tokenizing it.
//
// The boundary scan is literal: any occurrence of the byte sequence
// "<entry" opens a fragment and the next "</entry>" closes it. Inputs
// where these byte sequences appear inside text or attribute content are
// outside the supported input contract.
package segment

import (
	"bytes"
	"errors"
	"io"

	uderrors "github.com/jacoelho/unidump/errors"
)

// DefaultBufferSize is the initial segmentation buffer size. The buffer
// doubles whenever it fills without containing a complete entry.
const DefaultBufferSize = 8 << 10

var (
	entryOpen  = []byte("<entry")
	entryClose = []byte("</entry>")

	errNilReader = errors.New("nil segment reader")
)

// Scanner owns exclusive read access to the byte source and produces
// complete entry fragments one at a time. It is not safe for concurrent
// use; fragment buffers recycled through Recycle may come from any
// goroutine.
type Scanner struct {
	r       io.Reader
	buf     []byte
	free    chan []byte
	err     error
	initial int
	filled  int
	done    bool
}

// NewScanner creates a scanner reading from r. initial sizes the first
// segmentation buffer (DefaultBufferSize if zero or negative). free is an
// optional pool of spent buffers to draw from before allocating.
func NewScanner(r io.Reader, initial int, free chan []byte) *Scanner {
	if r == nil {
		return nil
	}
	if initial <= 0 {
		initial = DefaultBufferSize
	}
	return &Scanner{
		r:       r,
		buf:     make([]byte, initial),
		free:    free,
		initial: initial,
	}
}

// Next returns the next complete entry fragment, starting with "<entry"
// and ending with "</entry>". It returns io.EOF when the source is
// exhausted with no dangling open entry. The returned slice is owned by
// the caller until handed back through Recycle.
func (s *Scanner) Next() ([]byte, error) {
	if s == nil {
		return nil, errNilReader
	}
	if s.done {
		return nil, io.EOF
	}
	for {
		if data, ok := s.extract(); ok {
			return data, nil
		}
		if s.err != nil {
			return nil, s.finish()
		}
		if s.filled == len(s.buf) {
			s.grow()
		}
		n, err := s.r.Read(s.buf[s.filled:])
		s.filled += n
		if err != nil {
			s.err = err
		}
	}
}

// Recycle returns a spent fragment buffer to the free pool. Buffers are
// dropped when the pool is full.
func (s *Scanner) Recycle(b []byte) {
	if s == nil || s.free == nil || cap(b) == 0 {
		return
	}
	select {
	case s.free <- b[:0]:
	default:
	}
}

// extract detaches the first complete entry from the filled region. The
// remainder after the fragment is carried over into a fresh buffer.
func (s *Scanner) extract() ([]byte, bool) {
	start := bytes.Index(s.buf[:s.filled], entryOpen)
	if start < 0 {
		return nil, false
	}
	rel := bytes.Index(s.buf[start:s.filled], entryClose)
	if rel < 0 {
		return nil, false
	}
	end := start + rel + len(entryClose)
	data := s.buf[start:end]
	rest := s.buf[end:s.filled]
	next := s.obtain(len(rest))
	copy(next, rest)
	s.buf = next
	s.filled = len(rest)
	return data, true
}

// finish reports the terminal condition once the source is drained: a
// source error, a dangling open entry, or clean end of stream.
func (s *Scanner) finish() error {
	s.done = true
	if !errors.Is(s.err, io.EOF) {
		return uderrors.Wrap(uderrors.ErrSourceRead, "", s.err)
	}
	if bytes.Contains(s.buf[:s.filled], entryOpen) {
		return uderrors.NewParse(uderrors.ErrUnexpectedEOF, "entry", "unexpected end of stream")
	}
	return io.EOF
}

func (s *Scanner) grow() {
	next := make([]byte, len(s.buf)*2)
	copy(next, s.buf[:s.filled])
	s.buf = next
}

// obtain returns a buffer of at least min bytes, preferring the free
// pool over allocation.
func (s *Scanner) obtain(min int) []byte {
	if s.free != nil {
		select {
		case b := <-s.free:
			if cap(b) >= min {
				return b[:cap(b)]
			}
		default:
		}
	}
	size := s.initial
	for size < min {
		size *= 2
	}
	return make([]byte, size)
}
