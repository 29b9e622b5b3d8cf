package segment

import (
	"bufio"
	"io"
	"strings"

	uderrors "github.com/jacoelho/unidump/errors"
)

// ReadRootName advances r past the XML prolog (declaration, comments,
// processing instructions, doctype) and the root element's start tag,
// returning the root's local name. The reader is left positioned at the
// first byte after the root start tag, so the remaining stream can be
// handed to a Scanner untouched.
func ReadRootName(r *bufio.Reader) (string, error) {
	if r == nil {
		return "", errNilReader
	}
	skipBOM(r)
	for {
		if err := skipSpace(r); err != nil {
			return "", prologErr(err)
		}
		b, err := r.ReadByte()
		if err != nil {
			return "", prologErr(err)
		}
		if b != '<' {
			return "", uderrors.NewParsef(uderrors.ErrMalformedXML, "xml", "unexpected byte %q before root element", b)
		}
		next, err := r.ReadByte()
		if err != nil {
			return "", prologErr(err)
		}
		switch next {
		case '?':
			if err := skipPast(r, "?>"); err != nil {
				return "", prologErr(err)
			}
		case '!':
			if err := skipMarkupDecl(r); err != nil {
				return "", err
			}
		default:
			return readRootTag(r, next)
		}
	}
}

func skipBOM(r *bufio.Reader) {
	bom, err := r.Peek(3)
	if err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = r.Discard(3)
	}
}

func skipSpace(r *bufio.Reader) error {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		if !isSpace(b) {
			return r.UnreadByte()
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// skipPast discards input through the next occurrence of marker.
func skipPast(r *bufio.Reader, marker string) error {
	matched := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		if b == marker[matched] {
			matched++
			if matched == len(marker) {
				return nil
			}
		} else if b == marker[0] {
			matched = 1
		} else {
			matched = 0
		}
	}
}

// skipMarkupDecl consumes a "<!" construct: a comment or a doctype,
// including a doctype's bracketed internal subset.
func skipMarkupDecl(r *bufio.Reader) error {
	head, err := r.Peek(2)
	if err == nil && head[0] == '-' && head[1] == '-' {
		_, _ = r.Discard(2)
		if err := skipPast(r, "-->"); err != nil {
			return prologErr(err)
		}
		return nil
	}
	depth := 0
	var quote byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return prologErr(err)
		}
		if quote != 0 {
			if b == quote {
				quote = 0
			}
			continue
		}
		switch b {
		case '"', '\'':
			quote = b
		case '[':
			depth++
		case ']':
			depth--
		case '>':
			if depth <= 0 {
				return nil
			}
		}
	}
}

// readRootTag reads the root element name starting with the given first
// byte, then consumes the rest of the start tag.
func readRootTag(r *bufio.Reader, first byte) (string, error) {
	var name strings.Builder
	name.WriteByte(first)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", prologErr(err)
		}
		if isSpace(b) || b == '>' || b == '/' {
			if err := r.UnreadByte(); err != nil {
				return "", err
			}
			break
		}
		name.WriteByte(b)
	}
	var quote byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", prologErr(err)
		}
		if quote != 0 {
			if b == quote {
				quote = 0
			}
			continue
		}
		switch b {
		case '"', '\'':
			quote = b
		case '>':
			return localName(name.String()), nil
		}
	}
}

func localName(name string) string {
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func prologErr(err error) error {
	if err == io.EOF {
		return uderrors.NewParse(uderrors.ErrUnexpectedEOF, "xml", "unexpected end of stream")
	}
	return uderrors.Wrap(uderrors.ErrSourceRead, "xml", err)
}
