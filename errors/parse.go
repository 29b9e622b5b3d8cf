package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a parse failure.
type ErrorCode string

const (
	// ErrMalformedXML indicates the underlying tokenizer rejected the input.
	ErrMalformedXML ErrorCode = "unidump-malformed-xml"
	// ErrUnexpectedEOF indicates the stream ended inside an open element.
	ErrUnexpectedEOF ErrorCode = "unidump-unexpected-eof"
	// ErrUnexpectedRoot indicates the document root is not accepted by the database.
	ErrUnexpectedRoot ErrorCode = "unidump-unexpected-root"
	// ErrUnexpectedElement indicates a child element appeared where none was allowed.
	ErrUnexpectedElement ErrorCode = "unidump-unexpected-element"
	// ErrMissingAttribute indicates a required attribute is absent.
	ErrMissingAttribute ErrorCode = "unidump-missing-attribute"
	// ErrMissingElement indicates a required child element is absent.
	ErrMissingElement ErrorCode = "unidump-missing-element"
	// ErrDuplicateElement indicates an at-most-once element occurred twice.
	ErrDuplicateElement ErrorCode = "unidump-duplicate-element"
	// ErrInvalidValue indicates an attribute or text value is outside its lexical space.
	ErrInvalidValue ErrorCode = "unidump-invalid-value"
	// ErrSourceRead indicates the byte source failed.
	ErrSourceRead ErrorCode = "unidump-source-read"
	// ErrPipelineClosed indicates the threaded pipeline disconnected before completion.
	ErrPipelineClosed ErrorCode = "unidump-pipeline-closed"
)

// Parse describes a single parse failure with a stable code and the
// element it was detected in.
//
//nolint:errname // public API name uses the parsing domain term.
type Parse struct {
	Code    string
	Message string
	Element string
	Err     error
}

// Error formats the failure for display, including code and element context.
func (p *Parse) Error() string {
	if p == nil {
		return "parse <nil>"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", p.Code, p.Message))
	if p.Element != "" {
		b.WriteString(fmt.Sprintf(" in element <%s>", p.Element))
	}
	if p.Err != nil {
		b.WriteString(fmt.Sprintf(": %v", p.Err))
	}
	return b.String()
}

// Unwrap returns the wrapped cause, if any.
func (p *Parse) Unwrap() error {
	if p == nil {
		return nil
	}
	return p.Err
}

// NewParse builds a Parse with a code, message, and the enclosing element name.
func NewParse(code ErrorCode, element, msg string) *Parse {
	return &Parse{Code: string(code), Message: msg, Element: element}
}

// NewParsef formats a message and builds a Parse.
func NewParsef(code ErrorCode, element, format string, args ...any) *Parse {
	return NewParse(code, element, fmt.Sprintf(format, args...))
}

// Wrap builds a Parse around an underlying error.
func Wrap(code ErrorCode, element string, err error) *Parse {
	if err == nil {
		return nil
	}
	return &Parse{Code: string(code), Message: err.Error(), Element: element, Err: err}
}

// AsParse extracts a Parse from an error returned by the parsers.
func AsParse(err error) (*Parse, bool) {
	if err == nil {
		return nil, false
	}
	var p *Parse
	if errors.As(err, &p) && p != nil {
		return p, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	p, ok := AsParse(err)
	return ok && p.Code == string(code)
}
