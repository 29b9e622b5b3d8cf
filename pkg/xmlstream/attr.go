package xmlstream

import (
	"strconv"

	uderrors "github.com/jacoelho/unidump/errors"
)

// Attr returns the value of the named attribute.
func (s StartElement) Attr(name string) (string, bool) {
	for _, attr := range s.Attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// RequiredAttr returns the value of the named attribute, failing with a
// missing-attribute error naming the element when absent.
func (s StartElement) RequiredAttr(name string) (string, error) {
	value, ok := s.Attr(name)
	if !ok {
		return "", uderrors.NewParsef(uderrors.ErrMissingAttribute, s.Name, "missing attribute %q", name)
	}
	return value, nil
}

// IntAttr returns the named attribute parsed as an integer. The boolean
// reports presence; a present but non-numeric value is an invalid-value
// error.
func (s StartElement) IntAttr(name string) (int, bool, error) {
	value, ok := s.Attr(name)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, true, uderrors.NewParsef(uderrors.ErrInvalidValue, s.Name, "attribute %q: invalid integer %q", name, value)
	}
	return n, true, nil
}

// RequiredIntAttr returns the named attribute parsed as an integer,
// failing when absent or non-numeric.
func (s StartElement) RequiredIntAttr(name string) (int, error) {
	n, ok, err := s.IntAttr(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, uderrors.NewParsef(uderrors.ErrMissingAttribute, s.Name, "missing attribute %q", name)
	}
	return n, nil
}

// BoolAttr returns the named attribute parsed as a boolean.
func (s StartElement) BoolAttr(name string) (bool, bool, error) {
	value, ok := s.Attr(name)
	if !ok {
		return false, false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, true, uderrors.NewParsef(uderrors.ErrInvalidValue, s.Name, "attribute %q: invalid boolean %q", name, value)
	}
	return b, true, nil
}
