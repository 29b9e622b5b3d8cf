// Package xmlstream provides a streaming XML event cursor and the
// recursive-descent dispatch protocol used by entry schema types.
package xmlstream
