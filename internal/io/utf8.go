package io

import (
	"bufio"
	"bytes"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StripUTF8BOM returns a reader over r that skips a leading UTF-8 byte order mark, if there is one.
func StripUTF8BOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	return br
}
