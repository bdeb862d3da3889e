package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

// statusLine prints each status to the terminal as it replaces the previous one.
type statusLine struct {
	out io.Writer
}

func newStatusLine(out io.Writer) *statusLine {
	if out == nil {
		out = os.Stdout
	}

	return &statusLine{out: out}
}

func (s *statusLine) SetStatus(_ context.Context, status string) {
	_, _ = fmt.Fprintln(s.out, status)
}
