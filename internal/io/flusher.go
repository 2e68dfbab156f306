package io

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// FlushingWriter wraps an io.Writer and flushes after each write so child
// process output reaches the caller as it is produced. It is safe for the
// concurrent writes exec makes when stdout and stderr share a writer.
type FlushingWriter struct {
	mu      sync.Mutex
	w       io.Writer
	flusher interface{ Flush() error }
}

// NewFlushingWriter creates a new FlushingWriter. If the writer already supports
// flushing, it uses that directly. Otherwise, it wraps it in a bufio.Writer.
func NewFlushingWriter(w io.Writer) *FlushingWriter {
	fw := &FlushingWriter{w: w}

	if f, ok := w.(interface{ Flush() error }); ok {
		fw.flusher = f
	} else {
		bw := bufio.NewWriter(w)
		fw.w = bw
		fw.flusher = bw
	}

	return fw
}

// Write writes data and immediately flushes it.
func (fw *FlushingWriter) Write(p []byte) (n int, err error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	n, err = fw.w.Write(p)
	if err != nil {
		return n, err
	}

	if flushErr := fw.flusher.Flush(); flushErr != nil {
		return n, flushErr
	}

	return n, nil
}

// Flush explicitly flushes any buffered data.
func (fw *FlushingWriter) Flush() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.flusher.Flush()
}

// Stream prepares w to receive child process output. Nil stays nil so the
// child inherits the parent's stream, and *os.File is handed to the child
// as a descriptor. Any other writer is wrapped in a FlushingWriter.
func Stream(w io.Writer) io.Writer {
	switch w.(type) {
	case nil, *os.File, *FlushingWriter:
		return w
	default:
		return NewFlushingWriter(w)
	}
}
