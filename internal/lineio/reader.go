// Package lineio reads user input line by line from a stream shared by several
// consumers (the command loop and the dialog surfaces).
package lineio

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
)

// ErrStopped is returned by Read when the stop channel closed first.
var ErrStopped = errors.New("read stopped")

type inputResult struct {
	text string
	err  error
}

// Reader pumps lines from an io.Reader in the background so reads can be
// abandoned on cancellation without losing the stream.
type Reader struct {
	src *bufio.Reader

	lines     chan inputResult
	back      chan inputResult
	startOnce sync.Once
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		src:  bufio.NewReader(r),
		back: make(chan inputResult, 1),
	}
}

func (r *Reader) initPump() {
	r.startOnce.Do(func() {
		r.lines = make(chan inputResult)
		go r.pump()
	})
}

func (r *Reader) pump() {
	for {
		text, err := r.src.ReadString('\n')

		// If we got text (even with EOF), send it
		if text != "" {
			r.lines <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				close(r.lines)
				return
			}
			r.lines <- inputResult{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Read returns the next line without its line terminator. It returns io.EOF
// once the stream is exhausted, ctx.Err() on cancellation and ErrStopped when
// stop is closed. A line that arrives together with stop is kept for the next
// Read. Lines failing SanitizeInput are returned with the sanitizer error.
func (r *Reader) Read(ctx context.Context, stop <-chan struct{}) (string, error) {
	r.initPump()

	var res inputResult
	select {
	case res = <-r.back:
	default:
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-stop:
			return "", ErrStopped
		case got, ok := <-r.lines:
			if !ok {
				// Stay at EOF for later readers.
				return "", io.EOF
			}
			res = got
		}
	}

	if stopped(stop) {
		r.back <- res
		return "", ErrStopped
	}
	if res.err != nil {
		return "", res.err
	}
	return SanitizeInput(strings.TrimRight(res.text, "\r\n"))
}

func stopped(stop <-chan struct{}) bool {
	if stop == nil {
		return false
	}
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
