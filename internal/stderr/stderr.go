//go:build !windows

// Package stderr diverts what C audio libraries (ALSA through oto) write to
// file descriptor 2 while the TUI owns the terminal.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"syscall"
)

// Capture redirects fd 2 into a pipe until Stop.
type Capture struct {
	orig int
	r, w *os.File
	done chan struct{}
	once sync.Once
}

// Start redirects fd 2 and calls sink for every non-blank line written to
// it. sink runs on the capture goroutine.
func Start(sink func(line string)) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		_ = syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, r: r, w: w, done: make(chan struct{})}
	go c.pump(sink)
	return c, nil
}

func (c *Capture) pump(sink func(string)) {
	defer close(c.done)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			sink(line)
		}
	}
}

// WriteOriginal writes to the terminal's stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = syscall.Write(c.orig, []byte(msg))
}

// Stop restores fd 2 and waits until every captured line reached the sink.
func (c *Capture) Stop() {
	c.once.Do(func() {
		_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
		_ = syscall.Close(c.orig)
		// fd 2 no longer refers to the pipe, so closing w ends the pump
		c.w.Close()
		<-c.done
		c.r.Close()
	})
}
