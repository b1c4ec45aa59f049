package cli

import (
	"fmt"
	"io"
	"sync"
)

// Notifier shows short toast-like messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// lockedWriter serializes writes from the REPL and from live search
// callbacks that run on timer goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type consoleNotifier struct {
	w io.Writer
}

func newConsoleNotifier(w io.Writer) *consoleNotifier {
	return &consoleNotifier{w: w}
}

func (n *consoleNotifier) Success(msg string) { fmt.Fprintf(n.w, "[ok] %s\n", msg) }
func (n *consoleNotifier) Error(msg string)   { fmt.Fprintf(n.w, "[error] %s\n", msg) }
func (n *consoleNotifier) Info(msg string)    { fmt.Fprintf(n.w, "[info] %s\n", msg) }
