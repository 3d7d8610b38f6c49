// Package notify carries transient user-facing messages from the console
// operations to whatever presents them (flash messages, terminal output).
package notify

import (
	"fmt"
	"io"
	"sync"
)

const (
	TypeSuccess = "success"
	TypeError   = "error"
)

type Message struct {
	Type    string
	Message string
}

type Notifier interface {
	Notify(Message)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(Message)

func (f NotifierFunc) Notify(m Message) { f(m) }

func Success(n Notifier, msg string) { n.Notify(Message{Type: TypeSuccess, Message: msg}) }

func Error(n Notifier, msg string) { n.Notify(Message{Type: TypeError, Message: msg}) }

// Discard drops every message.
var Discard Notifier = NotifierFunc(func(Message) {})

// Recorder keeps messages in memory, in arrival order.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Errors returns the text of every error message.
func (r *Recorder) Errors() []string {
	var out []string
	for _, m := range r.Messages() {
		if m.Type == TypeError {
			out = append(out, m.Message)
		}
	}
	return out
}

// Writer prints messages one per line, prefixed with their type.
type Writer struct {
	Out io.Writer
}

func (w Writer) Notify(m Message) {
	fmt.Fprintf(w.Out, "[%s] %s\n", m.Type, m.Message)
}
