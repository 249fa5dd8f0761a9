package testutil

import (
	"sync"

	"github.com/vk/tamigo/internal/vm"
)

// Recorder is a vm.Sink that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []vm.Event
}

// Emit implements vm.Sink.
func (r *Recorder) Emit(e vm.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []vm.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]vm.Event(nil), r.events...)
}

// Names returns the names of the recorded events, in order.
func (r *Recorder) Names() []string {
	var names []string
	for _, e := range r.Events() {
		names = append(names, e.Name())
	}
	return names
}

// Shown returns the displayed text of every sentence and dialogue line,
// dialogue rendered as "speaker: text".
func (r *Recorder) Shown() []string {
	var out []string
	for _, e := range r.Events() {
		switch v := e.(type) {
		case vm.SentenceShown:
			out = append(out, v.Text)
		case vm.DialogueShown:
			out = append(out, v.Speaker+": "+v.Text)
		}
	}
	return out
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
