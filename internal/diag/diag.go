// Package diag collects the diagnostics a parse session emits and normalizes
// their severity.
package diag

import (
	"log"
	"sync"

	"github.com/dusk-indust/parsedescribe/internal/source"
)

// Message is one normalized diagnostic. Range is nil when the engine gave no
// location.
type Message struct {
	Range    *source.Range
	Severity Severity
	Text     string
}

// Emitter is the sink the parsing engine pushes diagnostics into.
type Emitter interface {
	// Emit reports a diagnostic on the location channel. span may be nil.
	// code must be nil: diagnostic codes have no protocol representation.
	Emit(span *source.Span, msg string, code *string, lvl Level)

	// EmitCustom reports free-form text that has no location.
	EmitCustom(msg string, lvl Level)
}

// Collector is an Emitter that resolves spans against one buffer and keeps
// the messages in arrival order. One Collector serves exactly one session.
type Collector struct {
	sm *source.Map

	mu       sync.Mutex
	messages []Message
}

// NewCollector creates a Collector resolving spans with sm.
func NewCollector(sm *source.Map) *Collector {
	return &Collector{sm: sm}
}

// Emit implements Emitter.
func (c *Collector) Emit(span *source.Span, msg string, code *string, lvl Level) {
	if code != nil {
		log.Printf("diag: unexpected diagnostic code %q on %q", *code, msg)
		panic(&AbortError{Reason: "diagnostic code " + *code + " is not supported"})
	}

	var r *source.Range
	if span != nil {
		resolved := c.sm.Resolve(*span)
		r = &resolved
	}
	c.add(r, msg, lvl)
}

// EmitCustom implements Emitter. Notes and help text are not surfaced.
func (c *Collector) EmitCustom(msg string, lvl Level) {
	if lvl.advisory() {
		return
	}
	c.add(nil, msg, lvl)
}

func (c *Collector) add(r *source.Range, msg string, lvl Level) {
	m := Message{Range: r, Severity: SeverityOf(lvl), Text: msg}

	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
}

// Messages returns a copy of the collected messages in arrival order.
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of collected messages.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Count returns the number of collected messages with severity s.
func (c *Collector) Count(s Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, m := range c.messages {
		if m.Severity == s {
			n++
		}
	}
	return n
}
