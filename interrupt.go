// Package mcp23017 interrupt subsystem
package mcp23017

import (
	"sync"

	"github.com/kidoman/embd"
)

type interruptListener struct {
	mu                sync.Mutex
	interruptablePins map[*digitalPin]func(embd.DigitalPin)
}

func defaultInterruptListener() *interruptListener {
	return &interruptListener{interruptablePins: make(map[*digitalPin]func(embd.DigitalPin), 16)}
}

// handle calls the handler of every watched pin of port flagged in flags.
func (l *interruptListener) handle(port Port, flags byte) {
	l.mu.Lock()
	var fired []*digitalPin
	for p := range l.interruptablePins {
		if p.port == port && (p.bit&flags) != 0x0 {
			fired = append(fired, p)
		}
	}
	l.mu.Unlock()

	for _, p := range fired {
		l.mu.Lock()
		h, ok := l.interruptablePins[p]
		l.mu.Unlock()
		if ok {
			h(p)
		}
	}
}

func (l *interruptListener) registerInterrupt(pin *digitalPin, handler func(embd.DigitalPin)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.interruptablePins[pin] = handler
}

func (l *interruptListener) unregisterInterrupt(pin *digitalPin) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.interruptablePins, pin)
}

func (l *interruptListener) watching(pin *digitalPin) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.interruptablePins[pin]
	return ok
}
