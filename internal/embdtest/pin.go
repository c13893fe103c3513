package embdtest

import (
	"errors"
	"sync"
	"time"

	"github.com/kidoman/embd"
)

var _ embd.DigitalPin = (*Pin)(nil)

// Pin is a host pin whose level is set by the test.
type Pin struct {
	mu sync.Mutex

	Num       int
	Level     int
	Direction embd.Direction
	PulledUp  bool
	Closes    int

	// ReadErr fails Read, PullUpErr fails PullUp.
	ReadErr   error
	PullUpErr error

	edge    embd.Edge
	handler func(embd.DigitalPin)
}

// NewPin returns an idle (high) pin.
func NewPin(n int) *Pin {
	return &Pin{Num: n, Level: embd.High}
}

// Set changes the pin level.
func (p *Pin) Set(level int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Level = level
}

// Fire calls the watch handler, as the host would on an edge.
func (p *Pin) Fire() {
	p.mu.Lock()
	h := p.handler
	p.mu.Unlock()
	if h != nil {
		h(p)
	}
}

// Watching reports the edge the pin is watched for, if any.
func (p *Pin) Watching() (embd.Edge, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.edge, p.handler != nil
}

func (p *Pin) Watch(edge embd.Edge, handler func(embd.DigitalPin)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edge = edge
	p.handler = handler
	return nil
}

func (p *Pin) StopWatching() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = nil
	return nil
}

func (p *Pin) N() int { return p.Num }

func (p *Pin) Write(val int) error {
	p.Set(val)
	return nil
}

func (p *Pin) Read() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ReadErr != nil {
		return 0, p.ReadErr
	}
	return p.Level, nil
}

func (p *Pin) TimePulse(state int) (time.Duration, error) {
	return 0, errors.New("embdtest: not implemented")
}

func (p *Pin) SetDirection(dir embd.Direction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Direction = dir
	return nil
}

func (p *Pin) ActiveLow(b bool) error { return nil }

func (p *Pin) PullUp() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.PullUpErr != nil {
		return p.PullUpErr
	}
	p.PulledUp = true
	return nil
}

func (p *Pin) PullDown() error { return nil }

func (p *Pin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closes++
	p.handler = nil
	return nil
}
