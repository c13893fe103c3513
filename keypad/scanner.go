// Package keypad scans a row/column key matrix wired to an MCP23017 and
// turns the readings into a queue of press and release events.
//
// Columns are driven low one at a time on one port while the rows are read
// on the other port with pull-ups enabled, so a pressed key reads 0.
// A Scanner is polled: nothing happens until UpdateQueue is called, and the
// scanner and its queue must be used from a single goroutine.
package keypad

import (
	"fmt"

	"github.com/SjB/mcp23017"
	"github.com/golang/glog"
	"github.com/kidoman/embd"
)

const idle = 0xff

var _ Expander = (*mcp23017.MCP23017)(nil)

// Expander is the register interface the scanner needs from the chip.
// *mcp23017.MCP23017 implements it.
type Expander interface {
	SetDirection(port mcp23017.Port, b byte) error
	SetPullUp(port mcp23017.Port, b byte) error
	SetInterruptEnable(port mcp23017.Port, b byte) error
	SetDefaultValue(port mcp23017.Port, b byte) error
	SetInterruptControl(port mcp23017.Port, b byte) error
	SetIOControl(b byte) error
	ClearInterrupts() error
	WritePort(port mcp23017.Port, b byte) error
	ReadPort(port mcp23017.Port) (byte, error)
}

// InterruptPin is the host input wired to the expander INT output. It is
// active low. Any embd.DigitalPin implements it, but embd's generic pins
// fail PullUp: use them with Config.ExternalPullUp and a pull-up on the
// board.
type InterruptPin interface {
	SetDirection(dir embd.Direction) error
	PullUp() error
	Read() (int, error)
	Close() error
}

// Scanner debounces a key matrix by diffing consecutive scans.
type Scanner struct {
	columns []int
	rows    []int

	ports  Expander
	irq    InterruptPin
	config Config
	clock  Clock

	keysState KeySet
	events    EventQueue
}

// New configures the expander for scanning and returns the scanner. rows and
// columns are pin numbers (0-7) on config.RowPort and config.ColumnPort.
// irq may be nil; when set, the scanner owns it and releases it on Close.
func New(ports Expander, rows, columns []int, irq InterruptPin, config Config) (*Scanner, error) {
	if err := validatePins("row", rows); err != nil {
		return nil, err
	}
	if err := validatePins("column", columns); err != nil {
		return nil, err
	}
	if config.ColumnPort == config.RowPort {
		return nil, ErrSamePort
	}
	if config.Clock == nil {
		config.Clock = Ticks
	}

	s := &Scanner{
		columns: append([]int(nil), columns...),
		rows:    append([]int(nil), rows...),
		ports:   ports,
		irq:     irq,
		config:  config,
		clock:   config.Clock,
	}
	if err := s.configure(); err != nil {
		if cerr := s.Close(); cerr != nil {
			glog.Warningf("keypad: release interrupt pin: %v", cerr)
		}
		return nil, err
	}
	glog.Infof("keypad: %dx%d matrix, columns on port %v, rows on port %v, interrupt %v",
		len(s.rows), len(s.columns), config.ColumnPort, config.RowPort, s.irq != nil)
	return s, nil
}

func validatePins(what string, pins []int) error {
	if len(pins) == 0 {
		return fmt.Errorf("%w: no %s pins", ErrInvalidPins, what)
	}
	var seen byte
	for _, p := range pins {
		if p < 0 || p > 7 {
			return fmt.Errorf("%w: %s pin %d out of range", ErrInvalidPins, what, p)
		}
		if seen&(1<<uint(p)) != 0 {
			return fmt.Errorf("%w: %s pin %d listed twice", ErrInvalidPins, what, p)
		}
		seen |= 1 << uint(p)
	}
	return nil
}

func (s *Scanner) configure() error {
	cp, rp := s.config.ColumnPort, s.config.RowPort

	// Latch the idle level before the column pins become outputs.
	if err := s.ports.WritePort(cp, idle); err != nil {
		return fmt.Errorf("keypad: idle columns: %w", err)
	}
	if err := s.ports.SetDirection(cp, 0x00); err != nil {
		return fmt.Errorf("keypad: column direction: %w", err)
	}
	if err := s.ports.SetDirection(rp, 0xff); err != nil {
		return fmt.Errorf("keypad: row direction: %w", err)
	}
	if err := s.ports.SetPullUp(rp, 0xff); err != nil {
		return fmt.Errorf("keypad: row pull-ups: %w", err)
	}
	if s.irq == nil {
		return nil
	}

	if err := s.irq.SetDirection(embd.In); err != nil {
		return fmt.Errorf("keypad: interrupt pin direction: %w", err)
	}
	if !s.config.ExternalPullUp {
		if err := s.irq.PullUp(); err != nil {
			return fmt.Errorf("keypad: interrupt pin pull-up: %w", err)
		}
	}
	// Any row differing from all-ones holds INT low.
	if err := s.ports.SetInterruptEnable(cp, 0x00); err != nil {
		return fmt.Errorf("keypad: interrupt enable: %w", err)
	}
	if err := s.ports.SetInterruptEnable(rp, 0xff); err != nil {
		return fmt.Errorf("keypad: interrupt enable: %w", err)
	}
	if err := s.ports.SetDefaultValue(rp, 0xff); err != nil {
		return fmt.Errorf("keypad: interrupt default value: %w", err)
	}
	if err := s.ports.SetInterruptControl(rp, 0xff); err != nil {
		return fmt.Errorf("keypad: interrupt control: %w", err)
	}
	if err := s.ports.SetIOControl(mcp23017.IOCONMirror | mcp23017.IOCONODR); err != nil {
		return fmt.Errorf("keypad: io control: %w", err)
	}
	if err := s.ports.ClearInterrupts(); err != nil {
		return fmt.Errorf("keypad: clear interrupts: %w", err)
	}
	return nil
}

// KeyCount is rows × columns.
func (s *Scanner) KeyCount() int {
	return len(s.rows) * len(s.columns)
}

func (s *Scanner) Rows() []int {
	return append([]int(nil), s.rows...)
}

func (s *Scanner) Columns() []int {
	return append([]int(nil), s.columns...)
}

// Events returns the scanner's queue. Drain it with Get or GetInto.
func (s *Scanner) Events() *EventQueue {
	return &s.events
}

// State returns the keys the scanner currently considers pressed.
func (s *Scanner) State() KeySet {
	return s.keysState
}

// KeyNumberToRowColumn returns the positions of key in the row and column
// lists.
func (s *Scanner) KeyNumberToRowColumn(key int) (row, column int) {
	return key / len(s.columns), key % len(s.columns)
}

// RowColumnToKeyNumber is the inverse of KeyNumberToRowColumn.
func (s *Scanner) RowColumnToKeyNumber(row, column int) int {
	return row*len(s.columns) + column
}

// UpdateQueue scans the matrix once and queues a release event for every key
// that went up since the previous scan, then a press event for every key
// that went down, each group in ascending key order. All events of a scan
// share one timestamp.
//
// On an I/O error nothing is queued and the previous state is kept, so the
// next successful scan reports the transitions relative to it.
func (s *Scanner) UpdateQueue() error {
	timestamp := s.clock()

	current, err := s.scan()
	if err != nil {
		return err
	}

	released := s.keysState.Minus(current)
	pressed := current.Minus(s.keysState)
	released.Each(func(key int) {
		s.events.Append(Event{KeyNumber: key, Pressed: false, Timestamp: timestamp})
	})
	pressed.Each(func(key int) {
		s.events.Append(Event{KeyNumber: key, Pressed: true, Timestamp: timestamp})
	})
	if released != 0 || pressed != 0 {
		glog.V(2).Infof("keypad: pressed %v released %v at %dms", pressed, released, timestamp)
	}

	s.keysState = current
	return nil
}

// scan returns the keys down right now.
//
// With an interrupt pin the row port is only read while INT is asserted.
// A bounce that starts and ends between two samples of INT is not seen.
func (s *Scanner) scan() (pressed KeySet, err error) {
	cp, rp := s.config.ColumnPort, s.config.RowPort

	defer func() {
		if rerr := s.ports.WritePort(cp, idle); rerr != nil && err == nil {
			err = fmt.Errorf("keypad: idle columns: %w", rerr)
		}
	}()

	for c, col := range s.columns {
		if err := s.ports.WritePort(cp, idle&^(1<<uint(col))); err != nil {
			return 0, fmt.Errorf("keypad: select column %d: %w", col, err)
		}

		asserted, err := s.interruptAsserted()
		if err != nil {
			return 0, err
		}
		if !asserted {
			continue
		}

		inputs, err := s.ports.ReadPort(rp)
		if err != nil {
			return 0, fmt.Errorf("keypad: read rows of column %d: %w", col, err)
		}
		for r, row := range s.rows {
			if (inputs>>uint(row))&1 == 0 {
				pressed = pressed.With(s.RowColumnToKeyNumber(r, c))
			}
		}
	}
	return pressed, nil
}

func (s *Scanner) interruptAsserted() (bool, error) {
	if s.irq == nil {
		return true, nil
	}
	v, err := s.irq.Read()
	if err != nil {
		return false, fmt.Errorf("keypad: read interrupt pin: %w", err)
	}
	return v == embd.Low, nil
}

// Reset forgets queued events and treats every key as released, so keys
// still held are reported pressed again by the next scan.
func (s *Scanner) Reset() {
	s.events.Clear()
	s.keysState = 0
}

// Close releases the interrupt pin. Later scans read the rows on every
// column. Calling Close again does nothing.
func (s *Scanner) Close() error {
	if s.irq == nil {
		return nil
	}
	irq := s.irq
	s.irq = nil
	return irq.Close()
}
