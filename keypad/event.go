package keypad

import "fmt"

// Event is one key transition.
//
// Equal and Hash ignore Timestamp on purpose: a key that bounces produces
// events that compare equal but happened at different times. Use the queue
// order to recover the history, not a map keyed on events.
type Event struct {
	KeyNumber int
	Pressed   bool
	// Timestamp in milliseconds from the scanner's Clock.
	Timestamp uint32
}

// NewEvent returns an Event stamped with the current clock reading.
func NewEvent(keyNumber int, pressed bool, clock Clock) Event {
	return Event{KeyNumber: keyNumber, Pressed: pressed, Timestamp: clock()}
}

// Released reports a key up transition.
func (e Event) Released() bool {
	return !e.Pressed
}

// Equal reports whether both events describe the same transition of the
// same key.
func (e Event) Equal(other Event) bool {
	return e.KeyNumber == other.KeyNumber && e.Pressed == other.Pressed
}

// Hash is consistent with Equal: events differing only by timestamp hash
// to the same value.
func (e Event) Hash() uint32 {
	h := uint32(e.KeyNumber) << 1
	if e.Pressed {
		h |= 1
	}
	return h
}

func (e Event) String() string {
	state := "released"
	if e.Pressed {
		state = "pressed"
	}
	return fmt.Sprintf("key %d %s @%dms", e.KeyNumber, state, e.Timestamp)
}
