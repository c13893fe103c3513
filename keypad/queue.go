package keypad

// EventQueue is a FIFO of events built on two slices. Append pushes onto
// in; Get pops from the end of out, refilling out with in reversed when it
// runs dry. Both backing arrays are reused, so a queue drained regularly
// stops allocating once warmed up.
//
// The queue is unbounded and not safe for concurrent use.
type EventQueue struct {
	in  []Event
	out []Event
}

// Append adds e after every queued event.
func (q *EventQueue) Append(e Event) {
	q.in = append(q.in, e)
}

// Get removes and returns the oldest event. ok is false when the queue is
// empty.
func (q *EventQueue) Get() (e Event, ok bool) {
	if n := len(q.out); n > 0 {
		e = q.out[n-1]
		q.out = q.out[:n-1]
		return e, true
	}
	if len(q.in) == 1 {
		e = q.in[0]
		q.in = q.in[:0]
		return e, true
	}
	if len(q.in) > 0 {
		for i := len(q.in) - 1; i >= 0; i-- {
			q.out = append(q.out, q.in[i])
		}
		q.in = q.in[:0]
		n := len(q.out)
		e = q.out[n-1]
		q.out = q.out[:n-1]
		return e, true
	}
	return Event{}, false
}

// GetInto stores the oldest event in e and removes it from the queue. When
// the queue is empty e is left untouched and GetInto returns false.
func (q *EventQueue) GetInto(e *Event) bool {
	next, ok := q.Get()
	if !ok {
		return false
	}
	*e = next
	return true
}

// Clear drops every queued event.
func (q *EventQueue) Clear() {
	q.in = q.in[:0]
	q.out = q.out[:0]
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	return len(q.out) + len(q.in)
}

// Empty reports whether Len is zero.
func (q *EventQueue) Empty() bool {
	return q.Len() == 0
}
