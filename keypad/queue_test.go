package keypad

import "testing"

func ev(key int, pressed bool) Event {
	return Event{KeyNumber: key, Pressed: pressed, Timestamp: uint32(key)}
}

func TestQueueFIFO(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 17} {
		var q EventQueue
		for i := 0; i < n; i++ {
			q.Append(ev(i, i%2 == 0))
		}
		if q.Len() != n {
			t.Errorf("n=%d: Len() = %d", n, q.Len())
		}
		for i := 0; i < n; i++ {
			got, ok := q.Get()
			if !ok {
				t.Fatalf("n=%d: Get() #%d returned nothing", n, i)
			}
			if got != ev(i, i%2 == 0) {
				t.Errorf("n=%d: Get() #%d = %v, want %v", n, i, got, ev(i, i%2 == 0))
			}
		}
		if _, ok := q.Get(); ok {
			t.Errorf("n=%d: Get() on drained queue returned an event", n)
		}
	}
}

func TestQueueInterleaved(t *testing.T) {
	var q EventQueue
	next := 0
	want := 0
	get := func() {
		t.Helper()
		got, ok := q.Get()
		if !ok {
			t.Fatalf("Get() returned nothing, want key %d", want)
		}
		if got.KeyNumber != want {
			t.Fatalf("Get() = key %d, want key %d", got.KeyNumber, want)
		}
		want++
	}
	push := func(n int) {
		for i := 0; i < n; i++ {
			q.Append(ev(next, true))
			next++
		}
	}

	push(3)
	get() // refills out with 0,1,2
	push(2)
	get()
	get()
	push(1)
	get() // refills out with 3,4,5
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	get()
	get()
	push(1)
	get() // single element fast path
	if !q.Empty() {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestQueueGetInto(t *testing.T) {
	var q EventQueue
	target := Event{KeyNumber: 99, Pressed: true, Timestamp: 7}
	if q.GetInto(&target) {
		t.Error("GetInto on empty queue returned true")
	}
	if target != (Event{KeyNumber: 99, Pressed: true, Timestamp: 7}) {
		t.Errorf("GetInto on empty queue modified target: %v", target)
	}

	q.Append(Event{KeyNumber: 2, Pressed: false, Timestamp: 500})
	q.Append(Event{KeyNumber: 3, Pressed: true, Timestamp: 600})
	if !q.GetInto(&target) {
		t.Fatal("GetInto returned false")
	}
	if target != (Event{KeyNumber: 2, Pressed: false, Timestamp: 500}) {
		t.Errorf("target = %v, want key 2 released @500ms", target)
	}
	if !q.GetInto(&target) || target.KeyNumber != 3 {
		t.Errorf("second GetInto target = %v, want key 3", target)
	}
}

func TestQueueClear(t *testing.T) {
	var q EventQueue
	for i := 0; i < 5; i++ {
		q.Append(ev(i, true))
	}
	q.Get() // split the events between both slices
	q.Append(ev(5, true))
	q.Clear()
	if q.Len() != 0 || !q.Empty() {
		t.Errorf("Len() after Clear = %d, want 0", q.Len())
	}
	if _, ok := q.Get(); ok {
		t.Error("Get() after Clear returned an event")
	}
	q.Append(ev(8, false))
	if got, ok := q.Get(); !ok || got.KeyNumber != 8 {
		t.Errorf("Get() after reuse = %v, %v, want key 8", got, ok)
	}
}

func TestQueueKeepsDuplicates(t *testing.T) {
	var q EventQueue
	q.Append(Event{KeyNumber: 1, Pressed: true, Timestamp: 1})
	q.Append(Event{KeyNumber: 1, Pressed: true, Timestamp: 2})
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
	a, _ := q.Get()
	b, _ := q.Get()
	if !a.Equal(b) || a.Timestamp != 1 || b.Timestamp != 2 {
		t.Errorf("got %v then %v, want the same press at 1ms then 2ms", a, b)
	}
}

func TestQueueSteadyStateDoesNotAllocate(t *testing.T) {
	var q EventQueue
	for i := 0; i < 8; i++ {
		q.Append(ev(i, true))
	}
	for q.Len() > 0 {
		q.Get()
	}
	allocs := testing.AllocsPerRun(100, func() {
		for i := 0; i < 8; i++ {
			q.Append(ev(i, true))
		}
		var e Event
		for q.GetInto(&e) {
		}
	})
	if allocs != 0 {
		t.Errorf("allocations per drain cycle = %v, want 0", allocs)
	}
}
