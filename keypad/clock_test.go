package keypad

import (
	"math"
	"testing"
)

func TestTicksDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b uint32
		want int32
	}{
		{"equal", 100, 100, 0},
		{"forward", 150, 100, 50},
		{"backward", 100, 150, -50},
		{"across wrap", 5, math.MaxUint32 - 4, 10},
		{"before wrap", math.MaxUint32 - 4, 5, -10},
		{"half range", 1<<31 - 1, 0, math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TicksDiff(tt.a, tt.b); got != tt.want {
				t.Errorf("TicksDiff(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTicksAddWraps(t *testing.T) {
	if got := TicksAdd(math.MaxUint32, 1); got != 0 {
		t.Errorf("TicksAdd(max, 1) = %d, want 0", got)
	}
	if got := TicksAdd(3, -5); got != math.MaxUint32-1 {
		t.Errorf("TicksAdd(3, -5) = %d, want %d", got, uint32(math.MaxUint32-1))
	}
	start := uint32(math.MaxUint32 - 10)
	if got := TicksDiff(TicksAdd(start, 20), start); got != 20 {
		t.Errorf("TicksDiff(TicksAdd(start, 20), start) = %d, want 20", got)
	}
}

func TestTicksIsMonotonic(t *testing.T) {
	a := Ticks()
	b := Ticks()
	if TicksDiff(b, a) < 0 {
		t.Errorf("Ticks went backwards: %d then %d", a, b)
	}
}
