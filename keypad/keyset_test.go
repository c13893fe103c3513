package keypad

import (
	"reflect"
	"testing"
)

func TestKeySet(t *testing.T) {
	var s KeySet
	s = s.With(4).With(1).With(63).With(4)
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if got, want := s.Keys(), []int{1, 4, 63}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	for _, k := range []int{1, 4, 63} {
		if !s.Has(k) {
			t.Errorf("Has(%d) = false", k)
		}
	}
	for _, k := range []int{-1, 0, 2, 64} {
		if s.Has(k) {
			t.Errorf("Has(%d) = true", k)
		}
	}
	if got := s.Without(4).String(); got != "{1 63}" {
		t.Errorf("Without(4) = %s, want {1 63}", got)
	}
	other := KeySet(0).With(1).With(2)
	if got := s.Minus(other).Keys(); !reflect.DeepEqual(got, []int{4, 63}) {
		t.Errorf("Minus = %v, want [4 63]", got)
	}
	if got := KeySet(0).String(); got != "{}" {
		t.Errorf("empty String() = %s, want {}", got)
	}
}
