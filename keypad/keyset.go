package keypad

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxKeys is the largest matrix two 8-bit ports can scan.
const MaxKeys = 64

// KeySet is a set of key numbers below MaxKeys.
type KeySet uint64

// Has reports whether key is in the set.
func (s KeySet) Has(key int) bool {
	return key >= 0 && key < MaxKeys && s&(1<<uint(key)) != 0
}

// With returns the set with key added.
func (s KeySet) With(key int) KeySet {
	return s | 1<<uint(key)
}

// Without returns the set with key removed.
func (s KeySet) Without(key int) KeySet {
	return s &^ (1 << uint(key))
}

// Minus returns the keys of s that are not in other.
func (s KeySet) Minus(other KeySet) KeySet {
	return s &^ other
}

func (s KeySet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Each calls fn for every key, in ascending order.
func (s KeySet) Each(fn func(key int)) {
	for s != 0 {
		key := bits.TrailingZeros64(uint64(s))
		fn(key)
		s &= s - 1
	}
}

// Keys returns the keys in ascending order.
func (s KeySet) Keys() []int {
	keys := make([]int, 0, s.Len())
	s.Each(func(key int) { keys = append(keys, key) })
	return keys
}

func (s KeySet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	s.Each(func(key int) {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(strconv.Itoa(key))
	})
	b.WriteByte('}')
	return b.String()
}
