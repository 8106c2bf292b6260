// Package input maps raw key transitions to logical lane actions.
// Physical keys form a closed identifier set validated at configuration
// time; gameplay never sees an invalid binding.
package input

import (
	"fmt"
	"strings"
)

// validKeys is the closed set of bindable physical key identifiers.
// Terminal input gives us printable runes plus space; anything else
// fails configuration validation, not gameplay.
var validKeys = func() map[string]bool {
	m := map[string]bool{"space": true}
	for r := 'a'; r <= 'z'; r++ {
		m[string(r)] = true
	}
	for r := '0'; r <= '9'; r++ {
		m[string(r)] = true
	}
	for _, r := range ";,./[]'" {
		m[string(r)] = true
	}
	return m
}()

// DefaultBindings returns the stock key layout per key count.
func DefaultBindings() map[int][]string {
	return map[int][]string{
		4: {"d", "f", "j", "k"},
		5: {"d", "f", "space", "j", "k"},
		6: {"s", "d", "f", "j", "k", "l"},
		7: {"s", "d", "f", "space", "j", "k", "l"},
	}
}

// Keymap resolves physical keys to lane indices for one key count.
type Keymap struct {
	keyCount int
	lanes    map[string]int
}

// NewKeymap validates a binding list and builds the lookup table.
// The binding count must match the key count; keys must be known and
// unique.
func NewKeymap(keyCount int, keys []string) (*Keymap, error) {
	if len(keys) != keyCount {
		return nil, fmt.Errorf("input: %dK needs %d bindings, got %d", keyCount, keyCount, len(keys))
	}
	lanes := make(map[string]int, len(keys))
	for lane, k := range keys {
		k = NormalizeKey(k)
		if !validKeys[k] {
			return nil, fmt.Errorf("input: unknown key %q for lane %d", k, lane)
		}
		if _, dup := lanes[k]; dup {
			return nil, fmt.Errorf("input: key %q bound to multiple lanes", k)
		}
		lanes[k] = lane
	}
	return &Keymap{keyCount: keyCount, lanes: lanes}, nil
}

// DefaultKeymap returns the stock keymap for the key count.
func DefaultKeymap(keyCount int) (*Keymap, error) {
	keys, ok := DefaultBindings()[keyCount]
	if !ok {
		return nil, fmt.Errorf("input: no default bindings for %dK", keyCount)
	}
	return NewKeymap(keyCount, keys)
}

// NormalizeKey canonicalizes a configured key identifier.
func NormalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	if k == " " {
		return "space"
	}
	return k
}

// Lane returns the lane bound to the key, or false when unbound.
func (m *Keymap) Lane(key string) (int, bool) {
	lane, ok := m.lanes[NormalizeKey(key)]
	return lane, ok
}

// KeyCount returns the lane count this keymap serves.
func (m *Keymap) KeyCount() int { return m.keyCount }
