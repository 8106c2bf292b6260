package input

import "testing"

func TestDefaultKeymaps(t *testing.T) {
	for count := 4; count <= 7; count++ {
		km, err := DefaultKeymap(count)
		if err != nil {
			t.Fatalf("DefaultKeymap(%d) failed: %v", count, err)
		}
		if km.KeyCount() != count {
			t.Errorf("KeyCount() = %d, want %d", km.KeyCount(), count)
		}
	}
}

func TestDefaultKeymapUnsupportedCount(t *testing.T) {
	if _, err := DefaultKeymap(3); err == nil {
		t.Error("expected error for 3K")
	}
	if _, err := DefaultKeymap(8); err == nil {
		t.Error("expected error for 8K")
	}
}

func TestNewKeymapLaneOrder(t *testing.T) {
	km, err := NewKeymap(4, []string{"d", "f", "j", "k"})
	if err != nil {
		t.Fatalf("NewKeymap failed: %v", err)
	}

	for i, key := range []string{"d", "f", "j", "k"} {
		lane, ok := km.Lane(key)
		if !ok || lane != i {
			t.Errorf("Lane(%q) = %d/%v, want %d", key, lane, ok, i)
		}
	}
	if _, ok := km.Lane("x"); ok {
		t.Error("unbound key reported as bound")
	}
}

func TestNewKeymapRejectsBadBindings(t *testing.T) {
	if _, err := NewKeymap(4, []string{"d", "f", "j"}); err == nil {
		t.Error("expected error for wrong key count")
	}
	if _, err := NewKeymap(4, []string{"d", "f", "j", "j"}); err == nil {
		t.Error("expected error for duplicate key")
	}
	if _, err := NewKeymap(4, []string{"d", "f", "j", "F5"}); err == nil {
		t.Error("expected error for unknown key name")
	}
}

func TestNormalizeKey(t *testing.T) {
	if NormalizeKey(" ") != "space" {
		t.Error("space character should normalize to the word")
	}
	if NormalizeKey("D") != "d" {
		t.Error("keys should lowercase")
	}
	if NormalizeKey(" f ") != "f" {
		t.Error("keys should trim whitespace")
	}
}

func TestKeymapCaseInsensitiveLookup(t *testing.T) {
	km, err := DefaultKeymap(4)
	if err != nil {
		t.Fatalf("DefaultKeymap failed: %v", err)
	}
	lane, ok := km.Lane("D")
	if !ok || lane != 0 {
		t.Errorf("Lane(D) = %d/%v, want 0/true", lane, ok)
	}
}

func TestFiveKeyDefaultUsesSpace(t *testing.T) {
	km, err := DefaultKeymap(5)
	if err != nil {
		t.Fatalf("DefaultKeymap(5) failed: %v", err)
	}
	lane, ok := km.Lane("space")
	if !ok || lane != 2 {
		t.Errorf("Lane(space) = %d/%v, want 2/true", lane, ok)
	}
}
