package layermatrix

import "testing"

func TestSetIsSymmetric(t *testing.T) {
	m := New()
	if err := m.Set(2, 5, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !m.Check(2, 5) {
		t.Errorf("expected (2,5) to be set")
	}
	if !m.Check(5, 2) {
		t.Errorf("expected (5,2) to be set since the matrix is symmetric")
	}
}

func TestUnsetPairs(t *testing.T) {
	m := New()
	m.Set(1, 1, true)
	m.Set(1, 1, false)
	if m.Check(1, 1) {
		t.Errorf("expected (1,1) to be cleared")
	}
}

func TestOutOfRange(t *testing.T) {
	m := New()
	if err := m.Set(32, 0, true); err == nil {
		t.Errorf("expected error for layer 32")
	}
	if err := m.Set(0, 40, true); err == nil {
		t.Errorf("expected error for layer 40")
	}
	if m.Check(100, 0) {
		t.Errorf("Check on out of range layer should be false, not panic")
	}
}
