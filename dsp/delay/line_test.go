package delay

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for size=0")
	}

	if _, err := New(-1); err == nil {
		t.Fatal("expected error for size=-1")
	}

	if _, err := ForDuration(0, 48000); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestForDurationSize(t *testing.T) {
	d, err := ForDuration(0.5, 1000)
	if err != nil {
		t.Fatal(err)
	}

	if d.Len() != 504 {
		t.Fatalf("Len: got %d want 504", d.Len())
	}
}

func TestReadWrite(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 8; i++ {
		d.Write(float64(i))
	}
	// delay=1 => most recently written (7)
	if got := d.Read(1); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
	// delay=3 => 3 samples back from write head
	if got := d.Read(3); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
}

func TestReadWraparound(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		d.Write(float64(i))
	}

	if got := d.Read(1); got != 9 {
		t.Fatalf("got %v want 9", got)
	}

	if got := d.Read(4); got != 6 {
		t.Fatalf("got %v want 6", got)
	}
}

func TestReadFractionalOnRamp(t *testing.T) {
	d, err := New(32)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 32; i++ {
		d.Write(float64(i))
	}

	// A linear ramp is reproduced exactly by cubic Hermite interpolation.
	got := d.ReadFractional(4.5)
	if !approxEqual(got, 27.5, 1e-12) {
		t.Fatalf("got %v want 27.5", got)
	}
}
