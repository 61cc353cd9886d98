package testutil

import (
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManualClock(start)

	if !c.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", c.Now(), start)
	}

	c.Advance(90 * time.Second)
	want := start.Add(90 * time.Second)
	if !c.Now().Equal(want) {
		t.Fatalf("Now() after advance = %v, want %v", c.Now(), want)
	}

	c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Now() after set = %v, want %v", c.Now(), start)
	}
}

func TestSequenceIDSource(t *testing.T) {
	s := NewSequenceIDSource()

	first := s.NewID()
	second := s.NewID()

	if first == second {
		t.Fatal("sequential IDs must differ")
	}
	if first != SequenceID(1) {
		t.Fatalf("first ID = %s, want %s", first, SequenceID(1))
	}
	if second != SequenceID(2) {
		t.Fatalf("second ID = %s, want %s", second, SequenceID(2))
	}

	s.Reset()
	if got := s.NewID(); got != SequenceID(1) {
		t.Fatalf("ID after reset = %s, want %s", got, SequenceID(1))
	}
}

func TestSequenceIDTextForm(t *testing.T) {
	// The harness bakes these into scenario files; pin the text form.
	if got := SequenceID(1).String(); got != "00000000-0000-0000-0000-000000000001" {
		t.Fatalf("SequenceID(1) = %s", got)
	}
	if got := SequenceID(255).String(); got != "00000000-0000-0000-0000-0000000000ff" {
		t.Fatalf("SequenceID(255) = %s", got)
	}
}
