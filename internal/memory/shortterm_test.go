package memory

import (
	"fmt"
	"testing"
)

func TestShortTerm_CapacityNeverExceeded(t *testing.T) {
	s := NewShortTerm(5)
	for i := 0; i < 50; i++ {
		s.Record(Entry{Kind: KindEvent, Text: fmt.Sprintf("e%d", i)})
	}
	if s.Len() != 5 {
		t.Fatalf("expected len 5, got %d", s.Len())
	}
}

func TestShortTerm_RecentNewestFirst(t *testing.T) {
	s := NewShortTerm(5)
	for i := 0; i < 8; i++ {
		s.Record(Entry{Kind: KindEvent, Text: fmt.Sprintf("e%d", i)})
	}

	got := s.Recent(5)
	want := []string{"e7", "e6", "e5", "e4", "e3"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Text != w {
			t.Errorf("position %d: expected %s, got %s", i, w, got[i].Text)
		}
	}
}

func TestShortTerm_RecentDoesNotConsume(t *testing.T) {
	s := NewShortTerm(3)
	s.Record(Entry{Text: "a"})
	s.Record(Entry{Text: "b"})

	first := s.Recent(2)
	second := s.Recent(2)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("reads must be restartable: %d then %d", len(first), len(second))
	}
	if first[0].Text != second[0].Text {
		t.Errorf("repeated reads differ: %s vs %s", first[0].Text, second[0].Text)
	}
}

func TestShortTerm_RecentMoreThanStored(t *testing.T) {
	s := NewShortTerm(10)
	s.Record(Entry{Text: "only"})

	got := s.Recent(5)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
}

func TestShortTerm_Clear(t *testing.T) {
	s := NewShortTerm(3)
	s.Record(Entry{Text: "a"})
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty after clear, got %d", s.Len())
	}
}
