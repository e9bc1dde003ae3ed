package persist

import (
	"bytes"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCheckpoint_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveCheckpoint("policy", []byte(`{"epsilon":0.5}`)); err != nil {
		t.Fatal(err)
	}

	blob, ok, err := s.LoadCheckpoint("policy")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected checkpoint to exist")
	}
	if !bytes.Equal(blob, []byte(`{"epsilon":0.5}`)) {
		t.Errorf("unexpected blob: %s", blob)
	}
}

func TestCheckpoint_AbsentReturnsNotOK(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.LoadCheckpoint("missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected ok=false for absent checkpoint")
	}
}

func TestCheckpoint_Overwrite(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveCheckpoint("policy", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCheckpoint("policy", []byte("v2")); err != nil {
		t.Fatal(err)
	}

	blob, ok, _ := s.LoadCheckpoint("policy")
	if !ok || string(blob) != "v2" {
		t.Errorf("expected v2, got %q ok=%v", blob, ok)
	}
}
