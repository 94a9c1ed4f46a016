package store

import (
	"testing"

	"github.com/quorumkv/quorumkv/internal/raft"
)

func TestApplySetAndGet(t *testing.T) {
	s := New()
	s.Apply(raft.Entry{Term: 1, Cmd: EncodeSet("x", "1")})
	v, ok := s.Get("x")
	if !ok || v != "1" {
		t.Fatalf("got (%q, %v), want (1, true)", v, ok)
	}
}

func TestApplyDel(t *testing.T) {
	s := New()
	s.Apply(raft.Entry{Term: 1, Cmd: EncodeSet("x", "1")})
	s.Apply(raft.Entry{Term: 1, Cmd: EncodeDel("x")})
	_, ok := s.Get("x")
	if ok {
		t.Fatal("expected key to be absent after DEL")
	}
}

func TestApplyUnknownCommandIgnored(t *testing.T) {
	s := New()
	s.Apply(raft.Entry{Term: 1, Cmd: "NOOP"})
	if s.Len() != 0 {
		t.Fatalf("expected no keys applied for an unrecognized command, got %d", s.Len())
	}
}

func TestApplyIsIdempotentUnderReapply(t *testing.T) {
	s := New()
	cmd := EncodeSet("k", "v")
	s.Apply(raft.Entry{Term: 1, Cmd: cmd})
	s.Apply(raft.Entry{Term: 1, Cmd: cmd})
	if s.Len() != 1 {
		t.Fatalf("expected exactly one key after reapplying an identical SET, got %d", s.Len())
	}
}
