package raft

import "testing"

func TestLogSentinelCheck(t *testing.T) {
	l := NewLog()
	if !l.Check(0, 0) {
		t.Fatal("prev_index=0, prev_term=0 must always pass check on an empty log")
	}
	l.AppendAt(0, 0, []Entry{{Term: 1, Cmd: "x=1"}})
	if !l.Check(0, 0) {
		t.Fatal("prev_index=0, prev_term=0 must always pass check on a non-empty log") // P8
	}
}

func TestAppendAtAppendsFromSentinel(t *testing.T) {
	l := NewLog()
	ok := l.AppendAt(0, 0, []Entry{{Term: 1, Cmd: "x=1"}})
	if !ok {
		t.Fatal("expected append to succeed")
	}
	if l.LastIndex() != 1 || l.LastTerm() != 1 {
		t.Fatalf("got last=%d/%d, want 1/1", l.LastIndex(), l.LastTerm())
	}
	if l.EntryAt(1) != (Entry{Term: 1, Cmd: "x=1"}) {
		t.Fatalf("unexpected entry: %+v", l.EntryAt(1))
	}
}

func TestAppendAtMismatch(t *testing.T) {
	l := NewLog()
	l.AppendAt(0, 0, []Entry{{Term: 1, Cmd: "a"}})
	ok := l.AppendAt(5, 1, []Entry{{Term: 1, Cmd: "b"}})
	if ok {
		t.Fatal("expected Mismatch for an out-of-range prevIndex")
	}
	if l.LastIndex() != 1 {
		t.Fatal("log must be unchanged after a failed append_at")
	}
}

func TestAppendAtIdempotentOnMatchingTerm(t *testing.T) {
	l := NewLog()
	l.AppendAt(0, 0, []Entry{{Term: 1, Cmd: "a"}, {Term: 1, Cmd: "b"}})
	before := append([]Entry(nil), l.Entries...)
	ok := l.AppendAt(0, 0, []Entry{{Term: 1, Cmd: "a"}, {Term: 1, Cmd: "b"}}) // P5
	if !ok {
		t.Fatal("expected idempotent re-append to succeed")
	}
	if len(l.Entries) != len(before) {
		t.Fatalf("expected unchanged length %d, got %d", len(before), len(l.Entries))
	}
	for i := range before {
		if l.Entries[i] != before[i] {
			t.Fatalf("entry %d changed across idempotent append_at", i)
		}
	}
}

func TestAppendAtTruncatesOnConflict(t *testing.T) {
	l := NewLog()
	l.AppendAt(0, 0, []Entry{{Term: 1, Cmd: "a"}, {Term: 1, Cmd: "b"}, {Term: 1, Cmd: "c"}})
	ok := l.AppendAt(1, 1, []Entry{{Term: 2, Cmd: "b2"}})
	if !ok {
		t.Fatal("expected append_at to succeed")
	}
	if l.LastIndex() != 2 {
		t.Fatalf("expected log truncated to length 2, got %d", l.LastIndex())
	}
	if l.EntryAt(2) != (Entry{Term: 2, Cmd: "b2"}) {
		t.Fatalf("unexpected entry after truncation: %+v", l.EntryAt(2))
	}
}

func TestTermAtSentinel(t *testing.T) {
	l := NewLog()
	if l.TermAt(0) != 0 {
		t.Fatal("TermAt(0) must be 0")
	}
}
