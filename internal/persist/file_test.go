package persist

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/quorumkv/quorumkv/internal/raft"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "quorumkv-persist-test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// P7 — a persistent log that is written, closed, and reopened reads
// back bit-identical entries.
func TestLogRoundTrip(t *testing.T) {
	dir := tempDir(t)
	p := NewFilePersister(dir)

	log := raft.NewLog()
	log.AppendAt(0, 0, []raft.Entry{
		{Term: 1, Cmd: "x=1"},
		{Term: 1, Cmd: "y=2"},
		{Term: 2, Cmd: "z=3"},
	})
	if err := p.SaveLog(log); err != nil {
		t.Fatalf("SaveLog: %v", err)
	}

	reopened := NewFilePersister(dir)
	got, err := reopened.LoadLog()
	if err != nil {
		t.Fatalf("LoadLog: %v", err)
	}
	if len(got.Entries) != len(log.Entries) {
		t.Fatalf("got %d entries, want %d", len(got.Entries), len(log.Entries))
	}
	for i := range log.Entries {
		if got.Entries[i] != log.Entries[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, got.Entries[i], log.Entries[i])
		}
	}
}

func TestTermRoundTrip(t *testing.T) {
	dir := tempDir(t)
	p := NewFilePersister(dir)
	self := raft.NodeID("S3")

	if err := p.SaveTerm(7, &self); err != nil {
		t.Fatalf("SaveTerm: %v", err)
	}
	term, votedFor, err := NewFilePersister(dir).LoadTerm()
	if err != nil {
		t.Fatalf("LoadTerm: %v", err)
	}
	if term != 7 {
		t.Fatalf("got term %d, want 7", term)
	}
	if votedFor == nil || *votedFor != self {
		t.Fatalf("got votedFor %v, want %v", votedFor, self)
	}
}

func TestTermRoundTripNoVote(t *testing.T) {
	dir := tempDir(t)
	p := NewFilePersister(dir)
	if err := p.SaveTerm(3, nil); err != nil {
		t.Fatalf("SaveTerm: %v", err)
	}
	term, votedFor, err := p.LoadTerm()
	if err != nil {
		t.Fatalf("LoadTerm: %v", err)
	}
	if term != 3 || votedFor != nil {
		t.Fatalf("got term=%d votedFor=%v, want term=3 votedFor=nil", term, votedFor)
	}
}

func TestLoadMissingFilesYieldsFreshState(t *testing.T) {
	dir := tempDir(t)
	p := NewFilePersister(dir)
	log, err := p.LoadLog()
	if err != nil {
		t.Fatalf("LoadLog on fresh dir: %v", err)
	}
	if log.LastIndex() != 0 {
		t.Fatal("expected empty log for a fresh directory")
	}
	term, votedFor, err := p.LoadTerm()
	if err != nil || term != 0 || votedFor != nil {
		t.Fatalf("expected zero term state for a fresh directory, got term=%d votedFor=%v err=%v", term, votedFor, err)
	}
}
