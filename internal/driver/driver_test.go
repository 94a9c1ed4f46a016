package driver

import (
	"testing"
	"time"

	"github.com/quorumkv/quorumkv/internal/raft"
	"github.com/quorumkv/quorumkv/internal/store"
)

// memPersister is an in-memory persist.Persister stand-in so these
// tests exercise Driver without touching disk.
type memPersister struct {
	term     uint64
	votedFor *raft.NodeID
	log      *raft.Log
}

func (m *memPersister) SaveTerm(term uint64, votedFor *raft.NodeID) error {
	m.term = term
	m.votedFor = votedFor
	return nil
}

func (m *memPersister) SaveLog(l *raft.Log) error {
	m.log = l
	return nil
}

func (m *memPersister) LoadTerm() (uint64, *raft.NodeID, error) {
	return m.term, m.votedFor, nil
}

func (m *memPersister) LoadLog() (*raft.Log, error) {
	if m.log == nil {
		return raft.NewLog(), nil
	}
	return m.log, nil
}

// recordingSender captures every message a Driver tries to dispatch,
// standing in for a *transport.Dialer.
type recordingSender struct {
	sent []raft.Message
}

func (r *recordingSender) Send(msg raft.Message) {
	r.sent = append(r.sent, msg)
}

func newSingleNodeDriver(t *testing.T) *Driver {
	t.Helper()
	d, err := New("S1", nil, raft.DefaultConfig(), raft.NewRandSource(1), &memPersister{}, store.New(), nil, time.Now())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.SetDialer(&recordingSender{})
	return d
}

func TestSingleNodeClusterBecomesLeaderAndCommitsImmediately(t *testing.T) {
	// A one-node cluster needs no votes and should self-elect and
	// commit a submitted entry without waiting on any peer reply,
	// since quorum is already satisfied by itself.
	d := newSingleNodeDriver(t)

	accepted := d.SubmitLocal("", "")
	if accepted {
		t.Fatal("expected SubmitLocal to be rejected before any election has occurred")
	}

	// Force an election by ticking past the deadline.
	d.mu.Lock()
	d.replica.Step(10.0, nil)
	d.mu.Unlock()

	if !d.IsLeader() {
		t.Fatal("expected single-node replica to become leader after its election timeout")
	}

	cmdID := NewCmdID()
	if !d.SubmitLocal(cmdID, "SET k v") {
		t.Fatal("expected SubmitLocal to be accepted once leader")
	}
	if !d.Wait(cmdID, time.Second) {
		t.Fatal("expected the committed entry's waiter to resolve")
	}
	if v, ok := d.Store().Get("k"); !ok || v != "v" {
		t.Fatalf("got (%q, %v), want (v, true)", v, ok)
	}
}

func TestHandleInboundDoesNotDispatchDirectVoteReply(t *testing.T) {
	sender := &recordingSender{}
	d, err := New("S1", []raft.NodeID{"S2", "S3"}, raft.DefaultConfig(), raft.NewRandSource(1), &memPersister{}, store.New(), nil, time.Now())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.SetDialer(sender)

	msg := raft.Message{From: "S2", To: "S1", Body: raft.RequestVote{Term: 1, CandidateID: "S2", LastIndex: 0, LastTerm: 0}}
	d.HandleInbound(msg)

	// A RequestVote at term 1 (ahead of S1's term 0) should not trigger
	// the receiver to start its own campaign; sender should stay empty
	// in this case since the only outbox entry is the direct reply.
	if len(sender.sent) != 0 {
		t.Fatalf("expected no further outbound dispatch for a simple vote reply, got %d", len(sender.sent))
	}
}

func TestHandleClientSetRejectedWhenNotLeader(t *testing.T) {
	d, err := New("S1", []raft.NodeID{"S2"}, raft.DefaultConfig(), raft.NewRandSource(1), &memPersister{}, store.New(), map[raft.NodeID]string{"S2": "localhost:8002"}, time.Now())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.SetDialer(&recordingSender{})

	accepted, _ := d.HandleClientSet("cmd1", "SET a 1")
	if accepted {
		t.Fatal("expected a fresh follower to reject a ClientSet")
	}
}
