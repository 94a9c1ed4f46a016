// Package driver is the thin external shell spec §2.5 describes: it
// repeatedly feeds (now, inbox) into a raft.Replica and pushes the
// resulting outbox to the transport. It owns the single mutex spec §5
// requires when multiple threads interact with one Replica, persists
// state before any dependent reply is returned (spec §5's durability
// ordering, §7's "persistence failure is fatal"), applies newly
// committed entries to the store, and resolves ClientSetSucceeded
// plumbing for locally-submitted writes.
package driver

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quorumkv/quorumkv/internal/persist"
	"github.com/quorumkv/quorumkv/internal/raft"
	"github.com/quorumkv/quorumkv/internal/store"
	"github.com/quorumkv/quorumkv/internal/transport"
)

// Sender is the subset of *transport.Dialer the Driver depends on,
// narrowed for testability.
type Sender interface {
	Send(msg raft.Message)
}

// Driver wires a raft.Replica to its collaborators: persistence,
// transport, and the key-value store.
type Driver struct {
	mu sync.Mutex

	replica   *raft.Replica
	persister persist.Persister
	store     *store.Store
	dialer    Sender

	self        raft.NodeID
	leaderHints map[raft.NodeID]string // node id -> address reported in redirects (main.go passes the peers' raft addresses)

	startedAt time.Time

	pendingCmds map[uint64]string                 // log index -> cmd id, awaiting commit
	waiters     map[string]chan struct{}          // cmd id -> closed when committed
}

// New constructs a Driver, restoring persistent state from persister if
// any exists.
func New(self raft.NodeID, peers []raft.NodeID, cfg raft.Config, rnd raft.RandSource, persister persist.Persister, st *store.Store, leaderHints map[raft.NodeID]string, now time.Time) (*Driver, error) {
	term, votedFor, err := persister.LoadTerm()
	if err != nil {
		return nil, fmt.Errorf("driver: load term: %w", err)
	}
	log, err := persister.LoadLog()
	if err != nil {
		return nil, fmt.Errorf("driver: load log: %w", err)
	}
	ps := raft.PersistentState{CurrentTerm: term, VotedFor: votedFor, Log: log}
	d := &Driver{
		replica:     raft.NewReplica(self, peers, cfg, rnd, ps, 0),
		persister:   persister,
		store:       st,
		self:        self,
		leaderHints: leaderHints,
		startedAt:   now,
		pendingCmds: make(map[uint64]string),
		waiters:     make(map[string]chan struct{}),
	}
	return d, nil
}

// SetDialer wires the outbound transport. Must be called before any
// message flows (main.go does this immediately after constructing both).
func (d *Driver) SetDialer(s Sender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialer = s
}

// clockNow converts a wall-clock reading to the Clock (seconds since
// Driver construction) the pure core expects, per spec §9's "wall-clock
// reads inside logic" redesign note — only the driver ever calls
// time.Now.
func (d *Driver) clockNow(t time.Time) raft.Clock {
	return t.Sub(d.startedAt).Seconds()
}

// step runs one Step call under the lock: persist first, then apply
// newly committed entries, then dispatch initiating outbound messages.
// Must be called with d.mu held.
func (d *Driver) step(now time.Time, inbox []raft.Message) []raft.Message {
	out := d.replica.Step(d.clockNow(now), inbox)

	if err := d.persister.SaveTerm(d.replica.Persistent.CurrentTerm, d.replica.Persistent.VotedFor); err != nil {
		log.Fatal().Err(err).Msg("driver: failed to persist term — halting before any dependent reply is sent")
	}
	if err := d.persister.SaveLog(d.replica.Persistent.Log); err != nil {
		log.Fatal().Err(err).Msg("driver: failed to persist log — halting before any dependent reply is sent")
	}

	d.applyCommitted()

	if d.dialer != nil {
		for _, m := range out {
			switch m.Body.(type) {
			case raft.AppendEntries, raft.RequestVote:
				d.dialer.Send(m)
			}
		}
	}
	return out
}

// applyCommitted pushes every entry between the store's high-water mark
// and the replica's new commit index into the state machine, then
// resolves any ClientSetSucceeded waiters whose index just committed.
// Must be called with d.mu held.
func (d *Driver) applyCommitted() {
	for d.replica.Volatile.LastApplied < d.replica.Volatile.CommitIndex {
		d.replica.Volatile.LastApplied++
		idx := d.replica.Volatile.LastApplied
		d.store.Apply(d.replica.Persistent.Log.EntryAt(idx))
		if cmdID, ok := d.pendingCmds[idx]; ok {
			delete(d.pendingCmds, idx)
			if ch, ok := d.waiters[cmdID]; ok {
				close(ch)
				delete(d.waiters, cmdID)
			}
		}
	}
}

// HandleInbound implements transport.Handler: run one inbound message
// through the core and report the resulting outbox.
func (d *Driver) HandleInbound(msg raft.Message) []raft.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.step(time.Now(), []raft.Message{msg})
}

// Tick drives the replica from the periodic ticker (main.go), for
// election-timeout and heartbeat-interval checks when no message has
// arrived recently.
func (d *Driver) Tick() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.step(time.Now(), nil)
}

// HandleClientSet implements transport.Handler's leader-forwarding RPC:
// accept iff this replica believes itself to be Leader, else report our
// best guess at who is.
func (d *Driver) HandleClientSet(cmdID, cmd string) (bool, string) {
	d.mu.Lock()
	isLeader := d.replica.RoleName() == raft.RoleLeader
	votedFor := d.replica.Persistent.VotedFor
	d.mu.Unlock()

	if isLeader {
		d.SubmitLocal(cmdID, cmd)
		return true, ""
	}
	if votedFor != nil {
		return false, d.leaderHints[*votedFor]
	}
	return false, ""
}

// SubmitLocal appends cmd to the log (if this replica is Leader) and
// registers a waiter resolved once the resulting entry commits. It is
// the entry point internal/api uses for locally-received client writes.
func (d *Driver) SubmitLocal(cmdID, cmd string) (accepted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.replica.RoleName() != raft.RoleLeader {
		return false
	}
	ch := make(chan struct{})
	d.waiters[cmdID] = ch
	// Register before stepping: step() runs applyCommitted() synchronously,
	// and a single-node (or otherwise immediately-quorate) leader commits
	// this entry within the same call, before SubmitLocal ever gets control
	// back to record the index->cmdID mapping.
	targetIndex := d.replica.Persistent.Log.LastIndex() + 1
	d.pendingCmds[targetIndex] = cmdID
	d.step(time.Now(), []raft.Message{{From: d.self, To: d.self, Body: raft.ClientSet{Cmd: cmd}}})
	return true
}

// Wait blocks until cmdID's entry commits or the timeout elapses,
// reporting whether it committed in time.
func (d *Driver) Wait(cmdID string, timeout time.Duration) bool {
	d.mu.Lock()
	ch, ok := d.waiters[cmdID]
	d.mu.Unlock()
	if !ok {
		return true // already resolved (or never registered) — treat as done
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

// IsLeader reports whether this replica currently believes it is Leader.
func (d *Driver) IsLeader() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.replica.RoleName() == raft.RoleLeader
}

// LeaderHint returns the leaderHints address of the node this replica
// last voted for in the current term — its best guess at the current
// leader, for HTTP redirect responses (grounded on
// node.RedirectLeader). As main.go wires it, that is the peer's raft
// transport address from the cluster config, not its client address.
func (d *Driver) LeaderHint() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.replica.Persistent.VotedFor == nil {
		return ""
	}
	return d.leaderHints[*d.replica.Persistent.VotedFor]
}

// Store exposes the read-only state machine for GET requests.
func (d *Driver) Store() *store.Store { return d.store }

// NewCmdID generates an opaque, unique command id for a client write.
func NewCmdID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// ensure Driver satisfies transport.Handler.
var _ transport.Handler = (*Driver)(nil)
