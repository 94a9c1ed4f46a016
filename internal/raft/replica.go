package raft

// Replica is the per-node Raft state machine: role state, persistent
// and volatile fields, and the Step function that drives all of it from
// two inputs (a wall-clock tick and an inbox of messages) to one output
// (an outbox of messages to send). It performs no I/O and holds no
// locks; internal/driver is responsible for both, and for serializing
// concurrent callers (spec §5).
type Replica struct {
	Self   NodeID
	Peers  []NodeID // all other cluster members, excluding Self
	Config Config
	Rand   RandSource

	Persistent PersistentState
	Volatile   VolatileState

	role              role
	electionDeadline  Clock
	lastHeartbeatSent Clock
	now               Clock // last now seen by Step, for use deep in role handlers

	outbox []Message
}

// NewReplica constructs a Replica in the Follower role, either freshly
// (ps zero-valued with an empty Log) or restored from persistent state
// read back by the storage collaborator (spec §3: "Lifecycle").
func NewReplica(self NodeID, peers []NodeID, cfg Config, rnd RandSource, ps PersistentState, now Clock) *Replica {
	if ps.Log == nil {
		ps.Log = NewLog()
	}
	r := &Replica{
		Self:       self,
		Peers:      peers,
		Config:     cfg,
		Rand:       rnd,
		Persistent: ps,
		Volatile:   VolatileState{},
		now:        now,
	}
	r.role = followerRole{}
	r.electionDeadline = nextElectionDeadline(now, cfg, rnd)
	return r
}

// RoleName reports the replica's current role, for inspection/logging.
func (r *Replica) RoleName() RoleName { return r.role.name() }

// Step is the single entry point of the core (spec §4.1): given the
// current wall-clock time and a batch of inbound messages, it mutates
// the replica's in-memory state and returns the accumulated outbox. It
// runs Tick(now) and then Handle(msg) for each inbox message. Tick and
// Handle only append to the replica's internal outbox, which Step alone
// returns and clears; called on their own they update state but hand no
// messages back to the caller.
func (r *Replica) Step(now Clock, inbox []Message) []Message {
	r.outbox = nil
	r.Tick(now)
	for _, msg := range inbox {
		r.Handle(msg)
	}
	out := r.outbox
	r.outbox = nil
	return out
}

// Tick applies one wall-clock reading to the replica (election timeout
// checks for Follower/Candidate, heartbeat interval checks for Leader).
func (r *Replica) Tick(now Clock) {
	r.now = now
	r.role.onTick(r, now)
}

// Handle applies one inbound message, running the universal term
// pre-check (spec §4.1) before delegating to the current role.
func (r *Replica) Handle(msg Message) {
	if term, ok := termOf(msg.Body); ok {
		if term > r.Persistent.CurrentTerm {
			r.Persistent.CurrentTerm = term
			r.Persistent.VotedFor = nil
			r.becomeFollower(r.now)
		} else if term < r.Persistent.CurrentTerm {
			r.replyStale(msg)
			return
		}
	}
	r.role.onMessage(r, msg.From, msg.Body, r.now)
}

// replyStale answers a message carrying a term older than ours with the
// role-appropriate rejection, per the universal pre-check.
func (r *Replica) replyStale(msg Message) {
	switch msg.Body.(type) {
	case RequestVote:
		r.sendTo(msg.From, VoteDenied{Term: r.Persistent.CurrentTerm})
	case AppendEntries:
		r.sendTo(msg.From, AppendEntriesFailed{Term: r.Persistent.CurrentTerm})
	default:
		// Stale replies to AppendEntriesSucceeded/Failed/VoteGranted/
		// VoteDenied need no rejection of their own; drop them.
	}
}

// sendTo appends a message to the outbox addressed to a single peer.
func (r *Replica) sendTo(to NodeID, body Body) {
	r.outbox = append(r.outbox, Message{From: r.Self, To: to, Body: body})
}

// resetElectionDeadline reschedules the next election timeout
// (MIN_TIMEOUT + rand[0, JITTER)) from now.
func (r *Replica) resetElectionDeadline(now Clock) {
	r.electionDeadline = nextElectionDeadline(now, r.Config, r.Rand)
}

// becomeFollower converts to Follower and resets the election deadline,
// per every transition arrow in the spec §4.5 summary table that lands
// on Follower.
func (r *Replica) becomeFollower(now Clock) {
	r.role = followerRole{}
	r.resetElectionDeadline(now)
}

// becomeCandidate converts to Candidate and immediately starts an
// election (spec §4.3: "convert to Candidate and immediately run 'start
// election'").
func (r *Replica) becomeCandidate(now Clock) {
	r.startElection(now)
}

// startElection performs the Candidate entry actions (spec §4.4): bump
// term, vote for self, reset the deadline, and solicit votes from every
// peer. It is also what a Candidate re-runs on its own election timeout.
func (r *Replica) startElection(now Clock) {
	r.Persistent.CurrentTerm++
	self := r.Self
	r.Persistent.VotedFor = &self
	if c, ok := r.role.(*candidateRole); ok {
		c.votes = NewCandidateVolatile(r.Self)
	} else {
		r.role = &candidateRole{votes: NewCandidateVolatile(r.Self)}
	}
	r.resetElectionDeadline(now)
	cv := r.role.(*candidateRole).votes
	if cv.HasQuorum(len(r.Peers) + 1) {
		// Self-vote alone already reaches quorum (a single-node cluster,
		// or degenerately no peers configured): become Leader without
		// waiting on a VoteGranted that will never arrive.
		r.becomeLeader(now)
		return
	}
	for _, p := range r.Peers {
		r.sendTo(p, RequestVote{
			Term:        r.Persistent.CurrentTerm,
			CandidateID: r.Self,
			LastIndex:   r.Persistent.Log.LastIndex(),
			LastTerm:    r.Persistent.Log.LastTerm(),
		})
	}
}

// becomeLeader converts to Leader on quorum (spec §4.5 entry actions).
func (r *Replica) becomeLeader(now Clock) {
	progress := NewLeaderVolatile(r.Peers, r.Persistent.Log.LastIndex())
	r.role = &leaderRole{progress: progress}
	for _, p := range r.Peers {
		r.sendProbe(p, progress)
	}
	r.lastHeartbeatSent = now
}

// sendProbe builds and sends the AppendEntries for peer p from its
// current NextIndex (spec §4.5 "Probe construction").
func (r *Replica) sendProbe(p NodeID, progress *LeaderVolatile) {
	next := progress.NextIndex[p]
	prevIndex := next - 1
	prevTerm := r.Persistent.Log.TermAt(prevIndex)
	var entries []Entry
	if next <= r.Persistent.Log.LastIndex() {
		entries = []Entry{r.Persistent.Log.EntryAt(next)}
	}
	r.sendTo(p, AppendEntries{
		Term:         r.Persistent.CurrentTerm,
		LeaderID:     r.Self,
		PrevIndex:    prevIndex,
		PrevTerm:     prevTerm,
		Entries:      entries,
		LeaderCommit: r.Volatile.CommitIndex,
	})
}

// recomputeCommitIndex finds the highest N > commit_index backed by a
// majority of match_index (including self) whose entry is from the
// current term, and advances commit_index to it (spec §4.5).
func (r *Replica) recomputeCommitIndex(progress *LeaderVolatile) {
	last := r.Persistent.Log.LastIndex()
	majority := (len(r.Peers)+1)/2 + 1
	for n := last; n > r.Volatile.CommitIndex; n-- {
		if r.Persistent.Log.TermAt(n) != r.Persistent.CurrentTerm {
			continue
		}
		count := 1 // self
		for _, p := range r.Peers {
			if progress.MatchIndex[p] >= n {
				count++
			}
		}
		if count >= majority {
			r.Volatile.CommitIndex = n
			return
		}
	}
}
