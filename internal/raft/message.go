package raft

// NodeID identifies a cluster member by its short opaque id (e.g. "S1").
type NodeID string

// Body is implemented by every message payload the core exchanges. It is
// a closed set (spec §3): AppendEntries, AppendEntriesSucceeded,
// AppendEntriesFailed, RequestVote, VoteGranted, VoteDenied, ClientSet,
// ClientSetSucceeded. This is a plain Go tagged union, not a wire
// format — the core never serializes a Body; internal/transport and
// internal/persist own that concern for the bodies they care about.
type Body interface {
	isBody()
}

// Message is an envelope carrying a Body between two replicas, or
// between a client and a replica.
type Message struct {
	From NodeID
	To   NodeID
	Body Body
}

// AppendEntries is sent by a Leader to replicate (or, with Entries
// empty, to merely probe/heartbeat) its log onto a follower.
type AppendEntries struct {
	Term         uint64
	LeaderID     NodeID
	PrevIndex    uint64
	PrevTerm     uint64
	Entries      []Entry
	LeaderCommit uint64
}

func (AppendEntries) isBody() {}

// AppendEntriesSucceeded acknowledges a successful AppendEntries, also
// carrying the new highest index contiguous with the leader's log.
type AppendEntriesSucceeded struct {
	Term       uint64
	MatchIndex uint64
}

func (AppendEntriesSucceeded) isBody() {}

// AppendEntriesFailed rejects an AppendEntries — either the term was
// stale or the consistency check at PrevIndex/PrevTerm failed.
type AppendEntriesFailed struct {
	Term uint64
}

func (AppendEntriesFailed) isBody() {}

// RequestVote is sent by a Candidate to solicit votes for an election.
type RequestVote struct {
	Term        uint64
	CandidateID NodeID
	LastIndex   uint64
	LastTerm    uint64
}

func (RequestVote) isBody() {}

// VoteGranted acknowledges a RequestVote in the affirmative.
type VoteGranted struct {
	Term uint64
}

func (VoteGranted) isBody() {}

// VoteDenied rejects a RequestVote.
type VoteDenied struct {
	Term uint64
}

func (VoteDenied) isBody() {}

// ClientSet is submitted by a client (via the client-framing
// collaborator) asking the Leader to append Cmd to the log.
type ClientSet struct {
	Cmd string
}

func (ClientSet) isBody() {}

// ClientSetSucceeded is the message body for a committed ClientSet,
// with CmdID to correlate it back to the originating request. The core
// never emits it: a Leader's Step produces no message when a ClientSet
// entry commits. internal/driver reports commits of locally submitted
// writes through its own per-command waiter channels instead.
type ClientSetSucceeded struct {
	CmdID string
}

func (ClientSetSucceeded) isBody() {}

// termOf extracts the term field carried by message bodies that have
// one, for the universal pre-check (spec §4.1). ClientSet and
// ClientSetSucceeded carry no term and are exempt from the pre-check.
func termOf(b Body) (uint64, bool) {
	switch m := b.(type) {
	case AppendEntries:
		return m.Term, true
	case AppendEntriesSucceeded:
		return m.Term, true
	case AppendEntriesFailed:
		return m.Term, true
	case RequestVote:
		return m.Term, true
	case VoteGranted:
		return m.Term, true
	case VoteDenied:
		return m.Term, true
	default:
		return 0, false
	}
}
