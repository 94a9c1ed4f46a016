package raft

// PersistentState is the subset of a replica's state that must survive
// restart. Every mutation must be durable (via the Persister
// collaborator, driven by internal/driver) before the reply it caused
// is handed to the transport.
type PersistentState struct {
	CurrentTerm uint64
	VotedFor    *NodeID
	Log         *Log
}

// VolatileState is held by every replica regardless of role.
type VolatileState struct {
	CommitIndex uint64
	LastApplied uint64
}

// LeaderVolatile is reinitialized every time a replica becomes Leader.
// Both maps exclude the leader itself.
type LeaderVolatile struct {
	NextIndex  map[NodeID]uint64
	MatchIndex map[NodeID]uint64
}

// NewLeaderVolatile initializes per-peer progress for a freshly elected
// leader: NextIndex defaults to lastIndex+1, MatchIndex to 0 (spec §4.5).
func NewLeaderVolatile(peers []NodeID, lastIndex uint64) *LeaderVolatile {
	lv := &LeaderVolatile{
		NextIndex:  make(map[NodeID]uint64, len(peers)),
		MatchIndex: make(map[NodeID]uint64, len(peers)),
	}
	for _, p := range peers {
		lv.NextIndex[p] = lastIndex + 1
		lv.MatchIndex[p] = 0
	}
	return lv
}

// CandidateVolatile tracks in-flight election progress.
type CandidateVolatile struct {
	VotesReceived map[NodeID]struct{}
}

// NewCandidateVolatile starts an election's vote tally with just self.
func NewCandidateVolatile(self NodeID) *CandidateVolatile {
	cv := &CandidateVolatile{VotesReceived: make(map[NodeID]struct{})}
	cv.VotesReceived[self] = struct{}{}
	return cv
}

// HasQuorum reports whether the votes received so far exceed half of
// clusterSize (a strict majority, spec glossary: Quorum).
func (cv *CandidateVolatile) HasQuorum(clusterSize int) bool {
	return len(cv.VotesReceived) > clusterSize/2
}
