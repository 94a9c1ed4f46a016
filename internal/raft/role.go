package raft

// role is the internal variant for Follower/Candidate/Leader (spec §9:
// "role change by class-swap" is replaced here by a tagged variant held
// inside Replica, swapped via Replica.becomeX instead of mutating a
// class pointer). Each variant owns only the volatile state specific to
// its role; the shared fields (term, voted_for, log, commit_index) live
// on Replica itself.
type role interface {
	// name reports the role for logging/inspection; not used by step logic.
	name() RoleName

	// onTick runs a clock tick against this role (spec §4.3/§4.4/§4.5).
	onTick(r *Replica, now Clock)

	// onMessage runs an already-precheck'd inbound message (same term as
	// r.Persistent.CurrentTerm) against this role.
	onMessage(r *Replica, from NodeID, body Body, now Clock)
}

// RoleName identifies which of the three role variants a Replica is in.
type RoleName string

const (
	RoleFollower  RoleName = "Follower"
	RoleCandidate RoleName = "Candidate"
	RoleLeader    RoleName = "Leader"
)

// followerRole is the initial role on boot and after any term bump.
type followerRole struct{}

func (followerRole) name() RoleName { return RoleFollower }

func (followerRole) onTick(r *Replica, now Clock) {
	if now > r.electionDeadline {
		r.becomeCandidate(now)
	}
}

func (followerRole) onMessage(r *Replica, from NodeID, body Body, now Clock) {
	switch m := body.(type) {
	case AppendEntries:
		r.resetElectionDeadline(now)
		if !r.Persistent.Log.Check(m.PrevIndex, m.PrevTerm) {
			r.sendTo(from, AppendEntriesFailed{Term: r.Persistent.CurrentTerm})
		} else {
			r.Persistent.Log.AppendAt(m.PrevIndex, m.PrevTerm, m.Entries)
			r.sendTo(from, AppendEntriesSucceeded{
				Term:       r.Persistent.CurrentTerm,
				MatchIndex: m.PrevIndex + uint64(len(m.Entries)),
			})
		}
		if m.LeaderCommit > r.Volatile.CommitIndex {
			ci := m.LeaderCommit
			if li := r.Persistent.Log.LastIndex(); ci > li {
				ci = li
			}
			r.Volatile.CommitIndex = ci
		}
	case RequestVote:
		r.handleRequestVote(from, m)
	default:
		// AppendEntriesSucceeded/Failed, VoteGranted/VoteDenied arriving
		// at a Follower are stale replies to a role this replica no
		// longer holds; spec §7: drop and continue.
	}
}

// handleRequestVote is shared by all three roles (none of them behaves
// differently from a Follower w.r.t. an equal-term RequestVote).
func (r *Replica) handleRequestVote(from NodeID, m RequestVote) {
	votedOK := r.Persistent.VotedFor == nil || *r.Persistent.VotedFor == m.CandidateID
	upToDate := m.LastTerm > r.Persistent.Log.LastTerm() ||
		(m.LastTerm == r.Persistent.Log.LastTerm() && m.LastIndex >= r.Persistent.Log.LastIndex())
	if votedOK && upToDate {
		v := m.CandidateID
		r.Persistent.VotedFor = &v
		r.resetElectionDeadline(r.now)
		r.sendTo(from, VoteGranted{Term: r.Persistent.CurrentTerm})
	} else {
		r.sendTo(from, VoteDenied{Term: r.Persistent.CurrentTerm})
	}
}

// candidateRole is entered by election timeout from Follower, or from
// another Candidate whose own election timed out without quorum.
type candidateRole struct {
	votes *CandidateVolatile
}

func (candidateRole) name() RoleName { return RoleCandidate }

func (candidateRole) onTick(r *Replica, now Clock) {
	if now > r.electionDeadline {
		r.startElection(now)
	}
}

func (c *candidateRole) onMessage(r *Replica, from NodeID, body Body, now Clock) {
	switch m := body.(type) {
	case VoteGranted:
		c.votes.VotesReceived[from] = struct{}{}
		if c.votes.HasQuorum(len(r.Peers) + 1) {
			r.becomeLeader(now)
		}
	case VoteDenied:
		// Equal-term denial; nothing to do. A higher term would already
		// have been converted to Follower by the universal pre-check.
	case AppendEntries:
		// A peer at an equal term claims leadership: accept it.
		r.becomeFollower(now)
		r.role.onMessage(r, from, body, now)
	case RequestVote:
		r.handleRequestVote(from, m)
	default:
	}
}

// leaderRole is entered from Candidate once a quorum of votes arrives.
type leaderRole struct {
	progress *LeaderVolatile
}

func (leaderRole) name() RoleName { return RoleLeader }

func (l *leaderRole) onTick(r *Replica, now Clock) {
	if now-r.lastHeartbeatSent >= r.Config.HeartbeatInterval {
		for _, p := range r.Peers {
			r.sendProbe(p, l.progress)
		}
		r.lastHeartbeatSent = now
	}
}

func (l *leaderRole) onMessage(r *Replica, from NodeID, body Body, now Clock) {
	switch m := body.(type) {
	case ClientSet:
		last := r.Persistent.Log.LastIndex()
		entry := Entry{Term: r.Persistent.CurrentTerm, Cmd: m.Cmd}
		r.Persistent.Log.AppendAt(last, r.Persistent.Log.TermAt(last), []Entry{entry})
		// Recompute immediately: a leader with no peers (or one whose
		// self-vote alone already forms a majority) would otherwise
		// never see the AppendEntriesSucceeded that normally triggers
		// this, and the new entry would never commit.
		r.recomputeCommitIndex(l.progress)
		for _, p := range r.Peers {
			r.sendProbe(p, l.progress)
		}
	case AppendEntriesSucceeded:
		if m.MatchIndex > l.progress.MatchIndex[from] {
			l.progress.MatchIndex[from] = m.MatchIndex
		}
		if m.MatchIndex+1 > l.progress.NextIndex[from] {
			l.progress.NextIndex[from] = m.MatchIndex + 1
		}
		r.recomputeCommitIndex(l.progress)
		if l.progress.MatchIndex[from] < r.Persistent.Log.LastIndex() {
			r.sendProbe(from, l.progress)
		}
	case AppendEntriesFailed:
		next := l.progress.NextIndex[from]
		if next > 1 {
			next--
		}
		l.progress.NextIndex[from] = next
		r.sendProbe(from, l.progress)
	case RequestVote:
		r.handleRequestVote(from, m)
	default:
	}
}
