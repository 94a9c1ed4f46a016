package transport

import "github.com/quorumkv/quorumkv/internal/raft"

func toWireEntries(entries []raft.Entry) []*LogEntry {
	out := make([]*LogEntry, len(entries))
	for i, e := range entries {
		out[i] = &LogEntry{Term: e.Term, Cmd: e.Cmd}
	}
	return out
}

func fromWireEntries(entries []*LogEntry) []raft.Entry {
	out := make([]raft.Entry, len(entries))
	for i, e := range entries {
		out[i] = raft.Entry{Term: e.Term, Cmd: e.Cmd}
	}
	return out
}

func appendEntriesToWire(from, to raft.NodeID, m raft.AppendEntries) *AppendEntriesRequest {
	return &AppendEntriesRequest{
		Term:         m.Term,
		LeaderId:     string(m.LeaderID),
		PrevIndex:    m.PrevIndex,
		PrevTerm:     m.PrevTerm,
		Entries:      toWireEntries(m.Entries),
		LeaderCommit: m.LeaderCommit,
	}
}

func appendEntriesFromWire(from raft.NodeID, req *AppendEntriesRequest) raft.Message {
	return raft.Message{
		From: from,
		Body: raft.AppendEntries{
			Term:         req.Term,
			LeaderID:     raft.NodeID(req.LeaderId),
			PrevIndex:    req.PrevIndex,
			PrevTerm:     req.PrevTerm,
			Entries:      fromWireEntries(req.Entries),
			LeaderCommit: req.LeaderCommit,
		},
	}
}

// appendEntriesReplyToWire flattens AppendEntriesSucceeded/Failed into
// one reply shape discriminated by Success.
func appendEntriesReplyToWire(body raft.Body) *AppendEntriesReply {
	switch m := body.(type) {
	case raft.AppendEntriesSucceeded:
		return &AppendEntriesReply{Term: m.Term, Success: true, MatchIndex: m.MatchIndex}
	case raft.AppendEntriesFailed:
		return &AppendEntriesReply{Term: m.Term, Success: false}
	default:
		return &AppendEntriesReply{}
	}
}

func appendEntriesReplyFromWire(from raft.NodeID, reply *AppendEntriesReply) raft.Message {
	if reply.Success {
		return raft.Message{From: from, Body: raft.AppendEntriesSucceeded{Term: reply.Term, MatchIndex: reply.MatchIndex}}
	}
	return raft.Message{From: from, Body: raft.AppendEntriesFailed{Term: reply.Term}}
}

func requestVoteToWire(m raft.RequestVote) *RequestVoteRequest {
	return &RequestVoteRequest{
		Term:        m.Term,
		CandidateId: string(m.CandidateID),
		LastIndex:   m.LastIndex,
		LastTerm:    m.LastTerm,
	}
}

func requestVoteFromWire(from raft.NodeID, req *RequestVoteRequest) raft.Message {
	return raft.Message{
		From: from,
		Body: raft.RequestVote{
			Term:        req.Term,
			CandidateID: raft.NodeID(req.CandidateId),
			LastIndex:   req.LastIndex,
			LastTerm:    req.LastTerm,
		},
	}
}

func requestVoteReplyToWire(body raft.Body) *RequestVoteReply {
	switch m := body.(type) {
	case raft.VoteGranted:
		return &RequestVoteReply{Term: m.Term, Granted: true}
	case raft.VoteDenied:
		return &RequestVoteReply{Term: m.Term, Granted: false}
	default:
		return &RequestVoteReply{}
	}
}

func requestVoteReplyFromWire(from raft.NodeID, reply *RequestVoteReply) raft.Message {
	if reply.Granted {
		return raft.Message{From: from, Body: raft.VoteGranted{Term: reply.Term}}
	}
	return raft.Message{From: from, Body: raft.VoteDenied{Term: reply.Term}}
}

func clientSetFromWire(req *ClientSetRequest) raft.ClientSet {
	return raft.ClientSet{Cmd: req.Cmd}
}
