// Package transport is the network-transport collaborator (spec §1,
// §6): a gRPC service with one RPC per logical message kind, backed by
// flat (non-oneof) protobuf request/reply pairs in the legacy
// protoc-gen-go shape, grounded on the teacher's
// internal/raftserver/rpc.go and raft.VoteRequest/raft.AppendRequest.
package transport

import "fmt"

// AppendEntriesRequest carries a leader's AppendEntries body.
type AppendEntriesRequest struct {
	Term         uint64       `protobuf:"varint,1,opt,name=term,proto3" json:"term,omitempty"`
	LeaderId     string       `protobuf:"bytes,2,opt,name=leader_id,json=leaderId,proto3" json:"leader_id,omitempty"`
	PrevIndex    uint64       `protobuf:"varint,3,opt,name=prev_index,json=prevIndex,proto3" json:"prev_index,omitempty"`
	PrevTerm     uint64       `protobuf:"varint,4,opt,name=prev_term,json=prevTerm,proto3" json:"prev_term,omitempty"`
	Entries      []*LogEntry  `protobuf:"bytes,5,rep,name=entries,proto3" json:"entries,omitempty"`
	LeaderCommit uint64       `protobuf:"varint,6,opt,name=leader_commit,json=leaderCommit,proto3" json:"leader_commit,omitempty"`
}

func (m *AppendEntriesRequest) Reset()         { *m = AppendEntriesRequest{} }
func (m *AppendEntriesRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*AppendEntriesRequest) ProtoMessage()    {}

// LogEntry is the wire form of raft.Entry.
type LogEntry struct {
	Term uint64 `protobuf:"varint,1,opt,name=term,proto3" json:"term,omitempty"`
	Cmd  string `protobuf:"bytes,2,opt,name=cmd,proto3" json:"cmd,omitempty"`
}

func (m *LogEntry) Reset()         { *m = LogEntry{} }
func (m *LogEntry) String() string { return fmt.Sprintf("%+v", *m) }
func (*LogEntry) ProtoMessage()    {}

// AppendEntriesReply is either AppendEntriesSucceeded or
// AppendEntriesFailed, discriminated by Success.
type AppendEntriesReply struct {
	Term       uint64 `protobuf:"varint,1,opt,name=term,proto3" json:"term,omitempty"`
	Success    bool   `protobuf:"varint,2,opt,name=success,proto3" json:"success,omitempty"`
	MatchIndex uint64 `protobuf:"varint,3,opt,name=match_index,json=matchIndex,proto3" json:"match_index,omitempty"`
}

func (m *AppendEntriesReply) Reset()         { *m = AppendEntriesReply{} }
func (m *AppendEntriesReply) String() string { return fmt.Sprintf("%+v", *m) }
func (*AppendEntriesReply) ProtoMessage()    {}

// RequestVoteRequest carries a candidate's RequestVote body.
type RequestVoteRequest struct {
	Term        uint64 `protobuf:"varint,1,opt,name=term,proto3" json:"term,omitempty"`
	CandidateId string `protobuf:"bytes,2,opt,name=candidate_id,json=candidateId,proto3" json:"candidate_id,omitempty"`
	LastIndex   uint64 `protobuf:"varint,3,opt,name=last_index,json=lastIndex,proto3" json:"last_index,omitempty"`
	LastTerm    uint64 `protobuf:"varint,4,opt,name=last_term,json=lastTerm,proto3" json:"last_term,omitempty"`
}

func (m *RequestVoteRequest) Reset()         { *m = RequestVoteRequest{} }
func (m *RequestVoteRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*RequestVoteRequest) ProtoMessage()    {}

// RequestVoteReply is either VoteGranted or VoteDenied, discriminated
// by Granted.
type RequestVoteReply struct {
	Term    uint64 `protobuf:"varint,1,opt,name=term,proto3" json:"term,omitempty"`
	Granted bool   `protobuf:"varint,2,opt,name=granted,proto3" json:"granted,omitempty"`
}

func (m *RequestVoteReply) Reset()         { *m = RequestVoteReply{} }
func (m *RequestVoteReply) String() string { return fmt.Sprintf("%+v", *m) }
func (*RequestVoteReply) ProtoMessage()    {}

// ClientSetRequest forwards a client write to whichever node currently
// believes itself to be Leader.
type ClientSetRequest struct {
	CmdId string `protobuf:"bytes,1,opt,name=cmd_id,json=cmdId,proto3" json:"cmd_id,omitempty"`
	Cmd   string `protobuf:"bytes,2,opt,name=cmd,proto3" json:"cmd,omitempty"`
}

func (m *ClientSetRequest) Reset()         { *m = ClientSetRequest{} }
func (m *ClientSetRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*ClientSetRequest) ProtoMessage()    {}

// ClientSetReply reports whether this node accepted the write as
// Leader, and if not, the address of the node it believes is.
type ClientSetReply struct {
	Accepted     bool   `protobuf:"varint,1,opt,name=accepted,proto3" json:"accepted,omitempty"`
	LeaderHint   string `protobuf:"bytes,2,opt,name=leader_hint,json=leaderHint,proto3" json:"leader_hint,omitempty"`
}

func (m *ClientSetReply) Reset()         { *m = ClientSetReply{} }
func (m *ClientSetReply) String() string { return fmt.Sprintf("%+v", *m) }
func (*ClientSetReply) ProtoMessage()    {}
