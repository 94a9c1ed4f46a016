// Package raftpb defines the on-disk wire types for a replica's
// persistent state: the term/vote header and the log entries
// themselves (spec §6: "Persistent state file layout"). These are
// hand-authored in the legacy protoc-gen-go shape (struct tags plus
// Reset/String/ProtoMessage) rather than run through protoc, mirroring
// the teacher's own generated raft.TermRecord/raft.LogStore types.
// github.com/golang/protobuf/proto marshals any message exposing this
// shape via its struct-tag reflection path.
package raftpb

import "fmt"

// TermRecord is the persisted header: the current term and, if any,
// the candidate this replica voted for in that term.
type TermRecord struct {
	Term     uint64 `protobuf:"varint,1,opt,name=term,proto3" json:"term,omitempty"`
	VotedFor string `protobuf:"bytes,2,opt,name=voted_for,json=votedFor,proto3" json:"voted_for,omitempty"`
	HasVote  bool   `protobuf:"varint,3,opt,name=has_vote,json=hasVote,proto3" json:"has_vote,omitempty"`
}

func (m *TermRecord) Reset()         { *m = TermRecord{} }
func (m *TermRecord) String() string { return fmt.Sprintf("%+v", *m) }
func (*TermRecord) ProtoMessage()    {}

// LogRecord is one persisted Entry: a term and the raw command text.
// The core's Entry is bytes-or-string (spec §3); on disk it is always
// the string form.
type LogRecord struct {
	Term uint64 `protobuf:"varint,1,opt,name=term,proto3" json:"term,omitempty"`
	Cmd  string `protobuf:"bytes,2,opt,name=cmd,proto3" json:"cmd,omitempty"`
}

func (m *LogRecord) Reset()         { *m = LogRecord{} }
func (m *LogRecord) String() string { return fmt.Sprintf("%+v", *m) }
func (*LogRecord) ProtoMessage()    {}

// LogStore is the whole persisted log, written and read back as one
// unit (spec §6: "round-tripping ... must produce an identical log").
type LogStore struct {
	Entries []*LogRecord `protobuf:"bytes,1,rep,name=entries,proto3" json:"entries,omitempty"`
}

func (m *LogStore) Reset()         { *m = LogStore{} }
func (m *LogStore) String() string { return fmt.Sprintf("%+v", *m) }
func (*LogStore) ProtoMessage()    {}
