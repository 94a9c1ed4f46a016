// Package persist implements the durable-log storage collaborator the
// core requires (spec §4.2, §6). It is a file-backed realization: a
// whole-file rewrite-then-fsync of two files per replica, the term
// header and the log, marshaled with the legacy-compatible protobuf
// runtime the teacher uses for its own persisted records.
package persist

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/golang/protobuf/proto"

	"github.com/quorumkv/quorumkv/internal/raft"
	"github.com/quorumkv/quorumkv/internal/raftpb"
)

// Persister is the contract internal/driver depends on (SPEC_FULL §4.6).
// A failed Save* call must be treated as fatal by the caller: the
// driver halts before any reply dependent on it reaches the transport
// (spec §7).
type Persister interface {
	SaveTerm(term uint64, votedFor *raft.NodeID) error
	SaveLog(log *raft.Log) error
	LoadTerm() (term uint64, votedFor *raft.NodeID, err error)
	LoadLog() (*raft.Log, error)
}

// FilePersister stores term and log as two sibling files under Dir,
// named the way the teacher's NodeConfig lays them out ("term",
// "raftlog").
type FilePersister struct {
	Dir string
}

// NewFilePersister returns a FilePersister rooted at dir. The directory
// must already exist.
func NewFilePersister(dir string) *FilePersister {
	return &FilePersister{Dir: dir}
}

func (p *FilePersister) termPath() string { return filepath.Join(p.Dir, "term") }
func (p *FilePersister) logPath() string  { return filepath.Join(p.Dir, "raftlog") }

// SaveTerm persists current_term and voted_for, matching node.WriteTerm.
func (p *FilePersister) SaveTerm(term uint64, votedFor *raft.NodeID) error {
	rec := &raftpb.TermRecord{Term: term}
	if votedFor != nil {
		rec.HasVote = true
		rec.VotedFor = string(*votedFor)
	}
	out, err := proto.Marshal(rec)
	if err != nil {
		return fmt.Errorf("persist: marshal term record: %w", err)
	}
	return writeFileFsync(p.termPath(), out)
}

// LoadTerm reads back the term header written by SaveTerm, or zero
// values if no file exists yet (a fresh replica).
func (p *FilePersister) LoadTerm() (uint64, *raft.NodeID, error) {
	data, err := ioutil.ReadFile(p.termPath())
	if os.IsNotExist(err) {
		return 0, nil, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("persist: read term file: %w", err)
	}
	rec := &raftpb.TermRecord{}
	if err := proto.Unmarshal(data, rec); err != nil {
		return 0, nil, fmt.Errorf("persist: unmarshal term record: %w", err)
	}
	if !rec.HasVote {
		return rec.Term, nil, nil
	}
	v := raft.NodeID(rec.VotedFor)
	return rec.Term, &v, nil
}

// SaveLog persists the entire log, matching node.WriteLogs.
func (p *FilePersister) SaveLog(log *raft.Log) error {
	store := &raftpb.LogStore{Entries: make([]*raftpb.LogRecord, len(log.Entries))}
	for i, e := range log.Entries {
		store.Entries[i] = &raftpb.LogRecord{Term: e.Term, Cmd: e.Cmd}
	}
	out, err := proto.Marshal(store)
	if err != nil {
		return fmt.Errorf("persist: marshal log store: %w", err)
	}
	return writeFileFsync(p.logPath(), out)
}

// LoadLog reads back the log written by SaveLog, or an empty log if no
// file exists yet — matching node.ReadLogs's "return empty on read
// error" fallback for the missing-file case specifically (a genuine
// decode failure is surfaced, since silently discarding a corrupt log
// would violate the durability guarantee spec §7 assigns to this
// layer).
func (p *FilePersister) LoadLog() (*raft.Log, error) {
	data, err := ioutil.ReadFile(p.logPath())
	if os.IsNotExist(err) {
		return raft.NewLog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist: read log file: %w", err)
	}
	store := &raftpb.LogStore{}
	if err := proto.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("persist: unmarshal log store: %w", err)
	}
	entries := make([]raft.Entry, len(store.Entries))
	for i, r := range store.Entries {
		entries[i] = raft.Entry{Term: r.Term, Cmd: r.Cmd}
	}
	return &raft.Log{Entries: entries}, nil
}

// writeFileFsync writes data to a temp file in the same directory, then
// fsyncs and renames it into place, so a crash mid-write never leaves a
// partially-written file behind (spec §5: "append-then-fsync
// discipline").
func writeFileFsync(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
