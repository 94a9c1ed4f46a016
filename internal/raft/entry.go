package raft

import "fmt"

// Entry is a single record in the replicated log: a command tagged with
// the term of the leader that first appended it. Entries stay unchanged
// once a quorum has acknowledged their index because of the election and
// commit rules; Log.AppendAt itself does not know the commit point and
// truncates any suffix that conflicts with the entries it is given.
type Entry struct {
	Term uint64
	Cmd  string
}

// Log is a 1-based sequence of Entry. Index 0 is a sentinel meaning
// "before the first entry" and always reports term 0; it is never
// present in Entries.
type Log struct {
	Entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{Entries: make([]Entry, 0)}
}

// LastIndex returns the index of the last entry, or 0 for an empty log.
func (l *Log) LastIndex() uint64 {
	return uint64(len(l.Entries))
}

// LastTerm returns the term of the last entry, or 0 for an empty log.
func (l *Log) LastTerm() uint64 {
	return l.TermAt(l.LastIndex())
}

// TermAt returns the term of the entry at index i, or 0 for the sentinel
// index 0. Calling it with i > LastIndex() is a programmer error.
func (l *Log) TermAt(i uint64) uint64 {
	if i == 0 {
		return 0
	}
	if i > l.LastIndex() {
		panic(fmt.Sprintf("raft: TermAt(%d): log has %d entries", i, l.LastIndex()))
	}
	return l.Entries[i-1].Term
}

// EntryAt returns the entry at index i (1-based). Calling it with
// i == 0 or i > LastIndex() is a programmer error.
func (l *Log) EntryAt(i uint64) Entry {
	if i == 0 || i > l.LastIndex() {
		panic(fmt.Sprintf("raft: EntryAt(%d): log has %d entries", i, l.LastIndex()))
	}
	return l.Entries[i-1]
}

// Check reports whether prevIndex/prevTerm describe a valid anchor point
// in this log: true iff prevIndex is the sentinel 0, or an entry exists
// at prevIndex whose term equals prevTerm.
func (l *Log) Check(prevIndex, prevTerm uint64) bool {
	if prevIndex == 0 {
		return true
	}
	if prevIndex > l.LastIndex() {
		return false
	}
	return l.TermAt(prevIndex) == prevTerm
}

// AppendAt implements the Raft log-matching append rule (spec §4.2):
// if Check(prevIndex, prevTerm) fails, the log is left unchanged and
// AppendAt returns false (Mismatch). Otherwise entries are written
// starting at prevIndex+1; an existing entry with a matching term is
// left in place (idempotent), a conflicting one truncates the suffix
// and everything from there on is overwritten.
func (l *Log) AppendAt(prevIndex, prevTerm uint64, entries []Entry) bool {
	if !l.Check(prevIndex, prevTerm) {
		return false
	}
	i := prevIndex + 1
	for _, e := range entries {
		if i <= l.LastIndex() {
			if l.Entries[i-1].Term == e.Term {
				i++
				continue
			}
			l.Entries = l.Entries[:i-1]
		}
		l.Entries = append(l.Entries, e)
		i++
	}
	return true
}
