// Package store is the key-value state machine collaborator named in
// spec §1 ("key-value state machine that consumes committed entries");
// it is backed by an immutable radix tree so that reads never block on
// or race with the single writer applying newly committed entries.
package store

import (
	"strings"
	"sync/atomic"
	"unsafe"

	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/quorumkv/quorumkv/internal/raft"
)

// Store is the application-level state machine driven by the driver's
// "commit index advanced" signal (spec §1).
type Store struct {
	root unsafe.Pointer // *iradix.Tree, swapped atomically on each Apply
}

// New returns an empty Store.
func New() *Store {
	s := &Store{}
	tree := iradix.New()
	atomic.StorePointer(&s.root, unsafe.Pointer(tree))
	return s
}

func (s *Store) tree() *iradix.Tree {
	return (*iradix.Tree)(atomic.LoadPointer(&s.root))
}

// Get reads a key from the current snapshot. It never blocks on or
// observes an in-progress Apply.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.tree().Get([]byte(key))
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Apply decodes and applies one committed Entry's command to the
// store. The command encoding is a small textual protocol ("SET key
// value" / "DEL key"), a concrete realization of spec §3's
// "bytes-or-string" cmd field.
func (s *Store) Apply(e raft.Entry) {
	fields := strings.SplitN(e.Cmd, " ", 3)
	if len(fields) == 0 {
		return
	}
	txn := s.tree().Txn()
	switch strings.ToUpper(fields[0]) {
	case "SET":
		if len(fields) != 3 {
			return
		}
		txn.Insert([]byte(fields[1]), fields[2])
	case "DEL":
		if len(fields) != 2 {
			return
		}
		txn.Delete([]byte(fields[1]))
	default:
		return
	}
	atomic.StorePointer(&s.root, unsafe.Pointer(txn.Commit()))
}

// EncodeSet builds the textual command for a SET, for callers
// constructing a raft.ClientSet.
func EncodeSet(key, value string) string { return "SET " + key + " " + value }

// EncodeDel builds the textual command for a DEL.
func EncodeDel(key string) string { return "DEL " + key }

// Len reports the number of keys currently in the store.
func (s *Store) Len() int { return s.tree().Len() }
