package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quorumkv/quorumkv/internal/driver"
	"github.com/quorumkv/quorumkv/internal/raft"
	"github.com/quorumkv/quorumkv/internal/store"
)

type memPersister struct {
	term     uint64
	votedFor *raft.NodeID
	log      *raft.Log
}

func (m *memPersister) SaveTerm(term uint64, votedFor *raft.NodeID) error {
	m.term, m.votedFor = term, votedFor
	return nil
}
func (m *memPersister) SaveLog(l *raft.Log) error { m.log = l; return nil }
func (m *memPersister) LoadTerm() (uint64, *raft.NodeID, error) {
	return m.term, m.votedFor, nil
}
func (m *memPersister) LoadLog() (*raft.Log, error) {
	if m.log == nil {
		return raft.NewLog(), nil
	}
	return m.log, nil
}

type noopSender struct{}

func (noopSender) Send(raft.Message) {}

func newLeaderServer(t *testing.T) *Server {
	t.Helper()
	// Back-date startedAt so the very first Tick already reads as past
	// the election deadline, forcing immediate self-promotion in this
	// single-node cluster without a real sleep.
	d, err := driver.New("S1", nil, raft.DefaultConfig(), raft.NewRandSource(1), &memPersister{}, store.New(), nil, time.Now().Add(-time.Second))
	if err != nil {
		t.Fatalf("driver.New: %v", err)
	}
	d.SetDialer(noopSender{})
	d.Tick()
	return New(d)
}

func TestGetMissingKeyReturns404(t *testing.T) {
	s := newLeaderServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/kv/missing", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}

func TestSetThenGetRoundTrips(t *testing.T) {
	s := newLeaderServer(t)

	putReq := httptest.NewRequest(http.MethodPut, "/v1/kv/foo", strings.NewReader(`{"value":"bar"}`))
	putRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(putRec, putReq)
	if putRec.Code != http.StatusOK {
		t.Fatalf("PUT got status %d, want 200, body=%s", putRec.Code, putRec.Body.String())
	}

	getReq := httptest.NewRequest(http.MethodGet, "/v1/kv/foo", nil)
	getRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("GET got status %d, want 200", getRec.Code)
	}
}

func TestStatusReportsLeader(t *testing.T) {
	s := newLeaderServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
}
