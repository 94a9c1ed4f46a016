package transport

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/quorumkv/quorumkv/internal/raft"
)

// dialTimeout bounds how long Send waits to establish a connection to a
// peer it hasn't talked to yet (grounded on node.NewForeignNode's
// 100ms connect timeout).
const dialTimeout = 200 * time.Millisecond

// rpcTimeout bounds one outbound RPC call (grounded on
// node.requestVote/requestAppend's 4ms/12ms call timeouts, widened
// since this repo's RPCs carry a plain Go message rather than a raw
// socket round trip within the same process).
const rpcTimeout = 100 * time.Millisecond

// peerConn tracks one peer's connection and client stub, plus whether
// the last contact succeeded — grounded on node.ForeignNode.
type peerConn struct {
	addr      string
	conn      *grpc.ClientConn
	client    RaftClient
	available bool
}

// Dialer is the Send half of the network-transport collaborator: it
// owns one lazily-established gRPC connection per peer and turns an
// outbound raft.Message into the matching RPC, feeding any reply back
// into Handler.HandleInbound.
type Dialer struct {
	mu      sync.Mutex
	peers   map[raft.NodeID]*peerConn
	handler Handler
}

// NewDialer constructs a Dialer for the given peer address book.
// Connections are established lazily, on first Send.
func NewDialer(addrs map[raft.NodeID]string, handler Handler) *Dialer {
	peers := make(map[raft.NodeID]*peerConn, len(addrs))
	for id, addr := range addrs {
		peers[id] = &peerConn{addr: addr, available: true}
	}
	return &Dialer{peers: peers, handler: handler}
}

func (d *Dialer) clientFor(id raft.NodeID) (RaftClient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.peers[id]
	if !ok {
		return nil, errUnknownPeer(id)
	}
	if p.client != nil {
		return p.client, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	conn, err := grpc.DialContext(ctx, p.addr, grpc.WithInsecure(), grpc.WithBlock())
	if err != nil {
		p.available = false
		return nil, err
	}
	p.conn = conn
	p.client = NewRaftClient(conn)
	p.available = true
	return p.client, nil
}

// Send dispatches one outbound message asynchronously. Best-effort: a
// dial or RPC failure is logged and dropped (spec §7 — "no retry by the
// core"; periodic heartbeats and the decrement-and-retry loop provide
// eventual reconciliation).
func (d *Dialer) Send(msg raft.Message) {
	go d.send(msg)
}

func (d *Dialer) send(msg raft.Message) {
	client, err := d.clientFor(msg.To)
	if err != nil {
		log.Debug().Err(err).Str("to", string(msg.To)).Msg("transport: dial failed, dropping message")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	var reply raft.Message
	var ok bool
	switch m := msg.Body.(type) {
	case raft.AppendEntries:
		resp, err := client.AppendEntries(ctx, appendEntriesToWire(msg.From, msg.To, m))
		if err != nil {
			d.markUnavailable(msg.To, err)
			return
		}
		reply, ok = appendEntriesReplyFromWire(msg.To, resp), true
	case raft.RequestVote:
		resp, err := client.RequestVote(ctx, requestVoteToWire(m))
		if err != nil {
			d.markUnavailable(msg.To, err)
			return
		}
		reply, ok = requestVoteReplyFromWire(msg.To, resp), true
	default:
		// AppendEntriesSucceeded/Failed and VoteGranted/VoteDenied are
		// replies, not messages a Dialer initiates; ClientSet/
		// ClientSetSucceeded don't cross this transport (spec §1: the
		// client-framing collaborator owns those).
		return
	}
	d.mu.Lock()
	if p, known := d.peers[msg.To]; known {
		p.available = true
	}
	d.mu.Unlock()
	if ok {
		d.handler.HandleInbound(reply)
	}
}

func (d *Dialer) markUnavailable(id raft.NodeID, err error) {
	d.mu.Lock()
	if p, ok := d.peers[id]; ok {
		p.available = false
	}
	d.mu.Unlock()
	log.Debug().Err(err).Str("to", string(id)).Msg("transport: rpc failed, dropping message")
}

// Close tears down every established connection.
func (d *Dialer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.peers {
		if p.conn != nil {
			p.conn.Close()
		}
	}
}

type errUnknownPeer raft.NodeID

func (e errUnknownPeer) Error() string { return "transport: unknown peer " + string(e) }
