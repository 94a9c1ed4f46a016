package transport

import (
	"context"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/quorumkv/quorumkv/internal/raft"
)

// Handler is what the driver exposes to the transport layer. Every RPC
// pushes its inbound message through HandleInbound, which must run it
// through exactly one Replica.Step call (persisting first) under the
// driver's lock (spec §5), dispatch any further outbound messages the
// Step produced (e.g. an accelerated heartbeat after a ClientSet) on
// its own, and hand back the full outbox so the caller can still find
// the direct reply addressed to the original sender.
type Handler interface {
	HandleInbound(msg raft.Message) []raft.Message
	HandleClientSet(cmdID, cmd string) (accepted bool, leaderHint string)
}

// replyTo picks, from a Step's outbox, the reply addressed back to
// `to` — the synchronous RPC reply.
func replyTo(out []raft.Message, to raft.NodeID) (raft.Message, bool) {
	for _, m := range out {
		if m.To == to {
			return m, true
		}
	}
	return raft.Message{}, false
}

// server implements the generated-style RaftServer interface, grounded
// on internal/raftserver/rpc.go's `server` wrapper.
type server struct {
	UnimplementedRaftServer
	handler Handler
}

// RequestVote handles RPC vote requests from other nodes.
func (s *server) RequestVote(ctx context.Context, req *RequestVoteRequest) (*RequestVoteReply, error) {
	log.Debug().Str("candidate", req.CandidateId).Uint64("term", req.Term).Msg("received vote request")
	msg := requestVoteFromWire(raft.NodeID(req.CandidateId), req)
	out := s.handler.HandleInbound(msg)
	reply, ok := replyTo(out, raft.NodeID(req.CandidateId))
	if !ok {
		return &RequestVoteReply{}, nil
	}
	return requestVoteReplyToWire(reply.Body), nil
}

// AppendEntries handles RPC log-append requests from the leader.
func (s *server) AppendEntries(ctx context.Context, req *AppendEntriesRequest) (*AppendEntriesReply, error) {
	log.Debug().Str("leader", req.LeaderId).Uint64("term", req.Term).Int("nEntries", len(req.Entries)).Msg("received append entries")
	msg := appendEntriesFromWire(raft.NodeID(req.LeaderId), req)
	out := s.handler.HandleInbound(msg)
	reply, ok := replyTo(out, raft.NodeID(req.LeaderId))
	if !ok {
		return &AppendEntriesReply{}, nil
	}
	return appendEntriesReplyToWire(reply.Body), nil
}

// ClientSet forwards a client write received by a non-leader peer.
func (s *server) ClientSet(ctx context.Context, req *ClientSetRequest) (*ClientSetReply, error) {
	cmd := clientSetFromWire(req)
	accepted, hint := s.handler.HandleClientSet(req.CmdId, cmd.Cmd)
	return &ClientSetReply{Accepted: accepted, LeaderHint: hint}, nil
}

// RegisterRaftServer mirrors the generated registration helper.
func RegisterRaftServer(s *grpc.Server, handler Handler) {
	grpc.RegisterService(&raftServiceDesc, &server{handler: handler})
}

// UnimplementedRaftServer must be embedded for forward compatibility,
// matching the protoc-gen-go-grpc convention the teacher's generated
// code follows.
type UnimplementedRaftServer struct{}

func (UnimplementedRaftServer) RequestVote(context.Context, *RequestVoteRequest) (*RequestVoteReply, error) {
	return nil, nil
}
func (UnimplementedRaftServer) AppendEntries(context.Context, *AppendEntriesRequest) (*AppendEntriesReply, error) {
	return nil, nil
}
func (UnimplementedRaftServer) ClientSet(context.Context, *ClientSetRequest) (*ClientSetReply, error) {
	return nil, nil
}

var raftServiceDesc = grpc.ServiceDesc{
	ServiceName: "quorumkv.raft.v1.Raft",
	HandlerType: (*RaftServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RequestVote", Handler: requestVoteHandler},
		{MethodName: "AppendEntries", Handler: appendEntriesHandler},
		{MethodName: "ClientSet", Handler: clientSetHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "raft.proto",
}

// RaftServer is the interface a gRPC raft service implementation must
// satisfy.
type RaftServer interface {
	RequestVote(context.Context, *RequestVoteRequest) (*RequestVoteReply, error)
	AppendEntries(context.Context, *AppendEntriesRequest) (*AppendEntriesReply, error)
	ClientSet(context.Context, *ClientSetRequest) (*ClientSetReply, error)
}

func requestVoteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RequestVoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RaftServer).RequestVote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/quorumkv.raft.v1.Raft/RequestVote"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RaftServer).RequestVote(ctx, req.(*RequestVoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func appendEntriesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AppendEntriesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RaftServer).AppendEntries(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/quorumkv.raft.v1.Raft/AppendEntries"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RaftServer).AppendEntries(ctx, req.(*AppendEntriesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func clientSetHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ClientSetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RaftServer).ClientSet(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/quorumkv.raft.v1.Raft/ClientSet"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RaftServer).ClientSet(ctx, req.(*ClientSetRequest))
	}
	return interceptor(ctx, in, info, handler)
}
