package transport

import (
	"context"

	"google.golang.org/grpc"
)

// RaftClient is the client-side stub for the Raft gRPC service,
// grounded on the teacher's raft.RaftClient / raft.NewRaftClient.
type RaftClient interface {
	RequestVote(ctx context.Context, in *RequestVoteRequest, opts ...grpc.CallOption) (*RequestVoteReply, error)
	AppendEntries(ctx context.Context, in *AppendEntriesRequest, opts ...grpc.CallOption) (*AppendEntriesReply, error)
	ClientSet(ctx context.Context, in *ClientSetRequest, opts ...grpc.CallOption) (*ClientSetReply, error)
}

type raftClient struct {
	cc *grpc.ClientConn
}

// NewRaftClient wraps an established connection in a RaftClient.
func NewRaftClient(cc *grpc.ClientConn) RaftClient {
	return &raftClient{cc: cc}
}

func (c *raftClient) RequestVote(ctx context.Context, in *RequestVoteRequest, opts ...grpc.CallOption) (*RequestVoteReply, error) {
	out := new(RequestVoteReply)
	if err := c.cc.Invoke(ctx, "/quorumkv.raft.v1.Raft/RequestVote", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *raftClient) AppendEntries(ctx context.Context, in *AppendEntriesRequest, opts ...grpc.CallOption) (*AppendEntriesReply, error) {
	out := new(AppendEntriesReply)
	if err := c.cc.Invoke(ctx, "/quorumkv.raft.v1.Raft/AppendEntries", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *raftClient) ClientSet(ctx context.Context, in *ClientSetRequest, opts ...grpc.CallOption) (*ClientSetReply, error) {
	out := new(ClientSetReply)
	if err := c.cc.Invoke(ctx, "/quorumkv.raft.v1.Raft/ClientSet", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
