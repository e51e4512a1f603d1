// Package camundatest provides an in-memory zeebe JobClient for handler tests.
// Commands go through the real zeebe command builders; only the gateway is faked.
package camundatest

import (
	"context"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// Gateway records the job commands it receives. Like a real gRPC call, a
// command sent on a done context is rejected with the context's error.
type Gateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
	rejected  int
}

func (g *Gateway) CompleteJob(ctx context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	if err := g.admit(ctx); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed = append(g.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *Gateway) FailJob(ctx context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	if err := g.admit(ctx); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failed = append(g.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *Gateway) ThrowError(ctx context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	if err := g.admit(ctx); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

func (g *Gateway) admit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		g.mu.Lock()
		g.rejected++
		g.mu.Unlock()
		return err
	}
	return nil
}

func (g *Gateway) Completed() []*pb.CompleteJobRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*pb.CompleteJobRequest(nil), g.completed...)
}

func (g *Gateway) Failed() []*pb.FailJobRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*pb.FailJobRequest(nil), g.failed...)
}

func (g *Gateway) Thrown() []*pb.ThrowErrorRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*pb.ThrowErrorRequest(nil), g.thrown...)
}

// Rejected counts commands that arrived on an expired or cancelled context.
func (g *Gateway) Rejected() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rejected
}

// JobClient satisfies worker.JobClient on top of Gateway.
type JobClient struct {
	Gateway *Gateway
}

func NewJobClient() *JobClient {
	return &JobClient{Gateway: &Gateway{}}
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, noRetry)
}

// Job builds an activated job carrying variables.
func Job(key int64, variables string, retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		ProcessInstanceKey: key * 10,
		Variables:          variables,
		Retries:            retries,
	}}
}
