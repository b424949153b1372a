package grpcsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"solsec.dev/securitytxt/model"
)

// Client is a typed client over the SecurityTxt gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client SecurityTxtClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero. Program
	// binaries run to several MiB, so callers usually raise this.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewSecurityTxtClient(cc)}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Decode sends a binary's bytes and returns the decoded report.
func (c *Client) Decode(data []byte) (*model.Report, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Decode(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return nil, codedErr(err)
	}
	return unmarshalReport(reply.GetValue())
}

// Query resolves a program address server-side and returns the report.
func (c *Client) Query(programID string) (*model.Report, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Query(ctx, wrapperspb.String(programID))
	if err != nil {
		return nil, codedErr(err)
	}
	return unmarshalReport(reply.GetValue())
}

// codedErr translates a gRPC status into the boundary error type, so client
// callers do not have to depend on grpc/status themselves.
func codedErr(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	var code model.ErrorCode
	switch st.Code() {
	case codes.InvalidArgument:
		code = model.ErrInvalidRequest
	case codes.NotFound:
		code = model.ErrNotFound
	case codes.FailedPrecondition:
		code = model.ErrUpstream
	case codes.Unavailable, codes.DeadlineExceeded:
		code = model.ErrUpstream
	default:
		code = model.ErrInternal
	}
	return model.NewError(code, st.Message())
}

func unmarshalReport(s string) (*model.Report, error) {
	var report model.Report
	if err := json.Unmarshal([]byte(s), &report); err != nil {
		return nil, fmt.Errorf("grpcsvc: malformed report: %w", err)
	}
	return &report, nil
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
