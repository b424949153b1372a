package grpcsvc

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"solsec.dev/securitytxt/resolver"
	"solsec.dev/securitytxt/securitytxt"
	"solsec.dev/securitytxt/solana"
)

// Server serves decode/query backed by a Resolver. Query requires the
// resolver to have a fetcher; Decode works without one.
type Server struct {
	UnimplementedSecurityTxtServer
	Resolver *resolver.Resolver
}

func (s *Server) Decode(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	data := in.GetValue()
	if len(data) == 0 {
		return nil, status.Error(codes.InvalidArgument, "empty binary")
	}
	report, err := resolver.Report("", data, securitytxt.DecodeOptions{})
	if err != nil {
		return nil, mapErr(err)
	}
	return marshalReport(report)
}

func (s *Server) Query(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if s == nil || s.Resolver == nil || s.Resolver.Fetcher == nil {
		return nil, status.Error(codes.FailedPrecondition, "no RPC endpoint configured")
	}
	programID := in.GetValue()
	if programID == "" {
		return nil, status.Error(codes.InvalidArgument, "empty program id")
	}
	report, err := s.Resolver.Resolve(ctx, programID)
	if err != nil {
		return nil, mapErr(err)
	}
	return marshalReport(report)
}

func marshalReport(report any) (*wrapperspb.StringValue, error) {
	b, err := json.Marshal(report)
	if err != nil {
		return nil, status.Error(codes.Internal, "report marshaling failed")
	}
	return wrapperspb.String(string(b)), nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, solana.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case securitytxt.IsKind(err, securitytxt.KindNotFound):
		return status.Error(codes.NotFound, err.Error())
	case securitytxt.IsKind(err, securitytxt.KindInvalidEncoding),
		securitytxt.IsKind(err, securitytxt.KindOddTokenCount):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
