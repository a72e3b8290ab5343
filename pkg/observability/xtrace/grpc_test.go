package xtrace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/omeyang/xmeasure/pkg/context/xctx"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
	"github.com/omeyang/xmeasure/pkg/observability/xtrace"
)

var sayInfo = &grpc.UnaryServerInfo{FullMethod: "/echo.Echo/Say"}

func TestExtractFromMetadata(t *testing.T) {
	t.Parallel()

	assert.Equal(t, xtrace.TraceInfo{}, xtrace.ExtractFromMetadata(nil))

	md := metadata.Pairs(
		xtrace.MetaTraceparent, traceparent,
		xtrace.MetaRequestID, " req-7 ",
		xtrace.MetaTracestate, "vendor=1",
	)
	assert.Equal(t, xtrace.TraceInfo{
		TraceID: traceID, SpanID: spanID, RequestID: "req-7", TraceFlags: "01", Tracestate: "vendor=1",
	}, xtrace.ExtractFromMetadata(md))
}

func TestGRPCUnaryServerInterceptor_InjectsTrace(t *testing.T) {
	t.Parallel()

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		xtrace.MetaTraceID, traceID,
		xtrace.MetaSpanID, spanID,
	))

	interceptor := xtrace.GRPCUnaryServerInterceptor()
	resp, err := interceptor(ctx, "ping", sayInfo, func(ctx context.Context, req any) (any, error) {
		return xtrace.TraceInfoFromContext(ctx), nil
	})
	require.NoError(t, err)

	got, ok := resp.(xtrace.TraceInfo)
	require.True(t, ok)
	assert.Equal(t, traceID, got.TraceID)
	assert.Equal(t, spanID, got.SpanID)
	assert.NotEmpty(t, got.RequestID)
}

func TestGRPCUnaryServerInterceptor_NoMetadata(t *testing.T) {
	t.Parallel()

	interceptor := xtrace.GRPCUnaryServerInterceptor(xtrace.WithAutoGenerate(false))
	resp, err := interceptor(context.Background(), nil, sayInfo, func(ctx context.Context, _ any) (any, error) {
		return xtrace.TraceID(ctx), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "", resp)
}

func TestGRPCUnaryServerInterceptor_Measure(t *testing.T) {
	t.Parallel()

	capture := newCapture()
	p := xmeasure.New(xmeasure.WithSinks(capture.sink))
	interceptor := xtrace.GRPCUnaryServerInterceptor(xtrace.WithMeasure(p))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(xtrace.MetaTraceparent, traceparent))
	resp, err := interceptor(ctx, "ping", sayInfo, func(_ context.Context, req any) (any, error) {
		return req.(string) + "-pong", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ping-pong", resp)

	got := capture.results()
	require.Len(t, got, 1)
	assert.Equal(t, "/echo.Echo/Say", got[0].name)
	assert.Equal(t, traceID, got[0].traceID)
}

func TestGRPCUnaryServerInterceptor_HandlerErrorNotDispatched(t *testing.T) {
	t.Parallel()

	capture := newCapture()
	p := xmeasure.New(xmeasure.WithSinks(capture.sink))
	interceptor := xtrace.GRPCUnaryServerInterceptor(xtrace.WithMeasure(p))

	_, err := interceptor(context.Background(), nil, sayInfo, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.Unavailable, "backend down")
	})
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Empty(t, capture.results())
}

func TestGRPCUnaryClientInterceptor(t *testing.T) {
	t.Parallel()

	ctx, _ := xctx.WithTraceID(context.Background(), traceID)
	ctx, _ = xctx.WithSpanID(ctx, spanID)
	ctx, _ = xctx.WithRequestID(ctx, "req-c")
	ctx = metadata.AppendToOutgoingContext(ctx, "tenant", "t1")

	var sent metadata.MD
	invoker := func(ctx context.Context, _ string, _, _ any, _ *grpc.ClientConn, _ ...grpc.CallOption) error {
		sent, _ = metadata.FromOutgoingContext(ctx)
		return nil
	}

	err := xtrace.GRPCUnaryClientInterceptor()(ctx, "/echo.Echo/Say", nil, nil, nil, invoker)
	require.NoError(t, err)

	assert.Equal(t, []string{traceID}, sent.Get(xtrace.MetaTraceID))
	assert.Equal(t, []string{"req-c"}, sent.Get(xtrace.MetaRequestID))
	assert.Equal(t, []string{"00-" + traceID + "-" + spanID + "-00"}, sent.Get(xtrace.MetaTraceparent))
	assert.Equal(t, []string{"t1"}, sent.Get("tenant"))
}

func TestInjectToOutgoingContext_Empty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Equal(t, ctx, xtrace.InjectToOutgoingContext(ctx))
}
