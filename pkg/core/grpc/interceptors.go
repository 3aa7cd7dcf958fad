package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"github.com/msto63/jackc/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var interceptorLogger = logging.New("grpc")

type callIDKey struct{}

// CallIDHeader carries the call ID in request and response metadata.
const CallIDHeader = "x-jackc-call-id"

// WithCallID returns ctx carrying id as the call ID
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

// CallID returns the ID stored by WithCallID or, on the server side, the
// ID the client sent. It is empty when neither exists.
func CallID(ctx context.Context) string {
	if id, ok := ctx.Value(callIDKey{}).(string); ok {
		return id
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(CallIDHeader); len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// recoverHandler turns a panic in method into an Internal status error.
// It must be deferred.
func recoverHandler(method string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	interceptorLogger.Error("handler panicked", "method", method, "panic", r, "stack", string(debug.Stack()))
	*err = status.Error(codes.Internal, "internal analyzer error")
}

// logCall writes one access log line. Failures caused by the submitted
// source are logged at info, everything else at warn or error.
func logCall(ctx context.Context, method string, start time.Time, err error) {
	kv := []interface{}{
		"call_id", CallID(ctx),
		"method", method,
		"code", status.Code(ToStatus(err)).String(),
		"duration", time.Since(start),
	}
	if err == nil {
		interceptorLogger.Debug("call finished", kv...)
		return
	}
	kv = append(kv, "error", err.Error())
	switch {
	case mdwerror.GetCode(FromStatus(err)).IsSourceError():
		interceptorLogger.Info("call rejected source", kv...)
	case status.Code(ToStatus(err)) == codes.Internal:
		interceptorLogger.Error("call failed", kv...)
	default:
		interceptorLogger.Warn("call failed", kv...)
	}
}

// RecoveryInterceptor recovers panics of unary handlers
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer recoverHandler(info.FullMethod, &err)
		return handler(ctx, req)
	}
}

// StreamRecoveryInterceptor recovers panics of stream handlers
func StreamRecoveryInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer recoverHandler(info.FullMethod, &err)
		return handler(srv, ss)
	}
}

// CallIDInterceptor assigns a call ID unless the client sent one and echoes
// it in the response header.
func CallIDInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		id := CallID(ctx)
		if id == "" {
			id = uuid.NewString()
		}
		ctx = WithCallID(ctx, id)
		if err := grpc.SetHeader(ctx, metadata.Pairs(CallIDHeader, id)); err != nil {
			interceptorLogger.Debug("cannot set call id header", "error", err)
		}
		return handler(ctx, req)
	}
}

// AccessLogInterceptor logs every unary call with its outcome
func AccessLogInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logCall(ctx, info.FullMethod, start, err)
		return resp, err
	}
}

// StreamAccessLogInterceptor logs every stream when it ends
func StreamAccessLogInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logCall(ss.Context(), info.FullMethod, start, err)
		return err
	}
}

// ErrorInterceptor converts structured handler errors to status errors.
// Install it innermost.
func ErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		return resp, ToStatus(err)
	}
}

// ClientCallIDInterceptor sends the call ID of ctx, or a fresh one
func ClientCallIDInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		id := CallID(ctx)
		if id == "" {
			id = uuid.NewString()
		}
		ctx = metadata.AppendToOutgoingContext(ctx, CallIDHeader, id)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// ClientLogInterceptor logs outgoing calls at debug level
func ClientLogInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		interceptorLogger.Debug("remote call", "method", method, "code", status.Code(err).String(), "duration", time.Since(start))
		return err
	}
}
