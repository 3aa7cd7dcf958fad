package grpc

import (
	"context"
	"errors"
	"strings"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CodeOf maps a structured error code to a gRPC status code.
func CodeOf(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeValueOutOfRange, mdwerror.CodeInvalidIdentifier,
		mdwerror.CodeUnterminatedToken, mdwerror.CodeIllegalCharacter,
		mdwerror.CodeSyntax, mdwerror.CodeInvalidInput:
		return codes.InvalidArgument
	case mdwerror.CodeNotFound:
		return codes.NotFound
	case mdwerror.CodeCanceled:
		return codes.Canceled
	case mdwerror.CodeServiceUnavailable, mdwerror.CodeNetworkError:
		return codes.Unavailable
	case mdwerror.CodeInvalidConfig, mdwerror.CodeConfigError:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// ToStatus converts err into a gRPC status error. Errors that already carry
// a status pass through unchanged. The structured error code is kept in the
// message prefix so clients can recover it with FromStatus.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	code := mdwerror.GetCode(err)
	c := CodeOf(code)
	if code == mdwerror.CodeUnknown {
		return status.Error(c, err.Error())
	}
	return status.Error(c, string(code)+": "+err.Error())
}

// FromStatus turns a status error back into a structured error.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || err == nil {
		return err
	}
	msg := st.Message()
	for _, code := range []mdwerror.Code{
		mdwerror.CodeSyntax, mdwerror.CodeValueOutOfRange, mdwerror.CodeInvalidIdentifier,
		mdwerror.CodeUnterminatedToken, mdwerror.CodeIllegalCharacter, mdwerror.CodeInvalidInput,
	} {
		if rest, ok := strings.CutPrefix(msg, string(code)+": "); ok {
			return mdwerror.New(rest).WithCode(code).WithDetail("grpc_code", st.Code().String())
		}
	}
	switch st.Code() {
	case codes.Unavailable:
		return mdwerror.New(msg).WithCode(mdwerror.CodeServiceUnavailable)
	case codes.Canceled:
		return mdwerror.New(msg).WithCode(mdwerror.CodeCanceled)
	}
	return mdwerror.New(msg).WithCode(mdwerror.CodeNetworkError).WithDetail("grpc_code", st.Code().String())
}
