// Package errs defines the error kinds reported by the indexer. Callers
// branch on Kind instead of concrete error types.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error by how the caller should react to it.
type Kind int

const (
	// KindUnknown is any error not produced by the indexer packages.
	KindUnknown Kind = iota
	// KindTransport is a connection level failure. Retried up to budget, then fatal.
	KindTransport
	// KindRPC is a failure reported by the remote node. Never retried.
	KindRPC
	// KindClassification is data the indexer refuses to interpret: an unknown
	// script type or a spend of an output that does not exist.
	KindClassification
	// KindStore is a schema, write or commit failure of the output store.
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "TransportError"
	case KindRPC:
		return "RPCError"
	case KindClassification:
		return "ClassificationError"
	case KindStore:
		return "StoreError"
	default:
		return "UnknownError"
	}
}

// Error is an error tagged with a kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the pkg/errors causer interface.
func (e *Error) Cause() error {
	return e.Err
}

// New wraps err with kind k. A nil err produces a nil error.
func New(k Kind, op string, err error) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: k, Op: op, Err: err}
}

// Newf creates a tagged error from a format string.
func Newf(k Kind, op string, format string, args ...interface{}) error {
	return &Error{Kind: k, Op: op, Err: errors.Errorf(format, args...)}
}

// Transport tags err as a connection level failure of op.
func Transport(op string, err error) error {
	return New(KindTransport, op, err)
}

// RPC tags err as a failure reported by the node for op.
func RPC(op string, err error) error {
	return New(KindRPC, op, err)
}

// Classification tags err as uninterpretable ledger data.
func Classification(op string, err error) error {
	return New(KindClassification, op, err)
}

// Store tags err as an output store failure.
func Store(op string, err error) error {
	return New(KindStore, op, err)
}

// KindOf returns the kind of the first tagged error in the chain of err.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// Is reports whether err carries kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// IsRetryable reports whether err may be retried locally.
func IsRetryable(err error) bool {
	return Is(err, KindTransport)
}
