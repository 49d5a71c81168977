//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package rtas implements the three-party value algebra and protocol
// engine: Private/Public/Shared values, the set-up, construction,
// reveal, linear and product operators, and the Beaver-triple cache
// that backs Shared x Shared products.
package rtas

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/markkurossi/rtas/envelope"
	"github.com/markkurossi/rtas/transport"
)

// Kind classifies an engine-level failure so callers can branch on the
// category of error without parsing message text.
type Kind int

// The fixed set of error kinds the engine can raise.
const (
	KindAddress Kind = iota
	KindBind
	KindConnect
	KindHandshake
	KindTimeout
	KindTransport
	KindEnvelope
	KindProtocol
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindAddress:
		return "Address"
	case KindBind:
		return "Bind"
	case KindConnect:
		return "Connect"
	case KindHandshake:
		return "Handshake"
	case KindTimeout:
		return "Timeout"
	case KindTransport:
		return "Transport"
	case KindEnvelope:
		return "Envelope"
	case KindProtocol:
		return "Protocol"
	case KindConfiguration:
		return "Configuration"
	default:
		return "Unknown"
	}
}

// Error is the engine's single error type. Op names the operation that
// failed (e.g. "share", "recv:X-U and Y-V"); Err is the underlying
// cause, wrapped with a stack trace at the point of failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rtas: %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: errors.WithStack(err)}
}

func protocolErr(op string, err error) error {
	return wrapErr(KindProtocol, op, err)
}

func protocolErrf(op, format string, args ...interface{}) error {
	return wrapErr(KindProtocol, op, fmt.Errorf(format, args...))
}

// classify maps a transport/envelope error to its engine Kind. It
// looks through wrapping (such as the aggregate error ConnectAll
// returns from its parallel dials) for the first typed cause.
func classify(err error) Kind {
	var (
		addrErr      *transport.AddressError
		bindErr      *transport.BindError
		connectErr   *transport.ConnectError
		handshakeErr *transport.HandshakeError
		timeoutErr   *transport.TimeoutError
		mismatchErr  *envelope.ErrHeaderMismatch
		corruptErr   *envelope.ErrCorrupt
	)
	switch {
	case errors.As(err, &addrErr):
		return KindAddress
	case errors.As(err, &bindErr):
		return KindBind
	case errors.As(err, &connectErr):
		return KindConnect
	case errors.As(err, &handshakeErr):
		return KindHandshake
	case errors.As(err, &timeoutErr):
		return KindTimeout
	case errors.As(err, &mismatchErr), errors.As(err, &corruptErr):
		return KindEnvelope
	default:
		return KindTransport
	}
}
