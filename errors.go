package fontatlas

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them with errors.Is.
var (
	// ErrDisposed is returned by every operation on a closed atlas.
	ErrDisposed = errors.New("fontatlas: atlas is disposed")

	// ErrResourceExhausted is returned when no texture plane can hold a
	// glyph and the plane limit has been reached.
	ErrResourceExhausted = errors.New("fontatlas: texture plane limit reached")

	// ErrInvalidChain is returned for chains without a non-default entry.
	ErrInvalidChain = errors.New("fontatlas: font chain has no non-default entry")

	// ErrUnsupportedIdent is returned for identity kinds that cannot be
	// rasterized, such as file fonts.
	ErrUnsupportedIdent = errors.New("fontatlas: unsupported font identity")
)

// DisposedUseError reports a call on a closed atlas.
type DisposedUseError struct {
	Op string
}

func (e *DisposedUseError) Error() string {
	return "fontatlas: " + e.Op + " called on a disposed atlas"
}

// Is reports whether target is ErrDisposed.
func (e *DisposedUseError) Is(target error) bool {
	return target == ErrDisposed
}

func disposedError(op string) error {
	return &DisposedUseError{Op: op}
}

// ResourceExhaustedError reports that all texture planes are full.
type ResourceExhaustedError struct {
	MaxPlanes int
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("fontatlas: all %d texture planes are full", e.MaxPlanes)
}

// Is reports whether target is ErrResourceExhausted.
func (e *ResourceExhaustedError) Is(target error) bool {
	return target == ErrResourceExhausted
}

// UploadError reports a failed GPU texture creation or upload. The device
// may recover, so these errors are never remembered as resolution failures.
type UploadError struct {
	Op      string // "create" or "upload"
	Texture string
	Err     error
}

func (e *UploadError) Error() string {
	return "fontatlas: " + e.Op + " " + e.Texture + ": " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// IdentityResolutionError reports that no font could be produced for an
// identity at a size.
type IdentityResolutionError struct {
	Key    IdentKey
	Reason string

	unsupported bool
}

func (e *IdentityResolutionError) Error() string {
	return fmt.Sprintf("fontatlas: resolve %s: %s", e.Key, e.Reason)
}

// Is reports whether target is ErrUnsupportedIdent for unsupported kinds.
func (e *IdentityResolutionError) Is(target error) bool {
	return e.unsupported && target == ErrUnsupportedIdent
}

// ChainResolutionError reports that a font chain could not be composed.
type ChainResolutionError struct {
	Chain  string
	Reason string

	invalid bool
}

func (e *ChainResolutionError) Error() string {
	return fmt.Sprintf("fontatlas: resolve chain [%s]: %s", e.Chain, e.Reason)
}

// Is reports whether target is ErrInvalidChain for invalid chains.
func (e *ChainResolutionError) Is(target error) bool {
	return e.invalid && target == ErrInvalidChain
}

// ArgumentError reports an invalid argument.
type ArgumentError struct {
	Arg    string
	Reason string
}

func (e *ArgumentError) Error() string {
	return "fontatlas: invalid " + e.Arg + ": " + e.Reason
}

// ConfigError reports an invalid atlas option.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "fontatlas: invalid config." + e.Field + ": " + e.Reason
}

type failureKind uint8

const (
	failIdentity failureKind = iota
	failUnsupported
	failArgument
	failChain
	failChainInvalid
)

// failure is a cached resolution error. Only the kind and message are kept;
// err rebuilds an equivalent error value on every replay.
type failure struct {
	kind  failureKind
	key   IdentKey
	chain string
	arg   string
	msg   string
}

func (f failure) err() error {
	switch f.kind {
	case failUnsupported:
		return &IdentityResolutionError{Key: f.key, Reason: f.msg, unsupported: true}
	case failArgument:
		return &ArgumentError{Arg: f.arg, Reason: f.msg}
	case failChain:
		return &ChainResolutionError{Chain: f.chain, Reason: f.msg}
	case failChainInvalid:
		return &ChainResolutionError{Chain: f.chain, Reason: f.msg, invalid: true}
	default:
		return &IdentityResolutionError{Key: f.key, Reason: f.msg}
	}
}

// identFailure classifies a resolution error for key.
func identFailure(key IdentKey, err error) failure {
	switch e := err.(type) {
	case *ArgumentError:
		return failure{kind: failArgument, key: key, arg: e.Arg, msg: e.Reason}
	case *IdentityResolutionError:
		if e.Key == key {
			kind := failIdentity
			if e.unsupported {
				kind = failUnsupported
			}
			return failure{kind: kind, key: key, msg: e.Reason}
		}
	}
	return failure{kind: failIdentity, key: key, msg: err.Error()}
}

// cacheable reports whether a resolution error belongs in the failure cache.
// Capacity, device and lifetime errors may change and are returned as is.
func cacheable(err error) bool {
	var ue *UploadError
	return !errors.Is(err, ErrResourceExhausted) && !errors.Is(err, ErrDisposed) && !errors.As(err, &ue)
}
