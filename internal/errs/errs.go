// Package errs defines the error taxonomy shared across the repository
// engine, the drivers and the package codec.
package errs

import "fmt"

// Kind classifies an Error without requiring callers to string-match
// messages.
type Kind int

const (
	KindGenericIO Kind = iota
	KindNotFound
	KindStatFailure
	KindReadLinkFailure
	KindCopyFailure
	KindCreateSpecialFailure
	KindNotIndexed
	KindMissingBody
	KindCorruptMetadata
	KindMalformedMetadata
	KindUnexpectedEOF
	KindCorruptStream
	KindMagicMismatch
	KindEncryptionRequiresPassword
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindStatFailure:
		return "StatFailure"
	case KindReadLinkFailure:
		return "ReadLinkFailure"
	case KindCopyFailure:
		return "CopyFailure"
	case KindCreateSpecialFailure:
		return "CreateSpecialFailure"
	case KindNotIndexed:
		return "NotIndexed"
	case KindMissingBody:
		return "MissingBody"
	case KindCorruptMetadata:
		return "CorruptMetadata"
	case KindMalformedMetadata:
		return "MalformedMetadata"
	case KindUnexpectedEOF:
		return "UnexpectedEof"
	case KindCorruptStream:
		return "CorruptStream"
	case KindMagicMismatch:
		return "MagicMismatch"
	case KindEncryptionRequiresPassword:
		return "EncryptionRequiresPassword"
	case KindCancelled:
		return "Cancelled"
	default:
		return "GenericIO"
	}
}

// Error is the concrete carrier for every taxonomy entry in the spec.
// Err holds the underlying cause when there is one; it is nil where
// the Kind (and Path) say everything, e.g. Cancelled, NotIndexed or
// MagicMismatch.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s (%s): %v", e.Kind, e.Path, e.Err)
		}
		return fmt.Sprintf("%s (%s)", e.Kind, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error without a path, for cases like corrupt streams
// that are not tied to a single file.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Wrap builds an Error tied to a specific path.
func Wrap(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Is reports whether err (or any error it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Err
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
