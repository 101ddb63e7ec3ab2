package fwdeforge

import (
	"errors"
	"io/fs"
)

var (
	ErrNotFound                = errors.New("fwdeforge: file not found")
	ErrIOFailure               = errors.New("fwdeforge: i/o failure")
	ErrInsufficientData        = errors.New("fwdeforge: not enough data to determine endianness")
	ErrIndeterminateEndianness = errors.New("fwdeforge: indeterminate endianness")
	ErrInvalidArgument         = errors.New("fwdeforge: invalid argument")
	ErrLocked                  = errors.New("fwdeforge: artifact is locked by another tagger")
	ErrMalformed               = errors.New("fwdeforge: malformed header")
	ErrBadMagic                = errors.New("fwdeforge: invalid signature")
	ErrBadArchitecture         = errors.New("fwdeforge: unknown architecture code")
	ErrBadEndianness           = errors.New("fwdeforge: undetermined endianness code")
)

// Kind classifies a tagging failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindIOFailure
	KindInsufficientData
	KindIndeterminateEndianness
	KindInvalidArgument
	KindLocked
	KindMalformed
)

var kindSentinels = [...]error{
	KindUnknown:                 nil,
	KindNotFound:                ErrNotFound,
	KindIOFailure:               ErrIOFailure,
	KindInsufficientData:        ErrInsufficientData,
	KindIndeterminateEndianness: ErrIndeterminateEndianness,
	KindInvalidArgument:         ErrInvalidArgument,
	KindLocked:                  ErrLocked,
	KindMalformed:               ErrMalformed,
}

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindIOFailure:
		return "i/o failure"
	case KindInsufficientData:
		return "insufficient data"
	case KindIndeterminateEndianness:
		return "indeterminate endianness"
	case KindInvalidArgument:
		return "invalid argument"
	case KindLocked:
		return "locked"
	case KindMalformed:
		return "malformed header"
	}
	return "unknown"
}

// Error is returned by every step of the tagger. Op names the step, e.g.
// "archive", "probe", "write", "inspect" or "lock"; Path is the file it was
// operating on.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	msg := "fwdeforge: " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind, so that
// errors.Is(err, ErrNotFound) holds for any *Error of KindNotFound.
func (e *Error) Is(target error) bool {
	if int(e.Kind) >= len(kindSentinels) {
		return false
	}
	s := kindSentinels[e.Kind]
	return s != nil && s == target
}

// KindOf returns the Kind carried by err, or KindUnknown if err is not
// (and does not wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(op, path string, kind Kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

// ioError maps a filesystem error onto NotFound or IOFailure.
func ioError(op, path string, err error) *Error {
	if errors.Is(err, fs.ErrNotExist) {
		return newError(op, path, KindNotFound, err)
	}
	return newError(op, path, KindIOFailure, err)
}
