package pmx

import (
	"errors"
	"fmt"

	"pmx-toolkit/internal/binio"
)

var (
	ErrTruncatedInput      = binio.ErrTruncatedInput
	ErrUnsupportedEncoding = binio.ErrUnsupportedEncoding

	ErrUnknownWeightMode = errors.New("pmx: unknown weight mode")
	ErrUnknownMorphType  = errors.New("pmx: unknown morph type")
	ErrMorphTypeMismatch = errors.New("pmx: morph item does not match morph type")
	ErrInvalidIndexWidth = errors.New("pmx: invalid index width")
	ErrInvalidValue      = errors.New("pmx: invalid value")
	ErrIndexOutOfRange   = errors.New("pmx: index out of range")
	ErrWeightListTooLong = errors.New("pmx: weight list longer than mode allows")
	ErrTooManyEntities   = errors.New("pmx: too many entities for any index width")
	ErrVersionFeature    = errors.New("pmx: feature requires format 2.1")
)

// DecodeError is a hard decode failure.
type DecodeError struct {
	Section string
	Index   int // entity position within the section, -1 if not applicable
	Offset  int
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("pmx: decode %s[%d] at offset %d: %v", e.Section, e.Index, e.Offset, e.Err)
	}
	return fmt.Sprintf("pmx: decode %s at offset %d: %v", e.Section, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError is a failure while writing an already validated model.
type EncodeError struct {
	Section string
	Index   int
	Err     error
}

func (e *EncodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("pmx: encode %s[%d]: %v", e.Section, e.Index, e.Err)
	}
	return fmt.Sprintf("pmx: encode %s: %v", e.Section, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ValidationError names the entity and the invariant a model violates.
type ValidationError struct {
	Collection string
	Index      int // -1 for model-level invariants
	Invariant  string
	Err        error
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("pmx: invalid %s[%d]: %s: %v", e.Collection, e.Index, e.Invariant, e.Err)
	}
	return fmt.Sprintf("pmx: invalid %s: %s: %v", e.Collection, e.Invariant, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// WarningKind classifies recoverable decode issues.
type WarningKind uint8

const (
	WarnMagic WarningKind = iota + 1
	WarnGlobalCount
	WarnVersion
	WarnTrailingBytes
)

func (k WarningKind) String() string {
	switch k {
	case WarnMagic:
		return "magic"
	case WarnGlobalCount:
		return "global-count"
	case WarnVersion:
		return "version"
	case WarnTrailingBytes:
		return "trailing-bytes"
	default:
		return fmt.Sprintf("WarningKind(%d)", uint8(k))
	}
}

// Warning is a recoverable decode issue; decoding continued past it.
type Warning struct {
	Kind    WarningKind
	Offset  int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at offset %d: %s", w.Kind, w.Offset, w.Message)
}

func fmtRange(what string, v, n int) error {
	return fmt.Errorf("%w: %s %d not in [0, %d)", ErrIndexOutOfRange, what, v, n)
}
