package sai

import (
	"errors"
	"fmt"
	"strings"
)

// Caller contract and catalog errors. They are always wrapped with the
// offending name or value.
var (
	ErrUnknownAttribute    = errors.New("unknown attribute")
	ErrUnsupportedType     = errors.New("unsupported attribute type")
	ErrAmbiguousAddressing = errors.New("both oid and key are specified")
	ErrInvalidKeyField     = errors.New("invalid key field")
	ErrMalformedOid        = errors.New("malformed oid")
	ErrUnknownObjectType   = errors.New("unknown object type")
	ErrInvalidValue        = errors.New("invalid attribute value")
	ErrMissingHandler      = errors.New("missing wire handler")

	// ErrSkip is returned by AssertStatusSuccess for soft statuses.
	ErrSkip = errors.New("skipped")
)

func errUnknownObjType(s string) error {
	return fmt.Errorf("%w: %q", ErrUnknownObjectType, s)
}

// AttrError is the failure of one attribute inside a per-attribute
// wire loop or of one object inside a bulk call.
type AttrError struct {
	Index  int
	Name   string
	Status Status
	Err    error
}

func (e *AttrError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("#%d %s: %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("#%d %s: %s", e.Index, e.Name, e.Status)
}

func (e *AttrError) Unwrap() error {
	return e.Err
}

// AttrErrors aggregates every failure of one per-attribute or bulk call
// in call order. The first failure is the primary one.
type AttrErrors struct {
	Op       string
	Failures []*AttrError
}

// Primary returns the first failure.
func (e *AttrErrors) Primary() *AttrError {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[0]
}

// Secondary returns the failures after the first one.
func (e *AttrErrors) Secondary() []*AttrError {
	if len(e.Failures) < 2 {
		return nil
	}
	return e.Failures[1:]
}

func (e *AttrErrors) Error() string {
	primary := e.Primary()
	if primary == nil {
		return e.Op + " failed"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed: %v", e.Op, primary)
	if others := e.Secondary(); len(others) > 0 {
		msgs := make([]string, len(others))
		for i, o := range others {
			msgs[i] = o.Error()
		}
		fmt.Fprintf(&b, " (also failed: %s)", strings.Join(msgs, "; "))
	}
	return b.String()
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (e *AttrErrors) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// DriverFailures returns the *AttrErrors in err when every failure in it
// is a status reported by the driver. It returns false for nil, for
// transport failures and for caller contract errors.
func DriverFailures(err error) (*AttrErrors, bool) {
	var aerrs *AttrErrors
	if !errors.As(err, &aerrs) {
		return nil, false
	}
	for _, f := range aerrs.Failures {
		if f.Err != nil {
			return nil, false
		}
	}
	return aerrs, true
}

// StatusOf returns the status carried by err, SUCCESS for nil and
// FAILURE when err carries none.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var ae *AttrError
	if errors.As(err, &ae) && ae.Status != "" {
		return ae.Status
	}
	return StatusFailure
}
