package errors

import (
	"fmt"
	"regexp"
	"strings"
)

// Code is a validated "package.name" error code.
type Code struct {
	value string
}

var codeRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*\.[a-z][a-z0-9_]*$`)

// NewCode validates and builds a Code.
func NewCode(s string) (Code, error) {
	if !codeRegex.MatchString(s) {
		return Code{}, fmt.Errorf("invalid error code %q: must be 'package.name' (lowercase, underscores, dots only)", s)
	}
	return Code{value: s}, nil
}

// MustNewCode panics on an invalid code. Used for package-level code vars.
func MustNewCode(s string) Code {
	code, err := NewCode(s)
	if err != nil {
		panic(err)
	}
	return code
}

func (c Code) String() string { return c.value }

// Package returns the code's "package" prefix, the part before the dot.
func (c Code) Package() string {
	if idx := strings.IndexByte(c.value, '.'); idx != -1 {
		return c.value[:idx]
	}
	return ""
}

// Name returns the code's name suffix, the part after the dot.
func (c Code) Name() string {
	if idx := strings.IndexByte(c.value, '.'); idx != -1 {
		return c.value[idx+1:]
	}
	return c.value
}

func (c Code) Equals(other Code) bool { return c.value == other.value }

// The error kinds of the commit pipeline: the six spec.md §7 names, plus
// Internal and Conflict.
var (
	InvalidFormat = MustNewCode("iceberg.invalid_format")
	NotFound      = MustNewCode("iceberg.not_found")
	NotSupported  = MustNewCode("iceberg.not_supported")
	TypeMismatch  = MustNewCode("iceberg.type")
	Conversion    = MustNewCode("iceberg.conversion")
	External      = MustNewCode("iceberg.external")
	Internal      = MustNewCode("iceberg.internal")
	// Conflict marks a failed optimistic-concurrency requirement (spec.md
	// §4.H) — the signal on which a caller reloads the table and retries;
	// Transaction itself does not retry.
	Conflict = MustNewCode("iceberg.conflict")
)
