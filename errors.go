package recordkit

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeSchema         = "schema_error"
	CodeRequired       = "required"
	CodeInvalidType    = "invalid_type"
	CodeInvalidLiteral = "invalid_literal"
	CodeInvalidEnum    = "invalid_enum"
	CodeInvalidFormat  = "invalid_format"
	CodeIncomplete     = "incomplete"
	CodeNotPresent     = "not_present"
	CodeUnknownKey     = "unknown_key"
)

// Sentinel errors matched by errors.Is against Issues. Each one stands for a
// family of issue codes.
var (
	ErrSchema             = errors.New("recordkit: schema error")
	ErrMissingField       = errors.New("recordkit: missing required field")
	ErrValueMismatch      = errors.New("recordkit: value mismatch")
	ErrInvalidEnumValue   = errors.New("recordkit: invalid enum value")
	ErrCodec              = errors.New("recordkit: codec error")
	ErrIncompleteInstance = errors.New("recordkit: incomplete instance")
	ErrFieldNotPresent    = errors.New("recordkit: field not present")
	ErrUnknownField       = errors.New("recordkit: unknown field")
)

// ErrMalformedInput wraps syntax errors of the JSON and YAML entry points.
// It is not an Issue: the document never reached the record schema.
var ErrMalformedInput = errors.New("recordkit: malformed input")

var _sentinelByCode = map[string]error{
	CodeSchema:         ErrSchema,
	CodeRequired:       ErrMissingField,
	CodeInvalidType:    ErrValueMismatch,
	CodeInvalidLiteral: ErrValueMismatch,
	CodeInvalidEnum:    ErrInvalidEnumValue,
	CodeInvalidFormat:  ErrCodec,
	CodeIncomplete:     ErrIncompleteInstance,
	CodeNotPresent:     ErrFieldNotPresent,
	CodeUnknownKey:     ErrUnknownField,
}

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /my_list/2/foo).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, type names, etc.
	Cause   error  // Optional: underlying error (codec failures).
	// Params carries structured parameters (e.g., {"expected":"integer"})
	// used to render Message.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error. Parsing
// and construction are fail-fast, so in practice it holds a single entry.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path: expected integer, got string
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any issue belongs to the family of the target sentinel.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if s, ok := _sentinelByCode[it.Code]; ok && s == target {
			return true
		}
	}
	return false
}

// Unwrap exposes underlying causes so errors.Is/As can reach codec errors.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// First returns the first issue, if any.
func (iss Issues) First() (Issue, bool) {
	if len(iss) == 0 {
		return Issue{}, false
	}
	return iss[0], true
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
