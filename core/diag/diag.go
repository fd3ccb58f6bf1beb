// Package diag provides the structured diagnostics the validator
// reports; the interpreter reports none. It generalizes the typed,
// contextual error shape used elsewhere in the language-toolchain
// corpus (a string code plus a message plus optional context) into a
// severity-tagged diagnostic list, matching spec.md §4.C's
// validate(program) -> {succeeded, diagnostics} contract.
package diag

import (
	"fmt"
	"strings"

	"github.com/fractal-lang/fractal/core/ast"
)

// Severity distinguishes recoverable inconsistencies from problems
// that make rendering meaningless (spec.md §7).
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Code enumerates the diagnostic kinds from spec.md §4.C's table.
type Code string

const (
	E001 Code = "E001" // Size.width <= 0 or Size.height <= 0
	E002 Code = "E002" // No View declared
	E003 Code = "E003" // Start names an undefined rule
	E004 Code = "E004" // Variable used in rule body is not in scope
	E005 Code = "E005" // Transformation probabilities in a rule don't sum to 100
	W001 Code = "W001" // Multiple Start statements (last one wins)
	W002 Code = "W002" // Call targets a name with no defined rule
	W003 Code = "W003" // No Start at all
)

// errorCodes are E001-E005; everything else is a warning.
var errorCodes = map[Code]bool{E001: true, E002: true, E003: true, E004: true, E005: true}

// SeverityOf returns the fixed severity for a known diagnostic code.
func SeverityOf(c Code) Severity {
	if errorCodes[c] {
		return SeverityError
	}
	return SeverityWarning
}

// Diagnostic is one reported finding.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Pos      ast.Position
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", d.Pos, d.Severity, d.Code, d.Message)
}

// New builds a Diagnostic with the code's fixed severity.
func New(code Code, pos ast.Position, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: SeverityOf(code),
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

// Result is the composite outcome of validation: Succeeded is false
// whenever any Diagnostics entry has SeverityError.
type Result struct {
	Diagnostics []Diagnostic
}

// Add appends a diagnostic and keeps Succeeded consistent.
func (r *Result) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Succeeded reports whether no error-severity diagnostic was recorded.
func (r *Result) Succeeded() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns only the error-severity diagnostics, in order.
func (r *Result) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics, in order.
func (r *Result) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// HasCode reports whether a diagnostic with the given code was recorded.
func (r *Result) HasCode(c Code) bool {
	for _, d := range r.Diagnostics {
		if d.Code == c {
			return true
		}
	}
	return false
}

func (r *Result) String() string {
	var b strings.Builder
	for _, d := range r.Diagnostics {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}
