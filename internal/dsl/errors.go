package dsl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// UndefinedDirectiveError is returned when a script uses a name that is not
// a known directive.
type UndefinedDirectiveError struct {
	Name  string
	Range hcl.Range
}

func (e *UndefinedDirectiveError) Error() string {
	return fmt.Sprintf("%s: undefined directive %q", e.Range, e.Name)
}

// MalformedOptionsError is returned when an options bag (log, ssh, rsync)
// cannot be interpreted.
type MalformedOptionsError struct {
	Directive string
	Reason    string
	Range     hcl.Range
}

func (e *MalformedOptionsError) Error() string {
	return fmt.Sprintf("%s: malformed %s options: %s", e.Range, e.Directive, e.Reason)
}

// errorDiags builds a single error diagnostic.
func errorDiags(summary, detail string, subject hcl.Range) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  subject.Ptr(),
	}}
}
