package dsl

import (
	"fmt"
	"maps"
	"slices"
)

// Directive identifies one recognised script directive.
type Directive int

const (
	DirectiveBranches Directive = iota + 1
	DirectiveParallel
	DirectiveLog
	DirectiveHosts
	DirectiveMode
	DirectiveSSH
	DirectiveRsync
	DirectivePrepare
	DirectiveLocal
	DirectiveRemote
	DirectiveFinish
	DirectivePrepareRemote
	DirectiveFinishRemote
)

// Form is the syntactic shape a directive must take.
type Form int

const (
	// FormAttribute is a single value: `branches = 2`.
	FormAttribute Form = iota + 1
	// FormOptions is an options bag, written either as `log = { ... }` or
	// as `log { ... }`.
	FormOptions
	// FormBlock is a hook body: `remote { ... }`.
	FormBlock
)

func (f Form) String() string {
	switch f {
	case FormAttribute:
		return "attribute"
	case FormOptions:
		return "options"
	case FormBlock:
		return "block"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

type directiveSpec struct {
	name      string
	directive Directive
	form      Form
}

var directiveTable = buildDirectiveTable([]directiveSpec{
	{"branches", DirectiveBranches, FormAttribute},
	{"parallel", DirectiveParallel, FormAttribute},
	{"log", DirectiveLog, FormOptions},
	{"hosts", DirectiveHosts, FormAttribute},
	{"mode", DirectiveMode, FormAttribute},
	{"ssh", DirectiveSSH, FormOptions},
	{"rsync", DirectiveRsync, FormOptions},
	{"prepare", DirectivePrepare, FormBlock},
	{"local", DirectiveLocal, FormBlock},
	{"remote", DirectiveRemote, FormBlock},
	{"finish", DirectiveFinish, FormBlock},
	{"prepare_remote", DirectivePrepareRemote, FormBlock},
	{"finish_remote", DirectiveFinishRemote, FormBlock},
})

// directiveNames is the reverse of directiveTable.
var directiveNames = func() map[Directive]string {
	out := make(map[Directive]string, len(directiveTable))
	for name, spec := range directiveTable {
		out[spec.directive] = name
	}
	return out
}()

func buildDirectiveTable(specs []directiveSpec) map[string]directiveSpec {
	table := make(map[string]directiveSpec, len(specs))
	for _, s := range specs {
		if _, dup := table[s.name]; dup {
			panic(fmt.Sprintf("directive %q registered twice", s.name))
		}
		table[s.name] = s
	}
	return table
}

// LookupDirective returns the directive called name, if there is one.
func LookupDirective(name string) (Directive, bool) {
	spec, ok := directiveTable[name]
	return spec.directive, ok
}

// DirectiveNames returns every recognised directive name, sorted.
func DirectiveNames() []string {
	return slices.Sorted(maps.Keys(directiveTable))
}

func (d Directive) String() string {
	if name, ok := directiveNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Directive(%d)", int(d))
}

// Form returns the syntactic shape d must be written in.
func (d Directive) Form() Form {
	return directiveTable[d.String()].form
}

// IsHook reports whether d defines a lifecycle hook.
func (d Directive) IsHook() bool {
	return d.Form() == FormBlock
}
