package dsl

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/grifork/internal/config"
	"github.com/vk/grifork/internal/ctxlog"
	"github.com/vk/grifork/internal/hclutil"
	"github.com/vk/grifork/internal/shell"
	"github.com/zclconf/go-cty/cty"
)

// Interpreter loads Griforkfiles into resolved configurations. It is safe
// for concurrent use.
type Interpreter struct {
	runner shell.Runner
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithCommandRunner sets the runner used by hook bodies that declare a
// command. The default runs local processes.
func WithCommandRunner(r shell.Runner) Option {
	return func(i *Interpreter) {
		i.runner = r
	}
}

// New creates an Interpreter.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{runner: shell.NewExecRunner()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// LoadFromScript interprets the script at path for the given role using a
// default Interpreter.
func LoadFromScript(ctx context.Context, path string, onRemote bool) (*config.Config, error) {
	return New().LoadFile(ctx, path, onRemote)
}

// LoadAndMergeConfigFrom interprets the script at path for base's role and
// merges it over base using a default Interpreter.
func LoadAndMergeConfigFrom(ctx context.Context, base *config.Config, path string) (*config.Config, error) {
	return New().LoadAndMerge(ctx, base, path)
}

// LoadFile reads and interprets the script at path.
func (i *Interpreter) LoadFile(ctx context.Context, path string, onRemote bool) (*config.Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return i.Load(ctx, path, src, onRemote)
}

// LoadAndMerge interprets the script at path into a fresh Config resolved
// for base's role and returns Merge(base, loaded). The merge is all or
// nothing: on any error no Config is returned and base is untouched.
func (i *Interpreter) LoadAndMerge(ctx context.Context, base *config.Config, path string) (*config.Config, error) {
	if base == nil {
		return nil, fmt.Errorf("failed to merge %s: base config is nil", path)
	}
	override, err := i.LoadFile(ctx, path, base.OnRemote)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Merging script over base config.", "script", path, "on_remote", base.OnRemote)
	return config.Merge(base, override), nil
}

// Load interprets src. filename is used in diagnostics only.
func (i *Interpreter) Load(ctx context.Context, filename string, src []byte, onRemote bool) (*config.Config, error) {
	ctx = ctxlog.With(ctx, "script", filename)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Interpreting script.", "on_remote", onRemote, "bytes", len(src))

	body, redefined, err := parseScript(src, filename)
	if err != nil {
		return nil, err
	}

	st := &loadState{
		cfg:     config.New(onRemote),
		runner:  i.runner,
		evalCtx: hclutil.NewEvalContext(nil),
	}
	for _, it := range documentOrder(body, redefined) {
		var err error
		if it.attr != nil {
			err = st.applyAttribute(it.attr)
		} else {
			err = st.applyBlock(it.block)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to interpret script %s: %w", filename, err)
		}
		logger.Debug("Applied directive.", "directive", it.name(), "line", it.line())
	}

	st.hooks.resolveInto(st.cfg)
	if !onRemote && (st.hooks.prepareRemote != nil || st.hooks.finishRemote != nil) {
		logger.Debug("Remote-scoped hooks are left to the workers.")
	}

	if err := st.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script %s: %w", filename, err)
	}
	logger.Debug("Script interpreted.", "tasks", st.cfg.Snapshot().Tasks)
	return st.cfg, nil
}

// parseScript parses src into its top-level body. HCL keeps only the first
// of several attributes with the same name; the later ones are parsed again
// from their own source offset and returned separately so that they can be
// applied in document order.
func parseScript(src []byte, filename string) (*hclsyntax.Body, []*hclsyntax.Attribute, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, nil, fmt.Errorf("failed to parse script %s: unexpected body type %T", filename, file.Body)
	}

	var redefined []*hclsyntax.Attribute
	var rest hcl.Diagnostics
	for _, diag := range diags {
		if diag.Summary == attributeRedefined && diag.Subject != nil && isTopLevel(body, diag.Subject.Start.Byte) {
			if attr := reparseAttribute(src, filename, diag.Subject.Start); attr != nil {
				redefined = append(redefined, attr)
				continue
			}
		}
		rest = append(rest, diag)
	}
	if rest.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse script %s: %w", filename, rest)
	}
	return body, redefined, nil
}

// attributeRedefined is the summary hclsyntax reports for a repeated
// attribute name within one body.
const attributeRedefined = "Attribute redefined"

func isTopLevel(body *hclsyntax.Body, offset int) bool {
	for _, block := range body.Blocks {
		if block.Range().ContainsOffset(offset) {
			return false
		}
	}
	return true
}

// reparseAttribute parses src from start, which must be the beginning of an
// attribute name, and returns that attribute.
func reparseAttribute(src []byte, filename string, start hcl.Pos) *hclsyntax.Attribute {
	if start.Byte < 0 || start.Byte >= len(src) {
		return nil
	}
	file, _ := hclsyntax.ParseConfig(src[start.Byte:], filename, start)
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil
	}
	for _, attr := range body.Attributes {
		if attr.NameRange.Start.Byte == start.Byte {
			return attr
		}
	}
	return nil
}

// item is one top-level attribute or block.
type item struct {
	attr  *hclsyntax.Attribute
	block *hclsyntax.Block
}

func (it item) start() hcl.Pos {
	if it.attr != nil {
		return it.attr.SrcRange.Start
	}
	return it.block.TypeRange.Start
}

func (it item) name() string {
	if it.attr != nil {
		return it.attr.Name
	}
	return it.block.Type
}

func (it item) line() int {
	return it.start().Line
}

// documentOrder interleaves attributes, including redefined ones, and
// blocks by source position.
func documentOrder(body *hclsyntax.Body, redefined []*hclsyntax.Attribute) []item {
	items := make([]item, 0, len(body.Attributes)+len(redefined)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, item{attr: attr})
	}
	for _, attr := range redefined {
		items = append(items, item{attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, item{block: block})
	}
	sort.Slice(items, func(a, b int) bool {
		return items[a].start().Byte < items[b].start().Byte
	})
	return items
}

// loadState is the Config under construction for one load.
type loadState struct {
	cfg     *config.Config
	hooks   hookSet
	runner  shell.Runner
	evalCtx *hcl.EvalContext
}

func (st *loadState) applyAttribute(attr *hclsyntax.Attribute) error {
	spec, ok := directiveTable[attr.Name]
	if !ok {
		return &UndefinedDirectiveError{Name: attr.Name, Range: attr.NameRange}
	}

	switch spec.form {
	case FormBlock:
		return errorDiags(
			"Unsupported directive form",
			fmt.Sprintf("%q is a hook and must be written as a block: %s { ... }.", spec.name, spec.name),
			attr.NameRange,
		)
	case FormOptions:
		val, diags := attr.Expr.Value(st.evalCtx)
		if diags.HasErrors() {
			return diags
		}
		values, err := objectValues(spec.name, val, attr.SrcRange)
		if err != nil {
			return err
		}
		return st.applyOptions(spec, values, attr.SrcRange)
	}

	switch spec.directive {
	case DirectiveBranches:
		var n int
		if err := st.decodeAttribute(attr, &n); err != nil {
			return err
		}
		st.cfg.Branches = config.Some(n)
	case DirectiveParallel, DirectiveMode:
		sym, diags := hclutil.ExprAsSymbol(attr.Expr, st.evalCtx)
		if diags.HasErrors() {
			return diags
		}
		if !config.ValidSymbol(sym) {
			return errorDiags(
				"Invalid symbol",
				fmt.Sprintf("%q is not a valid %s: a symbol must be non-empty and contain no whitespace.", sym, spec.name),
				attr.Expr.Range(),
			)
		}
		if spec.directive == DirectiveParallel {
			st.cfg.Parallel = config.Some(config.Symbol(sym))
		} else {
			st.cfg.Mode = config.Some(config.Symbol(sym))
		}
	case DirectiveHosts:
		var hosts []string
		if err := st.decodeAttribute(attr, &hosts); err != nil {
			return err
		}
		st.cfg.Hosts = config.Some(hosts)
	default:
		panic(fmt.Sprintf("no attribute handler for directive %s", spec.directive))
	}
	return nil
}

func (st *loadState) applyBlock(block *hclsyntax.Block) error {
	spec, ok := directiveTable[block.Type]
	if !ok {
		return &UndefinedDirectiveError{Name: block.Type, Range: block.TypeRange}
	}
	if len(block.Labels) > 0 {
		return errorDiags(
			"Unexpected block labels",
			fmt.Sprintf("A %q block takes no labels.", spec.name),
			block.LabelRanges[0],
		)
	}

	switch spec.form {
	case FormAttribute:
		return errorDiags(
			"Unsupported directive form",
			fmt.Sprintf("%q takes a value and must be written as an attribute: %s = <value>.", spec.name, spec.name),
			block.TypeRange,
		)
	case FormOptions:
		values, err := blockValues(spec.name, block, st.evalCtx)
		if err != nil {
			return err
		}
		return st.applyOptions(spec, values, block.DefRange())
	}

	t, diags := compileHook(spec.name, block, st.runner)
	if diags.HasErrors() {
		return diags
	}
	st.hooks.set(spec.directive, t)
	return nil
}

func (st *loadState) applyOptions(spec directiveSpec, values map[string]cty.Value, rng hcl.Range) error {
	switch spec.directive {
	case DirectiveLog:
		l, err := logOptions.decode(spec.name, rng, values)
		if err != nil {
			return err
		}
		st.cfg.Log = config.Some(l)
	case DirectiveSSH:
		s, err := sshOptions.decode(spec.name, rng, values)
		if err != nil {
			return err
		}
		st.cfg.SSH = config.Some(s)
	case DirectiveRsync:
		r, err := rsyncOptions.decode(spec.name, rng, values)
		if err != nil {
			return err
		}
		st.cfg.Rsync = config.Some(r)
	default:
		panic(fmt.Sprintf("no options handler for directive %s", spec.directive))
	}
	return nil
}

// decodeAttribute evaluates a top-level attribute into target.
func (st *loadState) decodeAttribute(attr *hclsyntax.Attribute, target any) error {
	val, diags := attr.Expr.Value(st.evalCtx)
	if diags.HasErrors() {
		return diags
	}
	if val.IsNull() {
		return errorDiags("Invalid value", fmt.Sprintf("%q must not be null.", attr.Name), attr.Expr.Range())
	}
	if err := hclutil.Decode(val, target); err != nil {
		return errorDiags(fmt.Sprintf("Invalid value for %q", attr.Name), err.Error(), attr.Expr.Range())
	}
	return nil
}
