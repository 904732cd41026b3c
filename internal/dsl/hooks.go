package dsl

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/grifork/internal/config"
	"github.com/vk/grifork/internal/ctxlog"
	"github.com/vk/grifork/internal/hclutil"
	"github.com/vk/grifork/internal/shell"
	"github.com/vk/grifork/internal/task"
	"github.com/zclconf/go-cty/cty"
)

// Variables visible to hook expressions.
const (
	varArgs   = "args"
	varHook   = "hook"
	varOutput = "output"
)

var hookBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "command"},
		{Name: "dir"},
		{Name: "env"},
		{Name: "result"},
	},
}

// hookSet holds the raw hook tasks as written in the script.
type hookSet struct {
	prepare       *task.Task
	local         *task.Task
	remote        *task.Task
	finish        *task.Task
	prepareRemote *task.Task
	finishRemote  *task.Task
}

func (h *hookSet) set(d Directive, t *task.Task) {
	switch d {
	case DirectivePrepare:
		h.prepare = t
	case DirectiveLocal:
		h.local = t
	case DirectiveRemote:
		h.remote = t
	case DirectiveFinish:
		h.finish = t
	case DirectivePrepareRemote:
		h.prepareRemote = t
	case DirectiveFinishRemote:
		h.finishRemote = t
	default:
		panic(fmt.Sprintf("%s is not a hook directive", d))
	}
}

// resolveInto fills the task slots of cfg for the role cfg was created for.
//
// On a worker the master's remote hook is the worker's own local work, and
// only the explicitly remote-scoped prepare and finish hooks apply.
func (h *hookSet) resolveInto(cfg *config.Config) {
	if !cfg.OnRemote {
		cfg.PrepareTask = h.prepare
		cfg.LocalTask = h.local
		cfg.RemoteTask = h.remote
		cfg.FinishTask = h.finish
		return
	}
	cfg.PrepareTask = h.prepareRemote
	cfg.LocalTask = h.remote
	cfg.RemoteTask = nil
	cfg.FinishTask = h.finishRemote
}

// hook is the compiled body of a hook block. Its expressions are evaluated
// on every run; it holds no mutable state.
type hook struct {
	name     string
	runner   shell.Runner
	usesArgs bool
	command hcl.Expression
	dir     hcl.Expression
	env     hcl.Expression
	result  hcl.Expression
}

// compileHook turns a hook block into a Task. Only the shape of the block
// and the variables its expressions reference are checked here.
func compileHook(name string, block *hclsyntax.Block, runner shell.Runner) (*task.Task, hcl.Diagnostics) {
	content, diags := block.Body.Content(hookBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	usesArgs := false
	for _, attr := range content.Attributes {
		for _, traversal := range attr.Expr.Variables() {
			switch traversal.RootName() {
			case varArgs:
				usesArgs = true
			case varHook, varOutput:
			default:
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unknown variable",
					Detail:   fmt.Sprintf("There is no variable named %q. Hook expressions may refer to args, hook and output.", traversal.RootName()),
					Subject:  traversal.SourceRange().Ptr(),
				})
			}
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	h := &hook{name: name, runner: runner, usesArgs: usesArgs}
	if attr, ok := content.Attributes["command"]; ok {
		h.command = attr.Expr
	}
	if attr, ok := content.Attributes["dir"]; ok {
		h.dir = attr.Expr
	}
	if attr, ok := content.Attributes["env"]; ok {
		h.env = attr.Expr
	}
	if attr, ok := content.Attributes["result"]; ok {
		h.result = attr.Expr
	}
	return task.New(name, h.run), diags
}

func (h *hook) run(ctx context.Context, args ...any) (any, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running hook.", "hook", h.name)

	// Arguments are only converted for bodies that read them.
	argsVal := cty.DynamicVal
	if h.usesArgs {
		var err error
		if argsVal, err = argsTuple(args); err != nil {
			return nil, fmt.Errorf("failed to pass arguments to hook %q: %w", h.name, err)
		}
	}
	vars := map[string]cty.Value{
		varArgs:   argsVal,
		varHook:   cty.StringVal(h.name),
		varOutput: cty.StringVal(""),
	}

	ranCommand := false
	if h.command != nil {
		cmd, err := h.buildCommand(hclutil.NewEvalContext(vars))
		if err != nil {
			return nil, err
		}
		out, err := h.runner.Run(ctx, cmd)
		if err != nil {
			return nil, fmt.Errorf("hook %q failed: %w", h.name, err)
		}
		vars[varOutput] = cty.StringVal(strings.TrimSpace(out.Stdout))
		ranCommand = true
	}

	if h.result == nil {
		if ranCommand {
			return vars[varOutput].AsString(), nil
		}
		return nil, nil
	}

	val, diags := h.result.Value(hclutil.NewEvalContext(vars))
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate result of hook %q: %w", h.name, diags)
	}
	res, err := hclutil.ToNative(val)
	if err != nil {
		return nil, fmt.Errorf("failed to convert result of hook %q: %w", h.name, err)
	}
	logger.Debug("Hook finished.", "hook", h.name, "ran_command", ranCommand)
	return res, nil
}

// buildCommand evaluates command, dir and env. A string command is run by
// the shell; a list is used as argv.
func (h *hook) buildCommand(evalCtx *hcl.EvalContext) (shell.Command, error) {
	var cmd shell.Command

	val, diags := h.command.Value(evalCtx)
	if diags.HasErrors() {
		return cmd, fmt.Errorf("failed to evaluate command of hook %q: %w", h.name, diags)
	}
	switch {
	case val.IsNull():
		return cmd, fmt.Errorf("command of hook %q is null", h.name)
	case val.Type() == cty.String:
		cmd.Argv = []string{"sh", "-c", val.AsString()}
	default:
		if err := hclutil.Decode(val, &cmd.Argv); err != nil {
			return cmd, fmt.Errorf("command of hook %q must be a string or a list of strings: %w", h.name, err)
		}
	}
	if len(cmd.Argv) == 0 {
		return cmd, fmt.Errorf("command of hook %q is empty", h.name)
	}

	if h.dir != nil {
		if err := decodeExpr(h.dir, evalCtx, &cmd.Dir); err != nil {
			return cmd, fmt.Errorf("invalid dir of hook %q: %w", h.name, err)
		}
	}
	if h.env != nil {
		if err := decodeExpr(h.env, evalCtx, &cmd.Env); err != nil {
			return cmd, fmt.Errorf("invalid env of hook %q: %w", h.name, err)
		}
	}
	return cmd, nil
}

func decodeExpr(expr hcl.Expression, evalCtx *hcl.EvalContext, target any) error {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return diags
	}
	if val.IsNull() {
		return nil
	}
	return hclutil.Decode(val, target)
}

// argsTuple converts invocation arguments into the value of `args`.
func argsTuple(args []any) (cty.Value, error) {
	if len(args) == 0 {
		return cty.EmptyTupleVal, nil
	}
	vals := make([]cty.Value, len(args))
	for i, a := range args {
		v, err := hclutil.ToCtyValue(a)
		if err != nil {
			return cty.NilVal, fmt.Errorf("argument %d: %w", i, err)
		}
		vals[i] = v
	}
	return cty.TupleVal(vals), nil
}
