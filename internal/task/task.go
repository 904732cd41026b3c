// Package task defines Task, the executable unit a lifecycle hook resolves to.
package task

import (
	"context"

	"github.com/vk/grifork/internal/ctxlog"
)

// Body is the executable part of a Task. It receives whatever arguments the
// caller passes to Run and returns an opaque result.
type Body func(ctx context.Context, args ...any) (any, error)

// Task wraps a Body under the name of the hook it was created from.
// It is immutable once constructed and safe to run repeatedly and
// concurrently; side effects belong to the body.
type Task struct {
	name string
	body Body
}

// New creates a Task. A nil body yields a Task whose Run returns (nil, nil).
func New(name string, body Body) *Task {
	return &Task{name: name, body: body}
}

// Name returns the hook name the task was created from.
func (t *Task) Name() string {
	return t.name
}

// Run invokes the wrapped body with args. The body's result and error are
// returned unchanged.
func (t *Task) Run(ctx context.Context, args ...any) (any, error) {
	ctxlog.FromContext(ctx).Debug("Running task.", "task", t.name, "arg_count", len(args))
	if t.body == nil {
		return nil, nil
	}
	return t.body(ctx, args...)
}
