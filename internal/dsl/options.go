package dsl

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/grifork/internal/config"
	"github.com/vk/grifork/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
)

// optionSetter stores one option value into the descriptor being built.
type optionSetter[T any] func(val cty.Value, dst *T) error

// optionsSpec describes the keys an options bag accepts.
type optionsSpec[T any] struct {
	setters  map[string]optionSetter[T]
	required []string
}

// field returns a setter decoding the value into the field ref points at.
func field[T, V any](ref func(*T) *V) optionSetter[T] {
	return func(val cty.Value, dst *T) error {
		if val.IsNull() {
			return errors.New("must not be null")
		}
		return hclutil.Decode(val, ref(dst))
	}
}

var logOptions = optionsSpec[config.Log]{
	setters: map[string]optionSetter[config.Log]{
		"file":  field(func(l *config.Log) *string { return &l.File }),
		"level": field(func(l *config.Log) *string { return &l.Level }),
	},
	required: []string{"file"},
}

var sshOptions = optionsSpec[config.SSH]{
	setters: map[string]optionSetter[config.SSH]{
		"user":    field(func(s *config.SSH) *string { return &s.User }),
		"port":    field(func(s *config.SSH) *int { return &s.Port }),
		"keys":    field(func(s *config.SSH) *[]string { return &s.Keys }),
		"timeout": field(func(s *config.SSH) *int { return &s.Timeout }),
	},
}

var rsyncOptions = optionsSpec[config.Rsync]{
	setters: map[string]optionSetter[config.Rsync]{
		"delete":   field(func(r *config.Rsync) *bool { return &r.Delete }),
		"bwlimit":  field(func(r *config.Rsync) *int { return &r.Bwlimit }),
		"verbose":  field(func(r *config.Rsync) *bool { return &r.Verbose }),
		"compress": field(func(r *config.Rsync) *bool { return &r.Compress }),
		"excludes": field(func(r *config.Rsync) *[]string { return &r.Excludes }),
		"rsh":      field(func(r *config.Rsync) *string { return &r.Rsh }),
	},
}

// decode builds a descriptor from values. Keys are applied in sorted order
// so that the reported error is stable.
func (s optionsSpec[T]) decode(directive string, rng hcl.Range, values map[string]cty.Value) (T, error) {
	var out T
	for _, key := range slices.Sorted(maps.Keys(values)) {
		set, ok := s.setters[key]
		if !ok {
			return out, &MalformedOptionsError{
				Directive: directive,
				Reason:    fmt.Sprintf("unknown option %q (expected one of: %s)", key, strings.Join(slices.Sorted(maps.Keys(s.setters)), ", ")),
				Range:     rng,
			}
		}
		if err := set(values[key], &out); err != nil {
			return out, &MalformedOptionsError{
				Directive: directive,
				Reason:    fmt.Sprintf("option %q: %v", key, err),
				Range:     rng,
			}
		}
	}
	for _, key := range s.required {
		if _, ok := values[key]; !ok {
			return out, &MalformedOptionsError{
				Directive: directive,
				Reason:    fmt.Sprintf("missing required option %q", key),
				Range:     rng,
			}
		}
	}
	return out, nil
}

// objectValues splits an object or map value into its attributes.
func objectValues(directive string, val cty.Value, rng hcl.Range) (map[string]cty.Value, error) {
	ty := val.Type()
	if val.IsNull() || !(ty.IsObjectType() || ty.IsMapType()) {
		got := "null"
		if !val.IsNull() {
			got = ty.FriendlyName()
		}
		return nil, &MalformedOptionsError{
			Directive: directive,
			Reason:    "expected an options object, got " + got,
			Range:     rng,
		}
	}
	if !val.IsWhollyKnown() {
		return nil, &MalformedOptionsError{Directive: directive, Reason: "options must be known at load time", Range: rng}
	}

	out := make(map[string]cty.Value, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		out[key.AsString()] = elem
	}
	return out, nil
}

// blockValues evaluates the attributes of an options block.
func blockValues(directive string, block *hclsyntax.Block, evalCtx *hcl.EvalContext) (map[string]cty.Value, error) {
	if len(block.Body.Blocks) > 0 {
		nested := block.Body.Blocks[0]
		return nil, &MalformedOptionsError{
			Directive: directive,
			Reason:    fmt.Sprintf("nested %q block is not allowed", nested.Type),
			Range:     nested.TypeRange,
		}
	}

	out := make(map[string]cty.Value, len(block.Body.Attributes))
	for name, attr := range block.Body.Attributes {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		out[name] = val
	}
	return out, nil
}
