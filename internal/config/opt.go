// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Opt, the wrapper that lets a Config tell an explicitly
// set field apart from one a script never mentioned.
package config

// Opt is a value together with a flag telling whether it was explicitly set.
type Opt[T any] struct {
	Value T
	Set   bool
}

// Some returns an Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Set: true}
}

// Get returns the value and whether it was set.
func (o Opt[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// Override returns other if it was set, o otherwise.
func (o Opt[T]) Override(other Opt[T]) Opt[T] {
	if other.Set {
		return other
	}
	return o
}

// ptr returns a pointer to the value, or nil when unset.
func (o Opt[T]) ptr() *T {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}
