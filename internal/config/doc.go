// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package config defines the resolved configuration of a grifork run: the
// branch count, parallel strategy, log destination, hosts, mode, connection
// options and the four resolved lifecycle task slots.
//
// Every scalar field is wrapped in Opt so a load records which fields a
// script explicitly set. Merge relies on this to apply an override script
// field by field instead of replacing the whole Config.
//
// The Config is produced by the dsl package and consumed read-only by the
// executor. Nothing in this package knows about the script syntax.
package config
