// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Config, the resolved configuration of a run, and the
// descriptors stored in its options fields.
package config

import (
	"slices"

	"github.com/vk/grifork/internal/task"
)

// Symbol is an open enumerated value such as a parallel strategy or run mode.
type Symbol string

// Parallel strategies understood by the executor.
const (
	InThreads   Symbol = "in_threads"
	InProcesses Symbol = "in_processes"
)

// Run modes.
const (
	ModeStandalone Symbol = "standalone"
	ModeGrifork    Symbol = "grifork"
)

// Config is the resolved configuration of a run.
//
// The task slots hold the role-resolved hooks: a nil slot means the hook is
// absent for the role the Config was loaded for. prepare_remote and
// finish_remote never appear here on their own; they are folded into
// PrepareTask and FinishTask when loading on a remote worker.
type Config struct {
	Branches Opt[int]
	Parallel Opt[Symbol]
	Log      Opt[Log]
	Hosts    Opt[[]string]
	Mode     Opt[Symbol]
	SSH      Opt[SSH]
	Rsync    Opt[Rsync]

	PrepareTask *task.Task
	LocalTask   *task.Task
	RemoteTask  *task.Task
	FinishTask  *task.Task

	// OnRemote is the role the hooks were resolved for.
	OnRemote bool
}

// Log describes where a run writes its log.
type Log struct {
	File  string `yaml:"file" json:"file" validate:"required"`
	Level string `yaml:"level,omitempty" json:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// SSH holds the options used to reach remote hosts.
type SSH struct {
	User    string   `yaml:"user,omitempty" json:"user,omitempty"`
	Port    int      `yaml:"port,omitempty" json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Keys    []string `yaml:"keys,omitempty" json:"keys,omitempty" validate:"dive,required"`
	Timeout int      `yaml:"timeout,omitempty" json:"timeout,omitempty" validate:"min=0"`
}

// Rsync holds the options used when syncing files to remote hosts.
type Rsync struct {
	Delete   bool     `yaml:"delete" json:"delete"`
	Bwlimit  int      `yaml:"bwlimit,omitempty" json:"bwlimit,omitempty" validate:"min=0"`
	Verbose  bool     `yaml:"verbose" json:"verbose"`
	Compress bool     `yaml:"compress" json:"compress"`
	Excludes []string `yaml:"excludes,omitempty" json:"excludes,omitempty" validate:"dive,required"`
	Rsh      string   `yaml:"rsh,omitempty" json:"rsh,omitempty"`
}

// New returns an empty Config resolved for the given role.
func New(onRemote bool) *Config {
	return &Config{OnRemote: onRemote}
}

// Clone returns a copy of c that shares no slices with it. Tasks are
// immutable and are shared.
func (c *Config) Clone() *Config {
	out := *c
	if c.Hosts.Set {
		out.Hosts.Value = slices.Clone(c.Hosts.Value)
		if out.Hosts.Value == nil {
			out.Hosts.Value = []string{}
		}
	}
	if c.SSH.Set {
		out.SSH.Value.Keys = slices.Clone(c.SSH.Value.Keys)
	}
	if c.Rsync.Set {
		out.Rsync.Value.Excludes = slices.Clone(c.Rsync.Value.Excludes)
	}
	return &out
}

// Task returns the resolved task for one of the four slot names
// (prepare, local, remote, finish).
func (c *Config) Task(slot string) (*task.Task, bool) {
	switch slot {
	case "prepare":
		return c.PrepareTask, c.PrepareTask != nil
	case "local":
		return c.LocalTask, c.LocalTask != nil
	case "remote":
		return c.RemoteTask, c.RemoteTask != nil
	case "finish":
		return c.FinishTask, c.FinishTask != nil
	default:
		return nil, false
	}
}

// TaskSlots lists the resolved task slot names in execution order.
var TaskSlots = []string{"prepare", "local", "remote", "finish"}
