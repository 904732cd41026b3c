// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file implements field-level merging of two Configs.
package config

// Merge returns a new Config holding, for every field, the override's value
// when the override set it and the base's value otherwise. Neither argument
// is modified. The result keeps the base's role.
func Merge(base, override *Config) *Config {
	merged := base.Clone()
	if override == nil {
		return merged
	}
	o := override.Clone()

	merged.Branches = merged.Branches.Override(o.Branches)
	merged.Parallel = merged.Parallel.Override(o.Parallel)
	merged.Log = merged.Log.Override(o.Log)
	merged.Hosts = merged.Hosts.Override(o.Hosts)
	merged.Mode = merged.Mode.Override(o.Mode)
	merged.SSH = merged.SSH.Override(o.SSH)
	merged.Rsync = merged.Rsync.Override(o.Rsync)

	if o.PrepareTask != nil {
		merged.PrepareTask = o.PrepareTask
	}
	if o.LocalTask != nil {
		merged.LocalTask = o.LocalTask
	}
	if o.RemoteTask != nil {
		merged.RemoteTask = o.RemoteTask
	}
	if o.FinishTask != nil {
		merged.FinishTask = o.FinishTask
	}
	return merged
}
