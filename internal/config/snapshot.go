// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Snapshot, the serialisable view of a Config used for
// printing and validation.
package config

// Snapshot is a plain, serialisable view of a Config. Unset fields are nil
// and tasks are reported by presence only.
type Snapshot struct {
	Branches *int      `yaml:"branches,omitempty" json:"branches,omitempty" validate:"omitempty,min=1"`
	Parallel *Symbol   `yaml:"parallel,omitempty" json:"parallel,omitempty" validate:"omitempty,symbol"`
	Log      *Log      `yaml:"log,omitempty" json:"log,omitempty"`
	Hosts    *[]string `yaml:"hosts,omitempty" json:"hosts,omitempty" validate:"omitempty,dive,required"`
	Mode     *Symbol   `yaml:"mode,omitempty" json:"mode,omitempty" validate:"omitempty,symbol"`
	SSH      *SSH      `yaml:"ssh,omitempty" json:"ssh,omitempty"`
	Rsync    *Rsync    `yaml:"rsync,omitempty" json:"rsync,omitempty"`
	Tasks    TaskSet   `yaml:"tasks" json:"tasks"`
	OnRemote bool      `yaml:"on_remote" json:"on_remote"`
}

// TaskSet records which resolved task slots are defined.
type TaskSet struct {
	Prepare bool `yaml:"prepare" json:"prepare"`
	Local   bool `yaml:"local" json:"local"`
	Remote  bool `yaml:"remote" json:"remote"`
	Finish  bool `yaml:"finish" json:"finish"`
}

// Snapshot returns the serialisable view of c.
func (c *Config) Snapshot() Snapshot {
	cl := c.Clone()
	return Snapshot{
		Branches: cl.Branches.ptr(),
		Parallel: cl.Parallel.ptr(),
		Log:      cl.Log.ptr(),
		Hosts:    cl.Hosts.ptr(),
		Mode:     cl.Mode.ptr(),
		SSH:      cl.SSH.ptr(),
		Rsync:    cl.Rsync.ptr(),
		Tasks: TaskSet{
			Prepare: cl.PrepareTask != nil,
			Local:   cl.LocalTask != nil,
			Remote:  cl.RemoteTask != nil,
			Finish:  cl.FinishTask != nil,
		},
		OnRemote: cl.OnRemote,
	}
}
