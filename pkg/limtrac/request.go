// Copyright 2024 The LIMTRAC-GO Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package limtrac implements the launch-monitor-reap pipeline: validate a
// request to run an untrusted program, fork and harden a child process to
// run it, and watch the child until it exits or a policy limit is breached.
package limtrac

import (
	"os"
	"path/filepath"
	"strings"
)

// ExecProgInfo describes the program to run.
type ExecProgInfo struct {
	// ProgramPath is the absolute path to an existing regular file.
	ProgramPath string
	// Arguments is a single whitespace-separated argument string. argv[0] is
	// synthesized from the basename of ProgramPath; Arguments supplies the
	// rest of argv.
	Arguments string
	// WorkingPath is an existing directory the child chdir's into.
	WorkingPath string
	// RunAsUser is an account name to switch to, or "" to keep the caller's
	// identity.
	RunAsUser string
}

// Verify checks the structural and filesystem preconditions from the
// ExecProgInfo invariant. It does not check the executable bit nor whether
// WorkingPath is writable.
func (i ExecProgInfo) Verify() error {
	if i.ProgramPath == "" {
		return validationErrorf("ProgramPath", "must not be empty")
	}
	if i.WorkingPath == "" {
		return validationErrorf("WorkingPath", "must not be empty")
	}
	fi, err := os.Stat(i.ProgramPath)
	if err != nil {
		return validationErrorf("ProgramPath", "%q: %w", i.ProgramPath, err)
	}
	if !fi.Mode().IsRegular() {
		return validationErrorf("ProgramPath", "%q is not a regular file", i.ProgramPath)
	}
	di, err := os.Stat(i.WorkingPath)
	if err != nil {
		return validationErrorf("WorkingPath", "%q: %w", i.WorkingPath, err)
	}
	if !di.IsDir() {
		return validationErrorf("WorkingPath", "%q is not a directory", i.WorkingPath)
	}
	return nil
}

// Argv synthesizes argv from ProgramPath's basename and Arguments. argv[0]
// is always the basename; an empty Arguments yields a single-element argv.
func (i ExecProgInfo) Argv() []string {
	base := filepath.Base(i.ProgramPath)
	rest := strings.TrimSpace(i.Arguments)
	if rest == "" {
		return []string{base}
	}
	return append([]string{base}, strings.Fields(rest)...)
}

// ExecProgIO describes stdio redirection for the child.
type ExecProgIO struct {
	// Redirected enables redirection; if false all other fields are ignored
	// and stdio is inherited from the caller the way the orchestrator sets
	// it up (cmd/limtrac sets it from LIMTRAC_IO_REDIRECT, default false).
	Redirected bool
	PathStdin  string
	PathStdout string
	PathStderr string
	// DupErrToOut duplicates stdout onto stderr instead of opening
	// PathStderr. When set, PathStderr must be empty and PathStdout must be
	// non-empty.
	DupErrToOut bool
}

// Verify checks the ExecProgIO invariant from spec §3.
func (io ExecProgIO) Verify() error {
	if !io.Redirected {
		return nil
	}
	if io.PathStdin == "" && io.PathStdout == "" && io.PathStderr == "" {
		return validationErrorf("Redirected", "enabled but all paths are empty")
	}
	if io.DupErrToOut {
		if io.PathStderr != "" {
			return validationErrorf("DupErrToOut", "set but PathStderr is non-empty")
		}
		if io.PathStdout == "" {
			return validationErrorf("DupErrToOut", "set but PathStdout is empty")
		}
	}
	if io.PathStdin != "" {
		fi, err := os.Stat(io.PathStdin)
		if err != nil {
			return validationErrorf("PathStdin", "%q: %w", io.PathStdin, err)
		}
		if !fi.Mode().IsRegular() {
			return validationErrorf("PathStdin", "%q is not a regular file", io.PathStdin)
		}
	}
	return nil
}

// ExecProgLimits holds resource ceilings. A zero value means "no limit" for
// the three usage ceilings.
type ExecProgLimits struct {
	// LimitRealTime is the wall-clock ceiling in milliseconds.
	LimitRealTime uint64
	// LimitProcTime is the user+sys CPU time ceiling in milliseconds.
	LimitProcTime uint64
	// LimitProcWSet is the peak resident memory ceiling in bytes.
	LimitProcWSet uint64

	RlimitEnabled bool
	RlimitCore    uint64
	RlimitNproc   uint64
	RlimitNofile  uint64
}

// ExecProgGuard holds hardening toggles.
type ExecProgGuard struct {
	ScmpEnabled    bool
	ScmpDenyCommon bool
	UnshareCommon  bool
	UnshareNetwork bool
}
