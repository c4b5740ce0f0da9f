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

// Package harden implements the fixed, individually-toggleable pre-exec
// hardening pipeline applied inside the re-exec'd child, in the order
// mandated by the spec: unshare namespaces, chdir, arm the parent-death
// signal, drop privileges, apply rlimits, redirect stdio, install the
// seccomp filter, exec.
//
// Every step here runs after the process has already been forked (it is
// the re-exec'd "init" half of the orchestrator's own binary, see
// cmd/limtrac/init_linux.go) and before the target binary replaces it.
// Each step's failure is fatal to this process; callers should treat any
// error from Run as grounds to os.Exit with a non-zero status, never as a
// recoverable condition, since there's no useful way to "undo" a partially
// applied hardening step.
package harden

import (
	"fmt"

	"github.com/overtest/limtrac-go/pkg/limtrac"
)

// Plan bundles everything the hardening pipeline needs, after validation,
// to bring up and hand off to the guest program.
type Plan struct {
	Info   limtrac.ExecProgInfo
	IO     limtrac.ExecProgIO
	Limits limtrac.ExecProgLimits
	Guard  limtrac.ExecProgGuard
}

// step names the eight hardening steps in their fixed order, for error
// messages and logging.
type step struct {
	name string
	fn   func(Plan) error
}

// pipeline lists the eight hardening steps in their spec-mandated fixed
// order. It is a package-level var (rather than a literal inline in Run)
// so tests can assert the ordering without running any of the steps,
// which each require root or a real Linux kernel feature.
var pipeline = []step{
	{"unshare-namespaces", unshareNamespaces},
	{"chdir", chdir},
	{"parent-death-signal", setParentDeathSignal},
	{"drop-privileges", dropPrivileges},
	{"apply-rlimits", applyRlimits},
	{"redirect-stdio", redirectStdio},
	{"apply-seccomp", applySeccomp},
	{"exec", execTarget},
}

// Run executes the hardening pipeline in order. On success it never
// returns: the last step replaces the process image via execve. On
// failure it returns an error naming which step failed.
func Run(p Plan) error {
	for _, s := range pipeline {
		if err := s.fn(p); err != nil {
			return fmt.Errorf("harden: step %q failed: %w", s.name, err)
		}
	}
	// execTarget never returns on success.
	return fmt.Errorf("harden: exec returned unexpectedly")
}
