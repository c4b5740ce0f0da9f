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

//go:build linux

package harden

import (
	"fmt"

	seccomp "github.com/seccomp/libseccomp-golang"
)

// denyListSyscalls names the syscalls the standard deny-list kills the
// process for using. It exists to prevent the guest from re-arming or
// undoing hardening steps 1-6, or from mutating host filesystem metadata.
//
// fork/vfork/clone/clone3 are intentionally absent: the latest revision of
// the original allows process creation so a guest can use its own child
// processes, bounded by RLIMIT_NPROC (see the Open Question in
// SPEC_FULL.md §9.2).
var denyListSyscalls = []string{
	"reboot", "setuid", "setgid", "prctl", "unshare", "setrlimit",
	"timer_create", "timer_gettime", "timer_settime", "timer_delete", "timer_getoverrun",
	"timerfd_create", "timerfd_gettime", "timerfd_settime",
	"chdir", "fchdir",
	"chmod", "fchmod", "fchmodat",
	"chown", "fchown", "lchown", "fchownat",
}

// applySeccomp is hardening step 7.
func applySeccomp(p Plan) error {
	if !p.Guard.ScmpEnabled {
		return nil
	}

	filter, err := seccomp.NewFilter(seccomp.ActAllow)
	if err != nil {
		return fmt.Errorf("new seccomp filter: %w", err)
	}
	defer filter.Release()

	if p.Guard.ScmpDenyCommon {
		for _, name := range denyListSyscalls {
			call, err := seccomp.GetSyscallFromName(name)
			if err != nil {
				// The syscall doesn't exist on this architecture/kernel;
				// nothing to deny.
				continue
			}
			if err := filter.AddRule(call, seccomp.ActKillProcess); err != nil {
				return fmt.Errorf("deny syscall %q: %w", name, err)
			}
		}
	}

	if err := filter.Load(); err != nil {
		return fmt.Errorf("load seccomp filter: %w", err)
	}
	return nil
}
