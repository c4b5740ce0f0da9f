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

	"golang.org/x/sys/unix"
)

// timeMultiplier converts between milliseconds and seconds, matching the
// original implementation's constant of the same role.
const timeMultiplier = 1000

// applyRlimits is hardening step 5.
//
// RLIMIT_CPU is a coarse, second-granularity backstop: "ceil(ms/1000)+1"
// gives the parent watchdog's millisecond-resolution soft limiter first
// claim on a precise kill, while guaranteeing the kernel itself will end
// a runaway child even if the watchdog were to stall.
func applyRlimits(p Plan) error {
	if p.Limits.LimitProcTime > 0 {
		seconds := cpuSecondsCeil(p.Limits.LimitProcTime)
		if err := setRlimit(unix.RLIMIT_CPU, seconds, seconds); err != nil {
			return fmt.Errorf("setrlimit(RLIMIT_CPU): %w", err)
		}
	}
	if p.Limits.RlimitEnabled {
		if err := setRlimit(unix.RLIMIT_CORE, p.Limits.RlimitCore, p.Limits.RlimitCore); err != nil {
			return fmt.Errorf("setrlimit(RLIMIT_CORE): %w", err)
		}
		if err := setRlimit(unix.RLIMIT_NPROC, p.Limits.RlimitNproc, p.Limits.RlimitNproc); err != nil {
			return fmt.Errorf("setrlimit(RLIMIT_NPROC): %w", err)
		}
		if err := setRlimit(unix.RLIMIT_NOFILE, p.Limits.RlimitNofile, p.Limits.RlimitNofile); err != nil {
			return fmt.Errorf("setrlimit(RLIMIT_NOFILE): %w", err)
		}
	}
	return nil
}

func setRlimit(resource int, cur, max uint64) error {
	rlim := unix.Rlimit{Cur: cur, Max: max}
	return unix.Setrlimit(resource, &rlim)
}

// cpuSecondsCeil converts a millisecond CPU-time ceiling into the
// second-granularity value RLIMIT_CPU takes, rounding up and adding one
// second of backstop slack (see spec §9).
func cpuSecondsCeil(ms uint64) uint64 {
	seconds := ms / timeMultiplier
	if ms%timeMultiplier != 0 {
		seconds++
	}
	return seconds + 1
}
