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

package probe

import (
	"fmt"
	"os"
	"strconv"

	"github.com/overtest/limtrac-go/pkg/limtrac"
	"github.com/prometheus/procfs"
)

// clockTicksPerSecond is USER_HZ. Reading it precisely requires
// sysconf(_SC_CLK_TCK), which needs cgo; like other pure-Go /proc readers
// in the ecosystem, this falls back to the near-universal Linux default of
// 100 and allows an override for tests.
func clockTicksPerSecond() uint64 {
	if v := os.Getenv("LIMTRAC_CLK_TCK"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return 100
}

// FromProc builds a live snapshot from /proc/<pid>, per spec §4.C:
// proc_time sums the process's own and its reaped children's accumulated
// ticks and converts to ms; proc_wset prefers VmPeak over VmHWM.
//
// A transient read failure (the process exiting mid-read, races in /proc)
// returns an error; callers should treat that as "skip this tick", not as
// fatal, per §4.D.
func FromProc(pid int) (limtrac.ProcResUsage, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return limtrac.ProcResUsage{}, fmt.Errorf("open procfs: %w", err)
	}
	proc, err := fs.Proc(pid)
	if err != nil {
		return limtrac.ProcResUsage{}, fmt.Errorf("open /proc/%d: %w", pid, err)
	}

	stat, err := proc.Stat()
	if err != nil {
		return limtrac.ProcResUsage{}, fmt.Errorf("read /proc/%d/stat: %w", pid, err)
	}

	ticks := stat.UTime + stat.STime + uint64(stat.CUTime) + uint64(stat.CSTime)
	procTime := ticks * millisPerSecond / clockTicksPerSecond()

	status, err := proc.NewStatus()
	if err != nil {
		return limtrac.ProcResUsage{}, fmt.Errorf("read /proc/%d/status: %w", pid, err)
	}
	wset := status.VmPeak
	if wset == 0 {
		wset = status.VmHWM
	}

	return limtrac.ProcResUsage{
		ProcTime: procTime,
		ProcWSet: wset,
	}, nil
}
