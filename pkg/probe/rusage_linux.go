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
	"github.com/overtest/limtrac-go/pkg/limtrac"
	"golang.org/x/sys/unix"
)

// FromRusage builds the terminal snapshot from a reaped child's rusage,
// per spec §4.C: proc_time is utime+stime in ms, proc_wset is ru_maxrss
// (KiB on Linux) converted to bytes.
func FromRusage(ru *unix.Rusage) limtrac.ProcResUsage {
	return limtrac.ProcResUsage{
		ProcTime: timevalMillis(ru.Utime) + timevalMillis(ru.Stime),
		ProcWSet: uint64(ru.Maxrss) * 1024,
	}
}

func timevalMillis(tv unix.Timeval) uint64 {
	return uint64(tv.Sec)*millisPerSecond + uint64(tv.Usec)/millisPerSecond
}
