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

package limtrac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProcExecResult(t *testing.T) {
	r := NewProcExecResult()
	assert.Equal(t, -1, r.ExitCode)
	assert.Equal(t, 0, r.ExitSignal)
	assert.False(t, r.Killed)
	assert.Equal(t, KillReasonUnset, r.KillReason)
}

// TestProcResUsageMergeMonotonic asserts the resource-monotonicity law: a
// merge never lowers a previously recorded peak for proc_time or
// proc_wset, while real_time always reflects the latest sample.
func TestProcResUsageMergeMonotonic(t *testing.T) {
	usage := ProcResUsage{RealTime: 100, ProcTime: 50, ProcWSet: 4096}

	usage.Merge(ProcResUsage{RealTime: 50, ProcTime: 30, ProcWSet: 2048})
	assert.Equal(t, uint64(50), usage.RealTime, "real_time tracks the latest sample")
	assert.Equal(t, uint64(50), usage.ProcTime, "proc_time never decreases")
	assert.Equal(t, uint64(4096), usage.ProcWSet, "proc_wset never decreases")

	usage.Merge(ProcResUsage{RealTime: 200, ProcTime: 80, ProcWSet: 8192})
	assert.Equal(t, uint64(200), usage.RealTime)
	assert.Equal(t, uint64(80), usage.ProcTime)
	assert.Equal(t, uint64(8192), usage.ProcWSet)
}

func TestKillReasonString(t *testing.T) {
	cases := map[KillReason]string{
		KillReasonUnset:    "unset",
		KillReasonNone:     "none",
		KillReasonSecurity: "security",
		KillReasonRealtime: "realtime",
		KillReasonProcTime: "proctime",
		KillReasonProcWSet: "procwset",
	}
	for reason, want := range cases {
		assert.Equal(t, want, reason.String())
	}
}
