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

// setParentDeathSignal is hardening step 3. If the watchdog (parent) dies
// for any reason, the kernel delivers SIGKILL to this process so the
// guest never outlives its supervisor. Dropping privileges afterwards
// (step 4) clears this on some kernels, so the orchestrator also sets
// SysProcAttr.Pdeathsig at clone time as a second layer; this call is what
// the spec requires to happen explicitly, in order, inside the child.
func setParentDeathSignal(Plan) error {
	if err := unix.Prctl(unix.PR_SET_PDEATHSIG, uintptr(unix.SIGKILL), 0, 0, 0); err != nil {
		return fmt.Errorf("prctl(PR_SET_PDEATHSIG): %w", err)
	}
	return nil
}
